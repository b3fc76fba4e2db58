package domain

import "testing"

func TestBuildRemoteClusters(t *testing.T) {
	clusters := BuildRemoteClusters([]RemoteCategory{
		{Name: "habits", Description: "daily routines", Summary: "walks every morning"},
		{Name: "work"},
	})

	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	c := clusters[0]
	if c.ID() != "remote:habits" || c.Section() != SectionRemote {
		t.Errorf("id = %s, section = %s", c.ID(), c.Section())
	}
	if c.Description != "daily routines" || c.Summary != "walks every morning" {
		t.Errorf("unexpected cluster %+v", c)
	}
	if n, known := NoteCount(c, []Note{{ID: "1", Text: "habits"}}); known || n != 0 {
		t.Errorf("remote note count = %d, %v; want unknown", n, known)
	}
}

func TestRetrieval_Summary(t *testing.T) {
	tests := []struct {
		name      string
		retrieval *Retrieval
		want      string
	}{
		{"nil", nil, ""},
		{"no categories", &Retrieval{}, ""},
		{"first category", &Retrieval{Categories: []RemoteCategory{{Summary: "first"}, {Summary: "second"}}}, "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.retrieval.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTaskStatus_String(t *testing.T) {
	tests := []struct {
		status TaskStatus
		want   string
	}{
		{TaskPending, "pending"},
		{TaskSuccess, "success"},
		{TaskFailed, "failed"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestCharCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"会議", 2},
		{"👍🏽", 1},
		{"é", 1},
	}

	for _, tt := range tests {
		if got := CharCount(tt.in); got != tt.want {
			t.Errorf("CharCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLower(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Green TEA", "green tea"},
		{"ÀÉÎ", "àéî"},
		{"田中さん", "田中さん"},
	}

	for _, tt := range tests {
		if got := Lower(tt.in); got != tt.want {
			t.Errorf("Lower(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
