package domain

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestActiveNotes(t *testing.T) {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	notes := []Note{
		{ID: "old", CreatedAt: base},
		{ID: "gone", CreatedAt: base.Add(2 * time.Hour), Deleted: true},
		{ID: "new", CreatedAt: base.Add(time.Hour)},
		{ID: "tie", CreatedAt: base},
	}

	var ids []string
	for _, n := range ActiveNotes(notes) {
		ids = append(ids, n.ID)
	}
	want := []string{"new", "old", "tie"}
	if !slices.Equal(ids, want) {
		t.Errorf("ActiveNotes = %v, want %v", ids, want)
	}
}

func TestRecentNoteText(t *testing.T) {
	base := time.Now()
	notes := []Note{
		{ID: "1", Text: "first", CreatedAt: base},
		{ID: "2", Text: "second", CreatedAt: base.Add(time.Minute)},
		{ID: "3", Text: "deleted", CreatedAt: base.Add(time.Hour), Deleted: true},
	}

	text, ok := RecentNoteText(notes)
	if !ok || text != "second" {
		t.Errorf("RecentNoteText = %q, %v; want second, true", text, ok)
	}
	if _, ok := RecentNoteText(nil); ok {
		t.Error("expected no recent note for empty list")
	}
}

func TestFindNote(t *testing.T) {
	notes := []Note{{ID: "a"}, {ID: "b"}}
	if got := FindNote(notes, "b"); got != 1 {
		t.Errorf("FindNote(b) = %d, want 1", got)
	}
	if got := FindNote(notes, "z"); got != -1 {
		t.Errorf("FindNote(z) = %d, want -1", got)
	}
}

func TestNotesForCluster(t *testing.T) {
	base := time.Now()
	notes := []Note{
		{ID: "1", Text: "田中さんと会議", CreatedAt: base, CategoryIDs: []string{"u1"}},
		{ID: "2", Text: "散歩", CreatedAt: base.Add(time.Minute)},
		{ID: "3", Text: "田中さんに電話", CreatedAt: base.Add(time.Hour), Deleted: true},
	}

	tests := []struct {
		name    string
		cluster Cluster
		want    []string
	}{
		{"entity", Cluster{Origin: OriginEntity, Key: "田中さん", Name: "田中さん"}, []string{"1"}},
		{"local", Cluster{Origin: OriginLocal, Key: "work"}, []string{"1"}},
		{"fallback", Cluster{Origin: OriginLocal, Key: FallbackCategoryKey}, []string{"2"}},
		{"user", Cluster{Origin: OriginUser, Key: "u1"}, []string{"1"}},
		{"remote", Cluster{Origin: OriginRemote, Key: "x"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, n := range NotesForCluster(tt.cluster, notes) {
				ids = append(ids, n.ID)
			}
			if !slices.Equal(ids, tt.want) {
				t.Errorf("NotesForCluster = %v, want %v", ids, tt.want)
			}
		})
	}

	if _, known := NoteCount(Cluster{Origin: OriginRemote, Key: "x"}, notes); known {
		t.Error("expected remote note count to be unknown")
	}
}

func TestSortUserCategories(t *testing.T) {
	base := time.Now()
	categories := []UserCategory{
		{ID: "2", Name: "b", CreatedAt: base},
		{ID: "3", Name: "a", CreatedAt: base.Add(time.Minute)},
		{ID: "1", Name: "a", CreatedAt: base},
	}

	SortUserCategories(categories)

	var ids []string
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	if want := []string{"1", "3", "2"}; !slices.Equal(ids, want) {
		t.Errorf("SortUserCategories = %v, want %v", ids, want)
	}
}

func TestNote_JSONFieldNames(t *testing.T) {
	note := Note{
		ID:          "n1",
		Text:        "hello",
		CreatedAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		CategoryIDs: []string{"c1"},
		Deleted:     true,
	}

	data, err := json.Marshal(note)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{"id", "text", "date", "manualCategoryIDs", "isDeleted"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("expected key %q in %s", key, data)
		}
	}
}

func TestCluster_JSON(t *testing.T) {
	original := Cluster{Origin: OriginRemote, Key: "habits", Name: "habits", Description: "d", Summary: "s"}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `{"id":"remote:habits","name":"habits","description":"d","summary":"s"}`; string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var decoded Cluster
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip = %+v, want %+v", decoded, original)
	}
}

func TestParseClusterID(t *testing.T) {
	tests := []struct {
		id     string
		origin Origin
		key    string
	}{
		{"entity:田中さん", OriginEntity, "田中さん"},
		{"local:work", OriginLocal, "work"},
		{"manual:abc", OriginUser, "abc"},
		{"remote:a:b", OriginRemote, "a:b"},
		{"memu:old", OriginUnknown, "memu:old"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			origin, key := ParseClusterID(tt.id)
			if origin != tt.origin || key != tt.key {
				t.Errorf("ParseClusterID(%q) = %v, %q; want %v, %q", tt.id, origin, key, tt.origin, tt.key)
			}
			if got := ClusterID(origin, key); got != tt.id {
				t.Errorf("ClusterID round trip = %q, want %q", got, tt.id)
			}
		})
	}
}

func TestBulletLine(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"   ", ""},
		{"コーヒーが好き", "・コーヒーが好き"},
		{"・already bulleted", "・already bulleted"},
		{"• dot bullet", "・ dot bullet"},
		{"- dash bullet", "・dash bullet"},
		{"The user likes tea", "・likes tea"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := BulletLine(tt.input); got != tt.want {
				t.Errorf("BulletLine(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRetrievalQuery(t *testing.T) {
	q := RetrievalQuery(Cluster{Origin: OriginRemote, Key: "x", Name: " 仕事 "})
	if !strings.Contains(q, "テーマ: 仕事") {
		t.Errorf("expected topic line in query, got %q", q)
	}
	if !strings.Contains(q, "日本語") {
		t.Errorf("expected language instruction in query, got %q", q)
	}
}
