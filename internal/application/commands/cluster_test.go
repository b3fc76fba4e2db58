package commands

import (
	"context"
	"errors"
	"slices"
	"testing"

	"unsort/internal/application"
	"unsort/internal/application/apptest"
	"unsort/internal/domain"
)

func sectionIDs(result *ListClustersResult, section domain.Section) []string {
	for _, group := range result.Sections {
		if group.Section != section {
			continue
		}
		ids := make([]string, 0, len(group.Clusters))
		for _, c := range group.Clusters {
			ids = append(ids, c.Cluster.ID())
		}
		return ids
	}
	return nil
}

func TestListClustersCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		section string
		wantErr bool
	}{
		{"all sections", "", false},
		{"people", "people", false},
		{"remote", "remote", false},
		{"unknown section", "memu", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&ListClustersCommand{Section: tt.section}).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestListClustersCommand_Execute(t *testing.T) {
	service := &apptest.MockMemoryService{Categories: []domain.RemoteCategory{{Name: "habits", Summary: "walks"}}}
	ws := newWorkspace(t, service)
	ctx := context.Background()

	NewCreateNoteCommand(ws, "Aさんと明日の会議の資料を確認する").Execute(ctx)
	NewCreateNoteCommand(ws, "田中さんと会議").Execute(ctx)
	if _, err := NewSyncCommand(ws, false).Execute(ctx); err != nil {
		t.Fatalf("unexpected sync error: %v", err)
	}

	result, err := NewListClustersCommand(ws, "").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 4 {
		t.Errorf("expected 4 clusters, got %d", result.Total)
	}

	var sections []domain.Section
	for _, group := range result.Sections {
		sections = append(sections, group.Section)
	}
	if want := []domain.Section{domain.SectionPeople, domain.SectionLocal, domain.SectionRemote}; !slices.Equal(sections, want) {
		t.Errorf("sections = %v, want %v", sections, want)
	}

	for _, group := range result.Sections {
		for _, row := range group.Clusters {
			switch row.Cluster.ID() {
			case "local:work":
				if !row.CountKnown || row.NoteCount != 2 {
					t.Errorf("local:work count = %d, %v", row.NoteCount, row.CountKnown)
				}
			case "local:plan", "entity:田中さん":
				if !row.CountKnown || row.NoteCount != 1 {
					t.Errorf("%s count = %d, %v", row.Cluster.ID(), row.NoteCount, row.CountKnown)
				}
			case "remote:habits":
				if row.CountKnown {
					t.Error("expected remote count to be unknown")
				}
			}
		}
	}

	filtered, err := NewListClustersCommand(ws, "local").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sectionIDs(filtered, domain.SectionLocal); !slices.Equal(got, []string{"local:work", "local:plan"}) {
		t.Errorf("local clusters = %v", got)
	}
	if len(filtered.Sections) != 1 {
		t.Errorf("expected only the local section, got %d", len(filtered.Sections))
	}
}

func TestOpenClusterCommand_Execute(t *testing.T) {
	service := &apptest.MockMemoryService{
		Retrieval: &domain.Retrieval{
			Items: []domain.RetrievedItem{{Type: "event", Content: "Meeting tomorrow"}},
		},
	}
	ws := newWorkspace(t, service)
	ctx := context.Background()
	NewCreateNoteCommand(ws, "明日の会議").Execute(ctx)

	result, err := NewOpenClusterCommand(ws, "local:work").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Found {
		t.Fatal("expected cluster to be found")
	}
	if len(result.View.Notes) != 1 || len(result.View.Items) != 1 {
		t.Errorf("unexpected view %+v", result.View)
	}

	missing, err := NewOpenClusterCommand(ws, "local:idea").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing.Found {
		t.Error("expected unknown cluster to be reported as not found")
	}
}

func TestOpenClusterCommand_ServiceFailureIsNotAnError(t *testing.T) {
	service := &apptest.MockMemoryService{
		RetrieveErr: &application.ServiceError{Op: "retrieve", Err: errors.New("timeout")},
	}
	ws := newWorkspace(t, service)
	ctx := context.Background()
	NewCreateNoteCommand(ws, "明日の会議").Execute(ctx)

	result, err := NewOpenClusterCommand(ws, "local:work").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.View.Items) != 0 {
		t.Errorf("expected no items, got %d", len(result.View.Items))
	}
	if !contains(result.Message, "memory service") {
		t.Errorf("expected message to mention the service failure, got %q", result.Message)
	}
}

func TestHideClusterCommand_Execute(t *testing.T) {
	ws := newWorkspace(t, nil)
	ctx := context.Background()
	NewCreateNoteCommand(ws, "明日の会議").Execute(ctx)

	result, err := NewHideClusterCommand(ws, "local:work").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Found || !result.Changed {
		t.Errorf("unexpected result %+v", result)
	}

	again, err := NewHideClusterCommand(ws, "local:work").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Changed {
		t.Error("expected hiding twice to be a no-op")
	}

	list, _ := NewListClustersCommand(ws, "").Execute(ctx)
	if got := sectionIDs(list, domain.SectionLocal); !slices.Equal(got, []string{"local:plan"}) {
		t.Errorf("local clusters = %v", got)
	}

	missing, err := NewHideClusterCommand(ws, "local:idea").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing.Found {
		t.Error("expected unknown cluster to be reported as not found")
	}
}

func TestOrderClustersCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		section string
		ids     []string
		wantErr bool
		errMsg  string
	}{
		{"valid order", "local", []string{"local:b", "local:a"}, false, ""},
		{"empty order resets", "local", nil, false, ""},
		{"unknown section", "nowhere", []string{"local:a"}, true, "unknown section"},
		{"cluster from another section", "local", []string{"manual:x"}, true, "does not belong"},
		{"unknown namespace goes to other", "other", []string{"memu:x"}, false, ""},
		{"blank id", "local", []string{" "}, true, "cluster ID is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&OrderClustersCommand{Section: tt.section, ClusterIDs: tt.ids}).Validate()
			if tt.wantErr {
				if err == nil || !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %v", tt.errMsg, err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestOrderClustersCommand_Execute(t *testing.T) {
	ws := newWorkspace(t, nil)
	ctx := context.Background()
	NewCreateNoteCommand(ws, "小説と勉強と会議").Execute(ctx)

	if _, err := NewOrderClustersCommand(ws, "local", []string{"local:study", "local:novel"}).Execute(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, _ := NewListClustersCommand(ws, "local").Execute(ctx)
	want := []string{"local:study", "local:novel", "local:work"}
	if got := sectionIDs(list, domain.SectionLocal); !slices.Equal(got, want) {
		t.Errorf("local clusters = %v, want %v", got, want)
	}
}

func TestMoveClusterCommand(t *testing.T) {
	ws := newWorkspace(t, nil)
	ctx := context.Background()
	NewCreateNoteCommand(ws, "小説と勉強と会議").Execute(ctx)

	if err := (&MoveClusterCommand{Section: "local"}).Validate(); err == nil {
		t.Error("expected error without positions")
	}
	if err := (&MoveClusterCommand{Section: "local", From: []int{-1}}).Validate(); err == nil {
		t.Error("expected error for negative position")
	}

	result, err := NewMoveClusterCommand(ws, "local", []int{0}, 3).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"local:study", "local:novel", "local:work"}
	if !slices.Equal(result.Order, want) {
		t.Errorf("Order = %v, want %v", result.Order, want)
	}
}

func TestItemCommands(t *testing.T) {
	service := &apptest.MockMemoryService{
		Retrieval: &domain.Retrieval{
			Items: []domain.RetrievedItem{
				{Type: "event", Content: "Meeting tomorrow at ten"},
				{Type: "profile", Content: "Works in sales"},
				{Type: "profile", Content: "works in sales."},
			},
		},
	}
	ws := newWorkspace(t, service)
	ctx := context.Background()
	NewCreateNoteCommand(ws, "明日の会議").Execute(ctx)

	opened, _ := NewOpenClusterCommand(ws, "local:work").Execute(ctx)
	if len(opened.View.Items) != 2 {
		t.Fatalf("expected 2 aggregated items, got %+v", opened.View.Items)
	}
	first, second := opened.View.Items[0].ID, opened.View.Items[1].ID

	if _, err := NewOrderItemsCommand(ws, "local:work", []string{second, first}).Execute(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opened, _ = NewOpenClusterCommand(ws, "local:work").Execute(ctx)
	if opened.View.Items[0].ID != second {
		t.Errorf("expected explicit item order, got %+v", opened.View.Items)
	}

	hidden, err := NewHideItemCommand(ws, "local:work", second).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hidden.Changed {
		t.Error("expected item to be hidden")
	}
	opened, _ = NewOpenClusterCommand(ws, "local:work").Execute(ctx)
	if len(opened.View.Items) != 1 || opened.View.Items[0].ID != first {
		t.Errorf("expected only %s, got %+v", first, opened.View.Items)
	}

	if err := (&HideItemCommand{ClusterID: "local:work"}).Validate(); err == nil {
		t.Error("expected error for missing item id")
	}
}

func TestSyncCommand(t *testing.T) {
	service := &apptest.MockMemoryService{}
	ws := newWorkspace(t, service)
	ctx := context.Background()
	NewCreateNoteCommand(ws, "会議").Execute(ctx)

	service.SetCategories(domain.RemoteCategory{Name: "a"}, domain.RemoteCategory{Name: "b"})
	result, err := NewSyncCommand(ws, false).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Clusters != 3 || result.Remote != 2 {
		t.Errorf("unexpected result %+v", result)
	}

	service.SetFetchErr(&application.ServiceError{Op: "categories", StatusCode: 500, Err: errors.New("down")})
	if _, err := NewSyncCommand(ws, false).Execute(ctx); !errors.Is(err, application.ErrService) {
		t.Errorf("expected ErrService, got %v", err)
	}

	local, err := NewSyncCommand(ws, true).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if local.Remote != 2 {
		t.Errorf("expected local refresh to keep remote clusters, got %d", local.Remote)
	}
}
