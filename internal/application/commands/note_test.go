package commands

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"unsort/internal/application"
	"unsort/internal/application/apptest"
	"unsort/internal/domain"
	"unsort/internal/ports"
)

func newWorkspace(t *testing.T, service ports.MemoryService) *application.Workspace {
	t.Helper()
	ws := application.NewWorkspace(apptest.NewMockStore(), service, application.Options{
		PollInterval: time.Millisecond,
		PollAttempts: 2,
	})
	if err := ws.Load(context.Background()); err != nil {
		t.Fatalf("failed to load workspace: %v", err)
	}
	return ws
}

func TestCreateNoteCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid note",
			text:    "明日の会議",
			wantErr: false,
		},
		{
			name:    "empty text",
			text:    "",
			wantErr: true,
			errMsg:  "text is required",
		},
		{
			name:    "whitespace only",
			text:    " \n\t　",
			wantErr: true,
			errMsg:  "text is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &CreateNoteCommand{Text: tt.text}
			err := cmd.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errMsg)
					return
				}
				if !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
				var valErr *application.ValidationError
				if !errors.As(err, &valErr) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateNoteCommand_Execute(t *testing.T) {
	ws := newWorkspace(t, nil)

	result, err := NewCreateNoteCommand(ws, "  田中さんと明日の会議  ").Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Note.Text != "田中さんと明日の会議" {
		t.Errorf("expected trimmed text, got %q", result.Note.Text)
	}
	if !slices.Equal(result.Categories, []string{"work", "plan"}) {
		t.Errorf("unexpected categories %v", result.Categories)
	}
	if !slices.Equal(result.Entities, []string{"田中さん"}) {
		t.Errorf("unexpected entities %v", result.Entities)
	}
	if !contains(result.Message, result.Note.ID) {
		t.Errorf("expected message to name the note, got %q", result.Message)
	}
	if _, ok := ws.Cluster("entity:田中さん"); !ok {
		t.Error("expected entity cluster after create")
	}
}

func TestCreateNoteCommand_RejectsBlankBeforeMutation(t *testing.T) {
	ws := newWorkspace(t, nil)

	if _, err := NewCreateNoteCommand(ws, "   ").Execute(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}
	if got := len(ws.Notes()); got != 0 {
		t.Errorf("expected no notes, got %d", got)
	}
}

func TestSubmitNoteCommand_Execute(t *testing.T) {
	tests := []struct {
		name       string
		service    *apptest.MockMemoryService
		wantErr    bool
		wantMsg    string
		wantRemote bool
	}{
		{
			name: "synced",
			service: &apptest.MockMemoryService{
				TaskID:     "task-1",
				Statuses:   []domain.TaskStatus{domain.TaskSuccess},
				Categories: []domain.RemoteCategory{{Name: "work-life"}},
			},
			wantMsg:    "synced",
			wantRemote: true,
		},
		{
			name: "pending",
			service: &apptest.MockMemoryService{
				TaskID:     "task-1",
				Categories: []domain.RemoteCategory{{Name: "work-life"}},
			},
			wantMsg:    "still pending",
			wantRemote: true,
		},
		{
			name: "service down",
			service: &apptest.MockMemoryService{
				SubmitErr: &application.ServiceError{Op: "memorize", StatusCode: 502, Err: errors.New("bad gateway")},
			},
			wantErr: true,
			wantMsg: "locally; memory service",
		},
		{
			name:    "offline",
			service: nil,
			wantMsg: "offline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var service ports.MemoryService
			if tt.service != nil {
				service = tt.service
			}
			ws := newWorkspace(t, service)

			result, err := NewSubmitNoteCommand(ws, "明日の会議").Execute(context.Background())
			if tt.wantErr != (err != nil) {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, application.ErrService) {
				t.Errorf("expected a service error, got %v", err)
			}
			if result == nil {
				t.Fatal("expected a result whenever the note was saved")
			}
			if !contains(result.Message, tt.wantMsg) {
				t.Errorf("expected message containing %q, got %q", tt.wantMsg, result.Message)
			}
			if got := len(ws.Notes()); got != 1 {
				t.Errorf("expected the note to be saved, got %d", got)
			}
			if _, ok := ws.Cluster("remote:work-life"); ok != tt.wantRemote {
				t.Errorf("remote cluster present = %v, want %v", ok, tt.wantRemote)
			}
		})
	}
}

func TestEditNoteCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		noteID  string
		text    string
		wantErr bool
		errMsg  string
	}{
		{"valid edit", "n1", "new text", false, ""},
		{"empty note ID", "", "new text", true, "note ID is required"},
		{"empty text", "n1", "  ", true, "text is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&EditNoteCommand{NoteID: tt.noteID, Text: tt.text}).Validate()
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

func TestEditNoteCommand_Execute(t *testing.T) {
	ws := newWorkspace(t, nil)
	ctx := context.Background()
	created, _ := NewCreateNoteCommand(ws, "散歩").Execute(ctx)

	result, err := NewEditNoteCommand(ws, created.Note.ID, "読書").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Found || result.Note.Text != "読書" {
		t.Errorf("unexpected result %+v", result)
	}
	if _, ok := ws.Cluster("local:study"); !ok {
		t.Error("expected the edit to reclassify the note")
	}

	missing, err := NewEditNoteCommand(ws, "missing", "x").Execute(ctx)
	if err != nil {
		t.Fatalf("expected not-found to be reported in the result, got %v", err)
	}
	if missing.Found {
		t.Error("expected Found to be false")
	}
	if !contains(missing.Message, "not found") {
		t.Errorf("unexpected message %q", missing.Message)
	}
}

func TestDeleteNoteCommand_Execute(t *testing.T) {
	ws := newWorkspace(t, nil)
	ctx := context.Background()
	created, _ := NewCreateNoteCommand(ws, "会議").Execute(ctx)

	result, err := NewDeleteNoteCommand(ws, created.Note.ID).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Found {
		t.Error("expected Found to be true")
	}
	if got := ws.Clusters(); len(got) != 0 {
		t.Errorf("expected no clusters after delete, got %d", len(got))
	}

	again, err := NewDeleteNoteCommand(ws, created.Note.ID).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Found {
		t.Error("expected second delete to report not found")
	}
}

func TestToggleNoteCategoryCommand_Execute(t *testing.T) {
	ws := newWorkspace(t, nil)
	ctx := context.Background()
	note, _ := NewCreateNoteCommand(ws, "散歩").Execute(ctx)
	category, _ := NewCreateCategoryCommand(ws, "Walks", "").Execute(ctx)

	result, err := NewToggleNoteCategoryCommand(ws, note.Note.ID, category.Category.ID).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Found || !result.Added {
		t.Errorf("unexpected result %+v", result)
	}

	result, err = NewToggleNoteCategoryCommand(ws, note.Note.ID, category.Category.ID).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Found || result.Added {
		t.Errorf("expected second toggle to remove, got %+v", result)
	}

	result, err = NewToggleNoteCategoryCommand(ws, "missing", category.Category.ID).Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Found {
		t.Error("expected unknown note to be reported as not found")
	}
}

func TestListNotesCommand_Execute(t *testing.T) {
	ws := newWorkspace(t, nil)
	ctx := context.Background()
	NewCreateNoteCommand(ws, "会議").Execute(ctx)
	NewCreateNoteCommand(ws, "小説").Execute(ctx)

	all, err := NewListNotesCommand(ws, "").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all.Notes) != 2 {
		t.Errorf("expected 2 notes, got %d", len(all.Notes))
	}

	work, err := NewListNotesCommand(ws, "local:work").Execute(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(work.Notes) != 1 || work.Notes[0].Text != "会議" {
		t.Errorf("unexpected notes %+v", work.Notes)
	}

	if _, err := NewListNotesCommand(ws, "local:idea").Execute(ctx); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown cluster, got %v", err)
	}
}

func contains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
