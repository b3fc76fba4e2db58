package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"unsort/internal/application"
	"unsort/internal/domain"
)

// CreateNoteResult contains the result of creating a note
type CreateNoteResult struct {
	Note       domain.Note
	Categories []string // local category keys the note was classified into
	Entities   []string
	Message    string
}

// CreateNoteCommand saves a note locally without sending it to the memory service
type CreateNoteCommand struct {
	ws   *application.Workspace
	Text string
}

// NewCreateNoteCommand creates a new CreateNoteCommand
func NewCreateNoteCommand(ws *application.Workspace, text string) *CreateNoteCommand {
	return &CreateNoteCommand{
		ws:   ws,
		Text: text,
	}
}

// Validate checks if the note can be created
func (c *CreateNoteCommand) Validate() error {
	return application.ValidateRequired("text", c.Text)
}

// Execute runs the create note command
func (c *CreateNoteCommand) Execute(ctx context.Context) (*CreateNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(c.Text)
	note, _, err := c.ws.AddNote(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return &CreateNoteResult{
		Note:       note,
		Categories: domain.Classify(text),
		Entities:   domain.ExtractEntities(text),
		Message:    fmt.Sprintf("Saved note %s", note.ID),
	}, nil
}

// SubmitNoteResult contains the result of submitting a note
type SubmitNoteResult struct {
	Submission *application.Submission
	Message    string
}

// SubmitNoteCommand saves a note and sends it to the memory service
type SubmitNoteCommand struct {
	ws   *application.Workspace
	Text string
}

// NewSubmitNoteCommand creates a new SubmitNoteCommand
func NewSubmitNoteCommand(ws *application.Workspace, text string) *SubmitNoteCommand {
	return &SubmitNoteCommand{
		ws:   ws,
		Text: text,
	}
}

// Validate checks if the note can be submitted
func (c *SubmitNoteCommand) Validate() error {
	return application.ValidateRequired("text", c.Text)
}

// Execute runs the submit note command.
// The result is non-nil whenever the note was saved locally, even when the
// memory service failed afterwards; the service error is returned alongside.
func (c *SubmitNoteCommand) Execute(ctx context.Context) (*SubmitNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sub, err := c.ws.SubmitNote(ctx, strings.TrimSpace(c.Text))
	if sub == nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}

	result := &SubmitNoteResult{Submission: sub}
	switch {
	case err != nil:
		result.Message = fmt.Sprintf("Saved note %s locally; memory service: %v", sub.Note.ID, err)
	case !sub.Submitted:
		result.Message = fmt.Sprintf("Saved note %s locally (offline)", sub.Note.ID)
	case sub.Status == domain.TaskSuccess:
		result.Message = fmt.Sprintf("Saved note %s and synced", sub.Note.ID)
	default:
		result.Message = fmt.Sprintf("Saved note %s; task %s is still %s", sub.Note.ID, sub.TaskID, sub.Status)
	}
	return result, err
}

// EditNoteResult contains the result of editing a note
type EditNoteResult struct {
	Note    domain.Note
	Found   bool
	Message string
}

// EditNoteCommand replaces the text of a note
type EditNoteCommand struct {
	ws     *application.Workspace
	NoteID string
	Text   string
}

// NewEditNoteCommand creates a new EditNoteCommand
func NewEditNoteCommand(ws *application.Workspace, noteID, text string) *EditNoteCommand {
	return &EditNoteCommand{
		ws:     ws,
		NoteID: noteID,
		Text:   text,
	}
}

// Validate checks if the edit is valid
func (c *EditNoteCommand) Validate() error {
	if err := application.ValidateRequired("noteID", c.NoteID); err != nil {
		return err
	}
	return application.ValidateRequired("text", c.Text)
}

// Execute runs the edit note command
func (c *EditNoteCommand) Execute(ctx context.Context) (*EditNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	note, err := c.ws.EditNote(ctx, c.NoteID, strings.TrimSpace(c.Text))
	if errors.Is(err, application.ErrNotFound) {
		return &EditNoteResult{Message: err.Error()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to edit note: %w", err)
	}

	return &EditNoteResult{
		Note:    note,
		Found:   true,
		Message: fmt.Sprintf("Updated note %s", note.ID),
	}, nil
}

// DeleteNoteResult contains the result of deleting a note
type DeleteNoteResult struct {
	NoteID  string
	Found   bool
	Message string
}

// DeleteNoteCommand soft-deletes a note
type DeleteNoteCommand struct {
	ws     *application.Workspace
	NoteID string
}

// NewDeleteNoteCommand creates a new DeleteNoteCommand
func NewDeleteNoteCommand(ws *application.Workspace, noteID string) *DeleteNoteCommand {
	return &DeleteNoteCommand{
		ws:     ws,
		NoteID: noteID,
	}
}

// Validate checks if the delete is valid
func (c *DeleteNoteCommand) Validate() error {
	return application.ValidateRequired("noteID", c.NoteID)
}

// Execute runs the delete note command
func (c *DeleteNoteCommand) Execute(ctx context.Context) (*DeleteNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	_, err := c.ws.DeleteNote(ctx, c.NoteID)
	if errors.Is(err, application.ErrNotFound) {
		return &DeleteNoteResult{NoteID: c.NoteID, Message: err.Error()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete note: %w", err)
	}

	return &DeleteNoteResult{
		NoteID:  c.NoteID,
		Found:   true,
		Message: fmt.Sprintf("Deleted note %s", c.NoteID),
	}, nil
}

// ToggleNoteCategoryResult contains the result of toggling a note's category
type ToggleNoteCategoryResult struct {
	Added   bool
	Found   bool
	Message string
}

// ToggleNoteCategoryCommand files a note under a user category, or unfiles it
type ToggleNoteCategoryCommand struct {
	ws         *application.Workspace
	NoteID     string
	CategoryID string
}

// NewToggleNoteCategoryCommand creates a new ToggleNoteCategoryCommand
func NewToggleNoteCategoryCommand(ws *application.Workspace, noteID, categoryID string) *ToggleNoteCategoryCommand {
	return &ToggleNoteCategoryCommand{
		ws:         ws,
		NoteID:     noteID,
		CategoryID: categoryID,
	}
}

// Validate checks if the toggle is valid
func (c *ToggleNoteCategoryCommand) Validate() error {
	if err := application.ValidateRequired("noteID", c.NoteID); err != nil {
		return err
	}
	return application.ValidateRequired("categoryID", c.CategoryID)
}

// Execute runs the toggle command
func (c *ToggleNoteCategoryCommand) Execute(ctx context.Context) (*ToggleNoteCategoryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	added, err := c.ws.ToggleNoteCategory(ctx, c.NoteID, c.CategoryID)
	if errors.Is(err, application.ErrNotFound) {
		return &ToggleNoteCategoryResult{Message: err.Error()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle category: %w", err)
	}

	verb := "Removed"
	if added {
		verb = "Added"
	}
	return &ToggleNoteCategoryResult{
		Added:   added,
		Found:   true,
		Message: fmt.Sprintf("%s category %s on note %s", verb, c.CategoryID, c.NoteID),
	}, nil
}

// ListNotesResult contains the active notes, newest first
type ListNotesResult struct {
	Notes []domain.Note
}

// ListNotesCommand lists the active notes, optionally only those of one cluster
type ListNotesCommand struct {
	ws        *application.Workspace
	ClusterID string
}

// NewListNotesCommand creates a new ListNotesCommand
func NewListNotesCommand(ws *application.Workspace, clusterID string) *ListNotesCommand {
	return &ListNotesCommand{
		ws:        ws,
		ClusterID: clusterID,
	}
}

// Execute runs the list notes command
func (c *ListNotesCommand) Execute(ctx context.Context) (*ListNotesResult, error) {
	notes := c.ws.Notes()
	if c.ClusterID == "" {
		return &ListNotesResult{Notes: notes}, nil
	}

	cluster, ok := c.ws.Cluster(c.ClusterID)
	if !ok {
		return nil, &application.NotFoundError{Kind: "cluster", ID: c.ClusterID}
	}
	return &ListNotesResult{Notes: domain.NotesForCluster(cluster, notes)}, nil
}
