package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"unsort/internal/application"
	"unsort/internal/domain"
)

// CreateCategoryResult contains the result of creating a user category
type CreateCategoryResult struct {
	Category domain.UserCategory
	Message  string
}

// CreateCategoryCommand declares a user category
type CreateCategoryCommand struct {
	ws          *application.Workspace
	Name        string
	Description string
}

// NewCreateCategoryCommand creates a new CreateCategoryCommand
func NewCreateCategoryCommand(ws *application.Workspace, name, description string) *CreateCategoryCommand {
	return &CreateCategoryCommand{
		ws:          ws,
		Name:        name,
		Description: description,
	}
}

// Validate checks if the category can be created
func (c *CreateCategoryCommand) Validate() error {
	return application.ValidateRequired("name", c.Name)
}

// Execute runs the create category command
func (c *CreateCategoryCommand) Execute(ctx context.Context) (*CreateCategoryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	category, err := c.ws.CreateCategory(ctx, strings.TrimSpace(c.Name), strings.TrimSpace(c.Description))
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &CreateCategoryResult{
		Category: category,
		Message:  fmt.Sprintf("Created category: %s %s", category.ID, category.Name),
	}, nil
}

// DeleteCategoryResult contains the result of deleting a user category
type DeleteCategoryResult struct {
	CategoryID    string
	Found         bool
	UntaggedNotes int
	Message       string
}

// DeleteCategoryCommand removes a user category and unfiles its notes
type DeleteCategoryCommand struct {
	ws         *application.Workspace
	CategoryID string
}

// NewDeleteCategoryCommand creates a new DeleteCategoryCommand
func NewDeleteCategoryCommand(ws *application.Workspace, categoryID string) *DeleteCategoryCommand {
	return &DeleteCategoryCommand{
		ws:         ws,
		CategoryID: categoryID,
	}
}

// Validate checks if the delete is valid
func (c *DeleteCategoryCommand) Validate() error {
	return application.ValidateRequired("categoryID", c.CategoryID)
}

// Execute runs the delete category command
func (c *DeleteCategoryCommand) Execute(ctx context.Context) (*DeleteCategoryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	untagged, err := c.ws.DeleteCategory(ctx, c.CategoryID)
	if errors.Is(err, application.ErrNotFound) {
		return &DeleteCategoryResult{CategoryID: c.CategoryID, Message: err.Error()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}

	return &DeleteCategoryResult{
		CategoryID:    c.CategoryID,
		Found:         true,
		UntaggedNotes: untagged,
		Message:       fmt.Sprintf("Deleted category %s (%d notes untagged)", c.CategoryID, untagged),
	}, nil
}

// ListCategoriesCommand lists the user categories by name
type ListCategoriesCommand struct {
	ws *application.Workspace
}

// NewListCategoriesCommand creates a new ListCategoriesCommand
func NewListCategoriesCommand(ws *application.Workspace) *ListCategoriesCommand {
	return &ListCategoriesCommand{ws: ws}
}

// Execute runs the list categories command
func (c *ListCategoriesCommand) Execute(ctx context.Context) ([]domain.UserCategory, error) {
	return c.ws.Categories(), nil
}
