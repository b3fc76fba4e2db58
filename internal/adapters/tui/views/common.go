package views

import (
	"github.com/charmbracelet/log"

	"unsort/internal/application"
)

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Deps are the collaborators every view works against
type Deps struct {
	Workspace *application.Workspace
	Logger    *log.Logger
}

// View switching messages

type SwitchToClustersMsg struct {
	Message string
}

type SwitchToClusterMsg struct {
	ClusterID string
}

type SwitchToWriteMsg struct{}

type SwitchToCategoryMsg struct{}

type SwitchToHelpMsg struct{}

// errMsg carries a failed operation back to the view that started it
type errMsg struct {
	err error
}

// listWindow returns the [start, end) range of a list of n rows that keeps
// cursor visible in a window of height rows.
func listWindow(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	start = max(0, min(start, n-height))
	return start, start + height
}
