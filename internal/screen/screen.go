package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursefit/internal/ui/layout"
)

// Screen is one page of the terminal UI.
type Screen interface {
	Init() tea.Cmd

	// Update handles a message and returns the screen to keep active.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area; the app draws header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider lets a screen show a short status on the right of the
// header, such as question progress.
type StatusProvider interface {
	Status() string
}
