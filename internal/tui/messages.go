package tui

import (
	"time"

	"github.com/msto63/deepclock/internal/clock"
)

// Message types for tea.Cmd async operations

// intervalLoadedMsg is sent when the interval has been resolved
type intervalLoadedMsg struct {
	interval clock.Interval
	source   string
	err      error
}

// intervalSavedMsg is sent after an edited interval was stored
type intervalSavedMsg struct {
	interval clock.Interval
	id       string
	err      error
}

// tickMsg drives the refresh loop
type tickMsg time.Time
