package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoFields is returned when there is nothing to prompt for.
	ErrNoFields = errors.New("tui: no fields to prompt")
)
