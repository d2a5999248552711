package parameter

import "time"

// Terminal host layout
const (
	// HUDRows is the number of terminal rows reserved for the status line when enabled
	HUDRows = 1

	// FallbackCols/Rows size the viewport when neither screen nor TTY report one
	FallbackCols = 80
	FallbackRows = 24

	// MinColors is the lowest palette depth the terminal presenter accepts
	MinColors = 8

	// CountdownRefresh is the redraw period of the countdown screen
	CountdownRefresh = 250 * time.Millisecond
)

// Window host
const (
	WindowTitle  = "fireworks"
	WindowWidth  = 960
	WindowHeight = 600
)
