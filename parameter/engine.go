package parameter

import "time"

// Timing
const (
	FlashBurstInterval = 500 * time.Millisecond
	TrailBurstInterval = 700 * time.Millisecond

	// DefaultFPS is the terminal and window frame rate
	DefaultFPS = 60
	MinFPS     = 1
	MaxFPS     = 240

	// FrameWaitTimeout bounds how long the window host waits for a tick before drawing anyway
	FrameWaitTimeout = 50 * time.Millisecond
)
