package engine

import "github.com/pkg/errors"

var (
	// ErrUnavailableSurface means the presenter could not obtain a drawable target
	// Activation aborts with nothing registered
	ErrUnavailableSurface = errors.New("engine: drawing surface unavailable")

	ErrAlreadyActive = errors.New("engine: already active")

	// ErrDeactivated is returned when activating an engine that was torn down, engines are single use
	ErrDeactivated = errors.New("engine: deactivated")

	ErrNoFrameSource = errors.New("engine: host has no frame source")
)
