package radio

import "github.com/atmouse-/gensokyoradio/internal/app"

// State is the lifecycle state of a Radio instance.
type State int

const (
	// StateStopped means the instance is not running. Start() may be called.
	StateStopped State = iota

	// StateStarting means Start() was called and the feed is being dialed.
	StateStarting

	// StateRunning means the connection is established and songs are processed.
	StateRunning

	// StateStopping means Stop() was called or the server closed the feed.
	StateStopping

	// StateCrashed means the connection failed. Start() may be called again.
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// CanStart reports whether Start() is allowed in this state.
func (s State) CanStart() bool {
	return s == StateStopped || s == StateCrashed
}

// CanStop reports whether Stop() is allowed in this state.
func (s State) CanStop() bool {
	return s == StateRunning || s == StateStarting
}

// IsRunning reports whether the feed is connected.
func (s State) IsRunning() bool {
	return s == StateRunning
}

func convertState(s app.State) State {
	switch s {
	case app.StateStopped:
		return StateStopped
	case app.StateStarting:
		return StateStarting
	case app.StateRunning:
		return StateRunning
	case app.StateStopping:
		return StateStopping
	case app.StateCrashed:
		return StateCrashed
	default:
		return StateStopped
	}
}
