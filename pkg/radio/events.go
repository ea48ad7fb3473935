package radio

import "github.com/atmouse-/gensokyoradio/internal/app"

// StateChangeEvent is emitted on every lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// SongChangedEvent is emitted once per song after its album art was resolved.
// ImagePath is empty and Error is set when the art could not be fetched.
type SongChangedEvent struct {
	Song      SongInfo
	ImagePath string
	Error     error
}

// EventHandler receives runtime events.
// Methods are called synchronously from runtime goroutines and should
// return quickly.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnSongChanged(event SongChangedEvent)
}

// BaseEventHandler implements EventHandler with no-op methods.
// Embed it to handle only the events you care about.
type BaseEventHandler struct{}

// OnStateChange does nothing.
func (BaseEventHandler) OnStateChange(StateChangeEvent) {}

// OnSongChanged does nothing.
func (BaseEventHandler) OnSongChanged(SongChangedEvent) {}

// eventEmitterWrapper adapts EventHandler to the internal emitter interfaces.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnSongChanged(song SongInfo, imagePath string, err error) {
	if e.handler == nil {
		return
	}
	e.handler.OnSongChanged(SongChangedEvent{
		Song:      song,
		ImagePath: imagePath,
		Error:     err,
	})
}
