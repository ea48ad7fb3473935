package domain

import "time"

// Event is one classified inbound protocol message.
// The set of implementations is closed: Welcome, Ping, SongInfo and Unknown.
type Event interface {
	isEvent()
}

// WelcomeEncoding records which wire form a Welcome arrived in.
type WelcomeEncoding int

const (
	// WelcomeText is the "welcome:<id>" literal form.
	WelcomeText WelcomeEncoding = iota
	// WelcomeJSON is the {"message":"welcome","id":<id>} form.
	WelcomeJSON
)

// Welcome carries the session identity assigned by the server.
type Welcome struct {
	ID       int64
	Encoding WelcomeEncoding
}

// Ping is the server keepalive. It must be answered with a pong reply.
type Ping struct{}

// SongInfo announces the track that just started playing.
type SongInfo struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	AlbumArt string `json:"albumart"`

	// Remaining is the number of seconds left in the track.
	Remaining uint32 `json:"remaining"`
}

// RemainingDuration returns Remaining as a time.Duration.
func (s SongInfo) RemainingDuration() time.Duration {
	return time.Duration(s.Remaining) * time.Second
}

// Unknown wraps a frame that matched no known message shape.
type Unknown struct {
	Raw string
}

func (Welcome) isEvent()  {}
func (Ping) isEvent()     {}
func (SongInfo) isEvent() {}
func (Unknown) isEvent()  {}
