package ports

import "context"

// FrameKind classifies a frame read from the transport.
type FrameKind int

const (
	// FrameText is an application text frame.
	FrameText FrameKind = iota
	// FrameBinary is a binary frame. The feed never sends these.
	FrameBinary
	// FrameClose means the peer closed the connection.
	FrameClose
)

// Frame is one discrete message read from the transport.
type Frame struct {
	Kind FrameKind
	Data []byte
}

// Conn is an established duplex connection carrying text frames.
// ReadFrame and WriteText may be called from two different goroutines, but
// each of them must not be called concurrently with itself.
type Conn interface {
	// ReadFrame blocks until the next frame arrives.
	// A clean close by the peer is reported as a FrameClose frame, not an error.
	ReadFrame() (Frame, error)

	// WriteText sends one text frame.
	WriteText(data string) error

	// Close releases the connection and unblocks a pending ReadFrame.
	Close() error
}

// Dialer opens a Conn to the feed endpoint.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}
