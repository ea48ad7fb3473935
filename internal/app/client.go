package app

import (
	"context"
	"fmt"
	"time"

	"github.com/atmouse-/gensokyoradio/internal/domain"
	"github.com/atmouse-/gensokyoradio/internal/ports"
	"github.com/atmouse-/gensokyoradio/internal/protocol"
)

// DefaultTickInterval is the default period of the connection loop's timer.
const DefaultTickInterval = time.Second

// SongQueue accepts song events without blocking.
type SongQueue interface {
	Enqueue(song domain.SongInfo)
}

// ClientConfig contains configuration for the connection loop.
type ClientConfig struct {
	TickInterval time.Duration

	// OnTick runs on the loop goroutine at every tick. It must not block.
	OnTick func(now time.Time)
}

// Client drives one feed connection: it reads frames, classifies them,
// updates the session, answers pings and hands songs to the queue.
// It is the only writer on the connection.
type Client struct {
	conn    ports.Conn
	session *protocol.Session
	songs   SongQueue
	logger  ports.Logger
	config  ClientConfig
}

// NewClient creates a connection loop over an established connection.
func NewClient(conn ports.Conn, session *protocol.Session, songs SongQueue, logger ports.Logger, config ClientConfig) *Client {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}
	return &Client{
		conn:    conn,
		session: session,
		songs:   songs,
		logger:  logger,
		config:  config,
	}
}

type readResult struct {
	frame ports.Frame
	err   error
}

// Run sends the greeting and processes frames until the peer closes the
// connection (nil), ctx is done (ctx.Err()), or the transport fails.
// Run owns the connection and closes it before returning.
func (c *Client) Run(ctx context.Context) error {
	defer c.conn.Close()

	if err := c.conn.WriteText(c.session.Greeting()); err != nil {
		return fmt.Errorf("send greeting: %w", err)
	}
	c.logger.Debug("greeting sent")

	frames := make(chan readResult)
	done := make(chan struct{})
	defer close(done)
	go c.readLoop(frames, done)

	ticker := time.NewTicker(c.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case r := <-frames:
			if r.err != nil {
				return fmt.Errorf("read frame: %w", r.err)
			}
			switch r.frame.Kind {
			case ports.FrameClose:
				c.logger.Info("connection closed by peer", ports.String("reason", string(r.frame.Data)))
				return nil
			case ports.FrameBinary:
				return domain.ErrBinaryFrame
			}
			if err := c.handleText(string(r.frame.Data)); err != nil {
				return err
			}

		case now := <-ticker.C:
			if c.config.OnTick != nil {
				c.config.OnTick(now)
			}
		}
	}
}

// readLoop pumps frames to Run until a terminal frame or error.
func (c *Client) readLoop(frames chan<- readResult, done <-chan struct{}) {
	for {
		f, err := c.conn.ReadFrame()
		select {
		case frames <- readResult{frame: f, err: err}:
		case <-done:
			return
		}
		if err != nil || f.Kind != ports.FrameText {
			return
		}
	}
}

func (c *Client) handleText(raw string) error {
	switch ev := protocol.Classify(raw).(type) {
	case domain.Welcome:
		c.session.ApplyWelcome(ev)
		c.logger.Info("session identified", ports.Int64("id", ev.ID))

	case domain.Ping:
		reply := c.session.Reply()
		if err := c.conn.WriteText(reply); err != nil {
			return fmt.Errorf("send reply: %w", err)
		}
		c.logger.Debug("ping answered", ports.String("reply", reply))

	case domain.SongInfo:
		c.logger.Info("song changed",
			ports.String("title", ev.Title),
			ports.String("artist", ev.Artist),
			ports.String("album", ev.Album),
			ports.Duration("remaining", ev.RemainingDuration()),
		)
		c.songs.Enqueue(ev)

	case domain.Unknown:
		c.logger.Debug("unknown message", ports.String("raw", ev.Raw))
	}
	return nil
}
