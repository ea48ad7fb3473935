package app

import (
	"context"
	"sync"

	"github.com/atmouse-/gensokyoradio/internal/domain"
)

// songQueue is an unbounded multi-producer, multi-consumer FIFO.
// Push never blocks. Growth is not bounded: a sustained burst of song events
// with slow asset fetches keeps every event in memory.
type songQueue struct {
	mu    sync.Mutex
	items []domain.SongInfo

	// ready holds a token while the queue may be non-empty.
	ready chan struct{}
}

func newSongQueue() *songQueue {
	return &songQueue{ready: make(chan struct{}, 1)}
}

// Push appends song and wakes one waiting consumer.
func (q *songQueue) Push(song domain.SongInfo) {
	q.mu.Lock()
	q.items = append(q.items, song)
	q.mu.Unlock()
	q.signal()
}

// Pop blocks until a song is available or ctx is done.
func (q *songQueue) Pop(ctx context.Context) (domain.SongInfo, error) {
	for {
		if song, ok := q.tryPop(); ok {
			return song, nil
		}
		select {
		case <-ctx.Done():
			return domain.SongInfo{}, ctx.Err()
		case <-q.ready:
		}
	}
}

// Len returns the number of queued songs.
func (q *songQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *songQueue) tryPop() (domain.SongInfo, bool) {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return domain.SongInfo{}, false
	}
	song := q.items[0]
	q.items[0] = domain.SongInfo{}
	q.items = q.items[1:]
	more := len(q.items) > 0
	q.mu.Unlock()

	// Pass the wakeup on so other consumers drain the rest.
	if more {
		q.signal()
	}
	return song, true
}

func (q *songQueue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
