package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/atmouse-/gensokyoradio/internal/domain"
	"github.com/atmouse-/gensokyoradio/internal/ports"
)

// DefaultWorkers is the default size of the notification worker pool.
const DefaultWorkers = 4

// AssetResolver maps an album-art locator to a local file, fetching it if needed.
type AssetResolver interface {
	Resolve(ctx context.Context, locator string) (string, error)
}

// SongEventEmitter is called once per dequeued song, after its album art
// was resolved (imagePath set) or failed to resolve (err set).
type SongEventEmitter interface {
	OnSongChanged(song domain.SongInfo, imagePath string, err error)
}

// DispatchStats counts dispatcher outcomes.
type DispatchStats struct {
	Delivered uint64
	Dropped   uint64
	Muted     uint64
}

// Dispatcher runs a fixed pool of workers that turn song events into desktop
// notifications. Workers share one unbounded queue; delivery order across
// workers is not guaranteed.
type Dispatcher struct {
	workers  int
	queue    *songQueue
	resolver AssetResolver
	notifier ports.Notifier
	settings ports.SettingsSource
	logger   ports.Logger
	emitter  SongEventEmitter

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	delivered atomic.Uint64
	dropped   atomic.Uint64
	muted     atomic.Uint64
}

// NewDispatcher creates a dispatcher. workers <= 0 means DefaultWorkers.
// emitter may be nil.
func NewDispatcher(
	workers int,
	resolver AssetResolver,
	notifier ports.Notifier,
	settings ports.SettingsSource,
	logger ports.Logger,
	emitter SongEventEmitter,
) *Dispatcher {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Dispatcher{
		workers:  workers,
		queue:    newSongQueue(),
		resolver: resolver,
		notifier: notifier,
		settings: settings,
		logger:   logger,
		emitter:  emitter,
	}
}

// Start launches the worker pool. Workers stop when ctx is done or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	for i := 1; i <= d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx, i)
	}
	d.logger.Info("dispatcher started", ports.Int("workers", d.workers))
}

// Stop cancels the workers and waits for them to exit. Songs still queued
// are discarded.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	d.wg.Wait()
	d.logger.Info("dispatcher stopped", ports.Int("discarded", d.queue.Len()))
}

// Enqueue queues a song for notification. It never blocks.
func (d *Dispatcher) Enqueue(song domain.SongInfo) {
	d.queue.Push(song)
}

// Len returns the number of songs waiting for a worker.
func (d *Dispatcher) Len() int {
	return d.queue.Len()
}

// Stats returns a snapshot of the dispatcher counters.
func (d *Dispatcher) Stats() DispatchStats {
	return DispatchStats{
		Delivered: d.delivered.Load(),
		Dropped:   d.dropped.Load(),
		Muted:     d.muted.Load(),
	}
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	for {
		song, err := d.queue.Pop(ctx)
		if err != nil {
			return
		}
		d.handle(ctx, id, song)
	}
}

// handle processes one song. Failures are logged and the song is dropped;
// the worker keeps running.
func (d *Dispatcher) handle(ctx context.Context, id int, song domain.SongInfo) {
	defer func() {
		if r := recover(); r != nil {
			d.dropped.Add(1)
			d.logger.Error("notification worker panic",
				ports.Int("worker", id),
				ports.String("title", song.Title),
				ports.Err(fmt.Errorf("%v", r)),
			)
		}
	}()

	path, err := d.resolver.Resolve(ctx, song.AlbumArt)
	if d.emitter != nil {
		d.emitter.OnSongChanged(song, path, err)
	}
	if err != nil {
		d.dropped.Add(1)
		d.logger.Error("resolve album art failed",
			ports.Int("worker", id),
			ports.String("title", song.Title),
			ports.String("url", song.AlbumArt),
			ports.Err(err),
		)
		return
	}

	settings := d.settings.NotifySettings()
	if settings.Muted {
		d.muted.Add(1)
		d.logger.Debug("notification muted", ports.String("title", song.Title))
		return
	}

	req := domain.NewNotificationRequest(song, path)
	req.AppName = settings.AppName
	req.Urgency = settings.Urgency
	if err := d.notifier.Notify(ctx, req); err != nil {
		d.dropped.Add(1)
		d.logger.Error("show notification failed",
			ports.Int("worker", id),
			ports.String("title", song.Title),
			ports.Err(err),
		)
		return
	}

	d.delivered.Add(1)
	d.logger.Debug("notification shown",
		ports.Int("worker", id),
		ports.String("title", song.Title),
		ports.String("image", path),
	)
}
