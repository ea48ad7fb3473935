package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/atmouse-/gensokyoradio/internal/domain"
)

type mockResolver struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (m *mockResolver) Resolve(ctx context.Context, locator string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, locator)
	if err := m.fail[locator]; err != nil {
		return "", err
	}
	return "/cache" + locator[len("https://img.example"):], nil
}

type mockNotifier struct {
	mu   sync.Mutex
	reqs []domain.NotificationRequest
	err  error
	sent chan struct{}
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{sent: make(chan struct{}, 64)}
}

func (m *mockNotifier) Notify(ctx context.Context, req domain.NotificationRequest) error {
	m.mu.Lock()
	m.reqs = append(m.reqs, req)
	err := m.err
	m.mu.Unlock()
	m.sent <- struct{}{}
	return err
}

func (m *mockNotifier) Requests() []domain.NotificationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.NotificationRequest, len(m.reqs))
	copy(out, m.reqs)
	return out
}

type songEvent struct {
	song      domain.SongInfo
	imagePath string
	err       error
}

type mockSongEmitter struct {
	events chan songEvent
}

func (m *mockSongEmitter) OnSongChanged(song domain.SongInfo, imagePath string, err error) {
	m.events <- songEvent{song, imagePath, err}
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d events", i, n)
		}
	}
}

func song(title string) domain.SongInfo {
	return domain.SongInfo{
		Title:     title,
		Artist:    "Artist",
		Album:     "Album",
		AlbumArt:  "https://img.example/art/" + title + ".jpg",
		Remaining: 120,
	}
}

func TestDispatcher_DeliversNotification(t *testing.T) {
	resolver := &mockResolver{}
	notifier := newMockNotifier()
	settings := NewSettingsStore(domain.DefaultNotifySettings())

	d := NewDispatcher(2, resolver, notifier, settings, &mockLogger{}, nil)
	d.Start(context.Background())
	defer d.Stop()

	d.Enqueue(song("x"))
	waitFor(t, notifier.sent, 1)

	reqs := notifier.Requests()
	if len(reqs) != 1 {
		t.Fatalf("got %d notifications, want 1", len(reqs))
	}
	req := reqs[0]
	if req.Title != "x" {
		t.Errorf("Title = %q, want x", req.Title)
	}
	if req.Body() != "Artist / Album" {
		t.Errorf("Body() = %q, want %q", req.Body(), "Artist / Album")
	}
	if req.ImagePath != "/cache/art/x.jpg" {
		t.Errorf("ImagePath = %q, want /cache/art/x.jpg", req.ImagePath)
	}
	if req.Timeout != 120*time.Second {
		t.Errorf("Timeout = %v, want 2m0s", req.Timeout)
	}
	if req.AppName != "gensokyoradio" || req.Urgency != "normal" {
		t.Errorf("AppName, Urgency = %q, %q", req.AppName, req.Urgency)
	}
}

func TestDispatcher_FailedResolveKeepsWorker(t *testing.T) {
	bad := song("bad")
	resolver := &mockResolver{fail: map[string]error{bad.AlbumArt: errors.New("connection refused")}}
	notifier := newMockNotifier()
	emitter := &mockSongEmitter{events: make(chan songEvent, 4)}
	settings := NewSettingsStore(domain.DefaultNotifySettings())

	// One worker: the second song is only delivered if the worker survived.
	d := NewDispatcher(1, resolver, notifier, settings, &mockLogger{}, emitter)
	d.Start(context.Background())
	defer d.Stop()

	d.Enqueue(bad)
	d.Enqueue(song("good"))
	waitFor(t, notifier.sent, 1)

	if reqs := notifier.Requests(); len(reqs) != 1 || reqs[0].Title != "good" {
		t.Errorf("notifications = %+v, want only good", reqs)
	}

	first := <-emitter.events
	if first.err == nil || first.song.Title != "bad" {
		t.Errorf("first event = %+v, want bad with error", first)
	}
	second := <-emitter.events
	if second.err != nil || second.imagePath != "/cache/art/good.jpg" {
		t.Errorf("second event = %+v, want good with image path", second)
	}

	stats := d.Stats()
	if stats.Dropped != 1 || stats.Delivered != 1 {
		t.Errorf("Stats() = %+v, want 1 dropped 1 delivered", stats)
	}
}

func TestDispatcher_NotifierErrorDropsSong(t *testing.T) {
	notifier := newMockNotifier()
	notifier.err = errors.New("no bus")
	settings := NewSettingsStore(domain.DefaultNotifySettings())

	d := NewDispatcher(1, &mockResolver{}, notifier, settings, &mockLogger{}, nil)
	d.Start(context.Background())
	defer d.Stop()

	d.Enqueue(song("a"))
	d.Enqueue(song("b"))
	waitFor(t, notifier.sent, 2)

	// Counters are updated after Notify returns.
	deadline := time.Now().Add(time.Second)
	for d.Stats().Dropped < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := d.Stats().Dropped; got != 2 {
		t.Errorf("Dropped = %d, want 2", got)
	}
}

func TestDispatcher_MutedSkipsNotifier(t *testing.T) {
	resolver := &mockResolver{}
	notifier := newMockNotifier()
	emitter := &mockSongEmitter{events: make(chan songEvent, 4)}
	s := domain.DefaultNotifySettings()
	s.Muted = true
	settings := NewSettingsStore(s)

	d := NewDispatcher(1, resolver, notifier, settings, &mockLogger{}, emitter)
	d.Start(context.Background())
	defer d.Stop()

	d.Enqueue(song("quiet"))
	select {
	case <-emitter.events:
	case <-time.After(2 * time.Second):
		t.Fatal("song was never processed")
	}

	deadline := time.Now().Add(time.Second)
	for d.Stats().Muted < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := d.Stats().Muted; got != 1 {
		t.Errorf("Muted = %d, want 1", got)
	}
	if reqs := notifier.Requests(); len(reqs) != 0 {
		t.Errorf("notifier called %d times while muted", len(reqs))
	}

	// Unmuting applies to the next song.
	s.Muted = false
	settings.UpdateNotifySettings(s)
	d.Enqueue(song("loud"))
	waitFor(t, notifier.sent, 1)
}

func TestDispatcher_StopIsIdempotent(t *testing.T) {
	d := NewDispatcher(0, &mockResolver{}, newMockNotifier(),
		NewSettingsStore(domain.DefaultNotifySettings()), &mockLogger{}, nil)
	if d.workers != DefaultWorkers {
		t.Errorf("workers = %d, want %d", d.workers, DefaultWorkers)
	}

	d.Stop()
	d.Start(context.Background())
	d.Start(context.Background())
	d.Stop()
	d.Stop()
}

func TestDispatcher_EnqueueBeforeStart(t *testing.T) {
	notifier := newMockNotifier()
	d := NewDispatcher(2, &mockResolver{}, notifier,
		NewSettingsStore(domain.DefaultNotifySettings()), &mockLogger{}, nil)

	for _, title := range []string{"a", "b", "c"} {
		d.Enqueue(song(title))
	}
	if d.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", d.Len())
	}

	d.Start(context.Background())
	defer d.Stop()
	waitFor(t, notifier.sent, 3)
}
