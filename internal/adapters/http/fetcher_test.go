package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atmouse-/gensokyoradio/internal/domain"
	"github.com/atmouse-/gensokyoradio/internal/ports"
)

type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

func testConfig(retries int) FetcherConfig {
	return FetcherConfig{
		Retries:        retries,
		BackoffInitial: time.Millisecond,
		BackoffMax:     5 * time.Millisecond,
		UserAgent:      "test-agent",
	}
}

func TestFetcher_Success(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Method = %v, want GET", r.Method)
		}
		if r.URL.Path != "/images/albums/1.jpg" {
			t.Errorf("Path = %v", r.URL.Path)
		}
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("image"))
	}))
	defer ts.Close()

	f := NewFetcher(ts.Client(), testConfig(0), mockLogger{})
	body, err := f.Fetch(context.Background(), ts.URL+"/images/albums/1.jpg")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	defer body.Close()

	data, _ := io.ReadAll(body)
	if string(data) != "image" {
		t.Errorf("body = %q, want image", data)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q, want test-agent", gotUA)
	}
}

func TestFetcher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	f := NewFetcher(ts.Client(), testConfig(2), mockLogger{})
	body, err := f.Fetch(context.Background(), ts.URL+"/a.jpg")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	body.Close()

	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestFetcher_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	f := NewFetcher(ts.Client(), testConfig(1), mockLogger{})
	_, err := f.Fetch(context.Background(), ts.URL+"/a.jpg")
	if !errors.Is(err, domain.ErrFetchStatus) {
		t.Fatalf("Fetch() error = %v, want ErrFetchStatus", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestFetcher_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer ts.Close()

	f := NewFetcher(ts.Client(), testConfig(3), mockLogger{})
	_, err := f.Fetch(context.Background(), ts.URL+"/missing.jpg")
	if !errors.Is(err, domain.ErrFetchStatus) {
		t.Fatalf("Fetch() error = %v, want ErrFetchStatus", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetcher_ContextCanceledDuringBackoff(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusBadGateway)
	}))
	defer ts.Close()

	cfg := testConfig(5)
	cfg.BackoffInitial = time.Minute
	cfg.BackoffMax = time.Minute
	f := NewFetcher(ts.Client(), cfg, mockLogger{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := f.Fetch(ctx, ts.URL+"/a.jpg")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Fetch() error = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("Fetch() ignored context cancellation")
	}
}

func TestFetcher_InvalidURL(t *testing.T) {
	f := NewFetcher(http.DefaultClient, testConfig(2), mockLogger{})
	if _, err := f.Fetch(context.Background(), "://bad"); err == nil {
		t.Error("Fetch() with invalid URL: expected error")
	}
}

func TestBackoff(t *testing.T) {
	b := newBackoff(time.Millisecond, 4*time.Millisecond)
	ctx := context.Background()

	want := []time.Duration{2 * time.Millisecond, 4 * time.Millisecond, 4 * time.Millisecond}
	for i, w := range want {
		if err := b.Wait(ctx); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
		if b.Current() != w {
			t.Errorf("step %d: Current() = %v, want %v", i, b.Current(), w)
		}
	}

	b.Reset()
	if b.Current() != time.Millisecond {
		t.Errorf("Current() after Reset = %v, want 1ms", b.Current())
	}
}
