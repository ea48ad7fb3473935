package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/atmouse-/gensokyoradio/internal/ports"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	zl, err := newLogger(&buf, "debug")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	a := NewZerologAdapterWithLogger(zl)

	a.Info("resolved",
		ports.String("path", "/cache/a/b.jpg"),
		ports.Int("worker", 2),
		ports.Int64("id", 42),
		ports.Bool("hit", true),
		ports.Duration("took", time.Second),
		ports.Err(errors.New("boom")),
	)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}

	checks := map[string]interface{}{
		"level":   "info",
		"message": "resolved",
		"path":    "/cache/a/b.jpg",
		"worker":  float64(2),
		"id":      float64(42),
		"hit":     true,
		"error":   "boom",
	}
	for k, want := range checks {
		if line[k] != want {
			t.Errorf("%s = %v, want %v", k, line[k], want)
		}
	}
	if _, ok := line["took"]; !ok {
		t.Error("missing duration field")
	}
}

func TestZerologAdapter_Level(t *testing.T) {
	var buf bytes.Buffer
	zl, err := newLogger(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}
	a := NewZerologAdapterWithLogger(zl)

	a.Debug("hidden")
	a.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("below-level messages were written: %s", buf.String())
	}

	a.Warn("shown")
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Error("warn message missing")
	}
}

func TestNewConsoleLogger_InvalidLevel(t *testing.T) {
	if _, err := NewConsoleLogger("loud"); err == nil {
		t.Error("NewConsoleLogger(loud): expected error")
	}
}
