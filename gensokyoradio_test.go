package gensokyoradio_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/atmouse-/gensokyoradio"
)

func testConfig(t *testing.T, url string) gensokyoradio.Config {
	cfg := gensokyoradio.DefaultConfig()
	cfg.ServiceURL = url
	cfg.CacheDir = filepath.Join(t.TempDir(), "cache")
	cfg.HandshakeTimeout = time.Second
	return cfg
}

func TestRun_ReturnsOnCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	cfg := testConfig(t, "ws"+strings.TrimPrefix(srv.URL, "http"))
	if err := gensokyoradio.Run(ctx, cfg); err != nil {
		t.Errorf("Run() = %v, want nil after cancel", err)
	}
}

func TestRun_DialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := gensokyoradio.Run(ctx, testConfig(t, url)); err == nil {
		t.Error("Run() = nil, want error when the feed is unreachable")
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, "http://not-a-websocket")
	if err := gensokyoradio.Run(context.Background(), cfg); err == nil {
		t.Error("Run() = nil, want config error")
	}
}
