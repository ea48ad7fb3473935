// Package cache maps album-art URLs onto a local directory tree and fetches
// each asset at most once.
//
// The local path of an asset is derived from the URL path alone, so
// https://host/a/b.jpg lives at <root>/a/b.jpg. A file that exists is never
// refetched or revalidated.
package cache

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/atmouse-/gensokyoradio/internal/domain"
	"github.com/atmouse-/gensokyoradio/internal/ports"
)

// DirName is the subdirectory created under the user cache directory.
const DirName = "gensokyoradio"

// DefaultRoot returns the platform cache directory joined with DirName.
func DefaultRoot() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("user cache dir: %w", err)
	}
	return filepath.Join(base, DirName), nil
}

// Stats counts cache activity since the Cache was created.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Fetches uint64
}

// Cache resolves asset locators to local files, fetching on a miss.
// It is safe for concurrent use by multiple workers.
type Cache struct {
	root    string
	fetcher ports.Fetcher
	logger  ports.Logger

	// inflight collapses concurrent fetches of the same local path.
	inflight singleflight.Group

	hits    atomic.Uint64
	misses  atomic.Uint64
	fetches atomic.Uint64
}

// New creates a cache rooted at root, creating the directory if needed.
func New(root string, fetcher ports.Fetcher, logger ports.Logger) (*Cache, error) {
	if root == "" {
		return nil, fmt.Errorf("cache root is required")
	}
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat cache root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cache root %s is not a directory", root)
	}
	return &Cache{root: root, fetcher: fetcher, logger: logger}, nil
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Fetches: c.fetches.Load(),
	}
}

// Path maps a locator to its local file path without touching the disk.
// The locator must be an absolute URL whose path names a file inside the root.
func (c *Cache) Path(locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidLocator, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute URL", domain.ErrInvalidLocator, locator)
	}

	rel := strings.TrimPrefix(u.Path, "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		return "", fmt.Errorf("%w: %q has no file path", domain.ErrInvalidLocator, locator)
	}

	local := filepath.Join(c.root, filepath.FromSlash(rel))
	within, err := filepath.Rel(c.root, local)
	if err != nil || within == "." || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes the cache root", domain.ErrInvalidLocator, locator)
	}
	return local, nil
}

// Resolve returns the local path of the asset at locator, fetching it first
// if it is not cached yet. The fetch completes, or fails, before Resolve
// returns.
func (c *Cache) Resolve(ctx context.Context, locator string) (string, error) {
	local, err := c.Path(locator)
	if err != nil {
		return "", err
	}

	// MkdirAll succeeds when the directory already exists, so racing
	// workers are fine here.
	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	if fileExists(local) {
		c.hits.Add(1)
		c.logger.Debug("cache hit", ports.String("path", local))
		return local, nil
	}

	c.misses.Add(1)
	_, err, shared := c.inflight.Do(local, func() (interface{}, error) {
		// A flight that finished between our check and Do already wrote it.
		if fileExists(local) {
			return nil, nil
		}
		return nil, c.fetch(ctx, locator, local)
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.logger.Debug("joined in-flight fetch", ports.String("path", local))
	}
	return local, nil
}

// fetch downloads locator into local. Bytes go to a temp file in the same
// directory first and are renamed into place, so readers never observe a
// partial file even when another process races on the same path.
func (c *Cache) fetch(ctx context.Context, locator, local string) error {
	c.fetches.Add(1)

	body, err := c.fetcher.Fetch(ctx, locator)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", locator, err)
	}
	defer body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(local), "."+filepath.Base(local)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, body)
	if err == nil {
		err = tmp.Chmod(0o644)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", local, err)
	}

	if err := os.Rename(tmpName, local); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("commit %s: %w", local, err)
	}

	c.logger.Debug("asset cached",
		ports.String("url", locator),
		ports.String("path", local),
		ports.Int64("bytes", n),
	)
	return nil
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
