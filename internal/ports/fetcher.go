package ports

import (
	"context"
	"io"
)

// Fetcher downloads a remote asset.
// The caller must close the returned body.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (io.ReadCloser, error)
}
