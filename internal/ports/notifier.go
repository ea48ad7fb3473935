package ports

import (
	"context"

	"github.com/atmouse-/gensokyoradio/internal/domain"
)

// Notifier presents a "now playing" notification to the user.
// The returned error is only logged; nothing else depends on the outcome.
type Notifier interface {
	Notify(ctx context.Context, req domain.NotificationRequest) error
}
