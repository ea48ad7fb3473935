package notify

import (
	"context"

	"github.com/atmouse-/gensokyoradio/internal/domain"
	"github.com/atmouse-/gensokyoradio/internal/ports"
)

// LogNotifier writes notifications to a logger instead of the desktop.
type LogNotifier struct {
	logger ports.Logger
}

// NewLogNotifier creates a notifier that logs at info level.
func NewLogNotifier(logger ports.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the request.
func (n *LogNotifier) Notify(_ context.Context, req domain.NotificationRequest) error {
	n.logger.Info("now playing",
		ports.String("title", req.Title),
		ports.String("body", req.Body()),
		ports.String("image", req.ImagePath),
		ports.Duration("timeout", req.Timeout),
	)
	return nil
}
