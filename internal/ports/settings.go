package ports

import "github.com/atmouse-/gensokyoradio/internal/domain"

// SettingsSource supplies the current notification settings.
// Implementations must be safe for concurrent use.
type SettingsSource interface {
	NotifySettings() domain.NotifySettings
}
