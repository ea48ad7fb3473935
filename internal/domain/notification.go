package domain

import "time"

// NotificationRequest is everything the presentation layer needs to show a
// "now playing" notification. It is built per song and not retained.
type NotificationRequest struct {
	Title  string
	Artist string
	Album  string

	// ImagePath is the local cache path of the album art.
	ImagePath string

	// Timeout is how long the notification stays visible.
	Timeout time.Duration

	// AppName and Urgency come from the NotifySettings in effect when the
	// request was built.
	AppName string
	Urgency string
}

// NewNotificationRequest builds a request from a song and its resolved album art.
func NewNotificationRequest(song SongInfo, imagePath string) NotificationRequest {
	return NotificationRequest{
		Title:     song.Title,
		Artist:    song.Artist,
		Album:     song.Album,
		ImagePath: imagePath,
		Timeout:   song.RemainingDuration(),
	}
}

// Body returns the notification body text, "<artist> / <album>".
func (r NotificationRequest) Body() string {
	return r.Artist + " / " + r.Album
}

// NotifySettings are presentation options that may change while running.
type NotifySettings struct {
	AppName string
	Urgency string
	Muted   bool
}

// DefaultNotifySettings returns the default presentation settings.
func DefaultNotifySettings() NotifySettings {
	return NotifySettings{
		AppName: "gensokyoradio",
		Urgency: "normal",
	}
}
