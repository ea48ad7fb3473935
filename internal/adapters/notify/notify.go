// Package notify implements ports.Notifier.
//
// [DBusNotifier] talks to the freedesktop notification service on the
// session bus. [LogNotifier] writes the notification to the logger and is
// used when no bus is available.
package notify

import (
	"fmt"
	"strings"
)

// Urgency levels from the desktop notifications specification.
const (
	UrgencyLow      byte = 0
	UrgencyNormal   byte = 1
	UrgencyCritical byte = 2
)

// ParseUrgency maps "low", "normal" or "critical" to its urgency byte.
func ParseUrgency(s string) (byte, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return UrgencyLow, nil
	case "", "normal":
		return UrgencyNormal, nil
	case "critical":
		return UrgencyCritical, nil
	default:
		return 0, fmt.Errorf("unknown urgency %q", s)
	}
}
