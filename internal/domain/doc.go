// Package domain contains the core entities of the radio client.
//
// This package is the innermost layer. It has no dependencies on transport,
// file system or logging concerns.
//
// # Entities
//
//   - [Event]: one classified inbound protocol message ([Welcome], [Ping],
//     [SongInfo] or [Unknown])
//   - [NotificationRequest]: what the presentation layer needs to show a
//     "now playing" notification
//
// Entities are plain values. They are built once per inbound frame and never
// mutated afterwards.
package domain
