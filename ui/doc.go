// Package ui provides the system tray presenter for NordVPN Tray.
//
// The tray shows four submenus (countries, groups, connection info and
// settings), a connect/disconnect toggle and an exit entry. Every change
// published by the vpn.Store rebuilds the menu model with menu.Build and
// applies it to pre-created menu items; lists that grow gain new items, lists
// that shrink hide the surplus.
//
// # Threading
//
// systray.Run must own the main goroutine. Clicks arrive on per-item
// channels, each drained by its own goroutine, and are dispatched to
// vpn.Controller from the goroutine that received them. A slow daemon call
// only blocks the item that was clicked; the toggle and exit entries never
// share a listener. Rendering happens on a single goroutine.
//
// # File Organization
//
//   - tray.go: TrayIndicator and the reusable menu slots
//   - icons.go: generated connected/disconnected glyphs
//   - notifications.go: desktop notifications on transitions
//   - host.go: StatusNotifier host detection over D-Bus
package ui
