// Package vpn provides the daemon command gateway and state engine for
// NordVPN Tray.
//
// The daemon is reached only through its command-line program. The package
// is organized in layers, leaves first:
//
//   - Gateway: runs fixed subcommands through a Runner and reports raw
//     output, a daemon failure (non-zero exit) or an execution error
//   - Parser: turns "Key: Value" and comma-separated listings into Pairs
//     and display strings
//   - Store: owns the TrayState behind one mutex and signals subscribers
//     after every change
//   - Reconciler: polls the status, detects connect/disconnect transitions
//     and refreshes countries, groups and settings when one happens
//   - Controller: executes user Actions and applies their outcome
//
// # Thread Safety
//
// Store, Reconciler and Controller are safe for concurrent use. Daemon
// commands always run outside the Store lock, so a slow command never
// blocks readers; only the assignment of its result is serialized.
package vpn
