// Package common provides shared constants, types, and utilities
// used throughout the NordVPN tray application.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: daemon program name, default country, poll interval
//   - Errors: sentinel errors for consistent error handling across packages
//   - Logger: leveled logging over zap with console, rotating file, and
//     syslog outputs
//
// # Usage
//
//	common.LogInfo("Connected to %s", country)
//
//	if errors.Is(err, common.ErrExecution) {
//	    // the daemon program could not be started
//	}
//
// # Error channel
//
// Error-level entries are the application's error channel. When syslog is
// enabled they are mirrored to the local system log; if syslog cannot be
// reached the same line is written to stderr. A logging failure never
// terminates the process.
package common
