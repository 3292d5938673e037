// Package common provides shared constants, types, and utilities
// used across the NordVPN tray application.
package common

import "time"

// Application metadata.
const (
	// AppName is the display name of the application.
	AppName = "NordVPN Tray"
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = "nordvpn-tray"
	// SyslogTag is the process name attached to syslog entries.
	SyslogTag = "nordvpn_tray_app"
)

// File names used by the application.
const (
	ConfigFileName = "config.yaml"
	LogFileName    = "nordvpn-tray.log"
)

// Daemon defaults.
const (
	// DaemonBinary is the external program every command is sent to.
	DaemonBinary = "nordvpn"
	// DefaultCountry is used whenever the daemon reports no usable country.
	DefaultCountry = "Netherlands"
	// PollInterval is the pause between two status refresh cycles.
	PollInterval = 3 * time.Second
)

// DefaultDNSServers are sent instead of on/off when the DNS setting is toggled.
var DefaultDNSServers = []string{"103.86.96.100", "103.86.99.100"}

// UI constants.
const (
	// TrayIconSize is the size of the system tray icon.
	TrayIconSize = 22
	// ConnectLabel and DisconnectLabel are the two faces of the toggle item.
	ConnectLabel    = "Connect"
	DisconnectLabel = "Disconnect"
)
