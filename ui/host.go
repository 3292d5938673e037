// Package ui provides the system tray presenter.
// This file contains detection of a StatusNotifier host on the session bus.
package ui

import (
	"github.com/godbus/dbus/v5"

	"github.com/yllada/nordvpn-tray/common"
)

// statusNotifierWatcher is the bus name a desktop tray host registers.
const statusNotifierWatcher = "org.kde.StatusNotifierWatcher"

// nameOwner asks the bus daemon whether name has an owner. Replaced in tests.
var nameOwner = func(name string) (bool, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return false, err
	}
	defer conn.Close()

	var has bool
	err = conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, name).Store(&has)
	return has, err
}

// TrayHostAvailable reports whether a tray icon would be visible.
func TrayHostAvailable() bool {
	has, err := nameOwner(statusNotifierWatcher)
	if err != nil {
		common.LogDebug("Session bus unavailable: %v", err)
		return false
	}
	if !has {
		common.LogDebug("No %s on the session bus", statusNotifierWatcher)
	}
	return has
}
