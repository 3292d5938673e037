// Package ui provides the system tray presenter.
// This file contains desktop notifications for connection events.
package ui

import (
	"github.com/gen2brain/beeep"

	"github.com/yllada/nordvpn-tray/common"
	"github.com/yllada/nordvpn-tray/vpn"
)

// Notification is one desktop notification.
type Notification struct {
	Title   string
	Message string
}

// notify is replaced in tests.
var notify = func(n Notification) error {
	return beeep.Notify(n.Title, n.Message, "")
}

// ShowNotification displays n. Failures are logged and otherwise ignored.
func ShowNotification(n Notification) {
	if err := notify(n); err != nil {
		common.LogWarn("Failed to show notification: %v", err)
	}
}

// TransitionNotification builds the notification for a connect or
// disconnect observed by the poll loop.
func TransitionNotification(connected bool, status []vpn.Pair) Notification {
	if !connected {
		return Notification{Title: "VPN Disconnected", Message: "Your traffic is no longer protected"}
	}

	msg := "Connected"
	if country, ok := vpn.Lookup(status, "Country"); ok && country != "" {
		msg = "Connected to " + country
		if city, ok := vpn.Lookup(status, "City"); ok && city != "" {
			msg += " (" + city + ")"
		}
	}
	return Notification{Title: "VPN Connected", Message: msg}
}

// NotifyTransition is a vpn.TransitionFunc that shows a notification.
func NotifyTransition(connected bool, status []vpn.Pair) {
	ShowNotification(TransitionNotification(connected, status))
}
