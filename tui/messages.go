package tui

import (
	"github.com/yllada/nordvpn-tray/menu"
	"github.com/yllada/nordvpn-tray/vpn"
)

// stateChangedMsg carries the menu rebuilt after a store change.
type stateChangedMsg struct {
	Menu menu.Menu
}

// actionDoneMsg reports the outcome of a dispatched action.
type actionDoneMsg struct {
	Action vpn.Action
	Err    error
}

// sourceClosedMsg is returned once the context is cancelled.
type sourceClosedMsg struct{}
