package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yllada/nordvpn-tray/menu"
	"github.com/yllada/nordvpn-tray/vpn"
)

func waitForChangeCmd(ctx context.Context, source Source, changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return sourceClosedMsg{}
		case <-changes:
			return stateChangedMsg{Menu: menu.Build(source.Snapshot())}
		}
	}
}

func dispatchCmd(ctx context.Context, d Dispatcher, a vpn.Action) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{Action: a, Err: d.Dispatch(ctx, a)}
	}
}
