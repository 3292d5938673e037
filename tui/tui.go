// Package tui implements the terminal presenter for NordVPN Tray. It shows
// the same menu as the system tray when no tray host is available.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the menu in the terminal until the user quits or ctx is done.
func Run(ctx context.Context, source Source, dispatcher Dispatcher) error {
	p := tea.NewProgram(
		NewModel(ctx, source, dispatcher),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
