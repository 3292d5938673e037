package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yllada/nordvpn-tray/common"
	"github.com/yllada/nordvpn-tray/menu"
	"github.com/yllada/nordvpn-tray/vpn"
)

// Source provides state snapshots and change signals.
type Source interface {
	Snapshot() vpn.Snapshot
	Subscribe() <-chan struct{}
}

// Dispatcher executes menu actions.
type Dispatcher interface {
	Dispatch(ctx context.Context, a vpn.Action) error
}

// Model is the terminal presenter.
type Model struct {
	ctx        context.Context
	source     Source
	dispatcher Dispatcher
	changes    <-chan struct{}

	menu    menu.Menu
	section int
	cursors []int
	busy    bool
	lastErr error
	width   int
}

// NewModel creates a model showing source.
func NewModel(ctx context.Context, source Source, dispatcher Dispatcher) Model {
	m := Model{
		ctx:        ctx,
		source:     source,
		dispatcher: dispatcher,
		changes:    source.Subscribe(),
		menu:       menu.Build(source.Snapshot()),
	}
	m.cursors = make([]int, len(m.menu.Sections))
	return m
}

// Init starts waiting for state changes.
func (m Model) Init() tea.Cmd {
	return waitForChangeCmd(m.ctx, m.source, m.changes)
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case stateChangedMsg:
		m.menu = msg.Menu
		m.clampCursors()
		return m, waitForChangeCmd(m.ctx, m.source, m.changes)

	case actionDoneMsg:
		m.busy = false
		m.lastErr = msg.Err
		return m, nil

	case sourceClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	n := len(m.menu.Sections)
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Next):
		m.section = (m.section + 1) % n
	case key.Matches(msg, keys.Prev):
		m.section = (m.section + n - 1) % n
	case key.Matches(msg, keys.Up):
		if m.cursors[m.section] > 0 {
			m.cursors[m.section]--
		}
	case key.Matches(msg, keys.Down):
		if m.cursors[m.section] < len(m.currentItems())-1 {
			m.cursors[m.section]++
		}
	case key.Matches(msg, keys.Select):
		items := m.currentItems()
		if len(items) == 0 {
			return nil
		}
		return m.run(items[m.cursors[m.section]])
	case key.Matches(msg, keys.Connect):
		return m.run(m.menu.Toggle)
	}
	return nil
}

// run dispatches the item's action unless another one is still in flight.
func (m *Model) run(it menu.Item) tea.Cmd {
	if m.busy || !it.Enabled || it.Action == nil {
		return nil
	}
	m.busy = true
	m.lastErr = nil
	return dispatchCmd(m.ctx, m.dispatcher, *it.Action)
}

func (m *Model) currentItems() []menu.Item {
	return m.menu.Sections[m.section].Items
}

func (m *Model) clampCursors() {
	if len(m.cursors) != len(m.menu.Sections) {
		m.cursors = make([]int, len(m.menu.Sections))
	}
	for i, s := range m.menu.Sections {
		m.cursors[i] = max(min(m.cursors[i], len(s.Items)-1), 0)
	}
}

// View renders the model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(common.AppName))
	b.WriteString("  ")
	b.WriteString(statusDot(m.menu.Connected))
	b.WriteString(" ")
	b.WriteString(m.menu.Tooltip)
	b.WriteString("\n\n")

	tabs := make([]string, len(m.menu.Sections))
	for i, s := range m.menu.Sections {
		title := fmt.Sprintf("%s (%d)", s.Title, len(s.Items))
		if i == m.section {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = inactiveTabStyle.Render(title)
		}
	}
	b.WriteString(strings.Join(tabs, "  "))
	b.WriteString("\n")

	var rows []string
	items := m.currentItems()
	if len(items) == 0 {
		rows = append(rows, disabledStyle.Render("(empty)"))
	}
	for i, it := range items {
		rows = append(rows, m.renderItem(it, i == m.cursors[m.section]))
	}
	panel := panelStyle
	if m.width > 4 {
		panel = panel.Width(m.width - 2)
	}
	b.WriteString(panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString(disabledStyle.Render("Waiting for the daemon..."))
	case m.lastErr != nil:
		b.WriteString(errorStyle.Render(m.lastErr.Error()))
	default:
		b.WriteString(helpStyle.Render(m.helpLine()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderItem(it menu.Item, selected bool) string {
	marker := "  "
	if it.Checkable {
		marker = "[ ]"
		if it.Checked {
			marker = "[x]"
		}
	}
	line := marker + " " + it.Label
	switch {
	case selected:
		return cursorStyle.Render("> " + line)
	case !it.Enabled:
		return disabledStyle.Render("  " + line)
	default:
		return "  " + line
	}
}

func (m Model) helpLine() string {
	var parts []string
	for _, k := range keys.help() {
		h := k.Help()
		if k.Help().Key == keys.Connect.Help().Key {
			h.Desc = strings.ToLower(m.menu.Toggle.Label)
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
