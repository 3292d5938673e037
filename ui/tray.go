// Package ui provides the system tray presenter.
// This file contains the system tray indicator.
package ui

import (
	"context"
	"sync"

	"fyne.io/systray"

	"github.com/yllada/nordvpn-tray/common"
	"github.com/yllada/nordvpn-tray/menu"
	"github.com/yllada/nordvpn-tray/vpn"
)

// Pre-generated icons.
var (
	iconConnected    = ConnectedGlyph().Render()
	iconDisconnected = DisconnectedGlyph().Render()
)

// entry is the part of *systray.MenuItem a slot drives.
type entry interface {
	SetTitle(title string)
	Check()
	Uncheck()
	Enable()
	Disable()
	Show()
	Hide()
}

// slot is a reusable menu item. Its action changes on every render.
type slot struct {
	entry entry

	mu     sync.Mutex
	action *vpn.Action
}

func (s *slot) apply(it menu.Item) {
	s.entry.SetTitle(it.Label)
	if it.Checked {
		s.entry.Check()
	} else {
		s.entry.Uncheck()
	}
	if it.Enabled {
		s.entry.Enable()
	} else {
		s.entry.Disable()
	}
	s.entry.Show()

	s.mu.Lock()
	s.action = it.Action
	s.mu.Unlock()
}

func (s *slot) hide() {
	s.entry.Hide()
	s.mu.Lock()
	s.action = nil
	s.mu.Unlock()
}

func (s *slot) current() (vpn.Action, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.action == nil {
		return vpn.Action{}, false
	}
	return *s.action, true
}

// sectionView is one submenu. Slots are added on demand and hidden, never
// removed, when the list shrinks.
type sectionView struct {
	add     func(checkable bool) (entry, <-chan struct{})
	onClick func(vpn.Action)
	slots   []*slot
}

func (v *sectionView) render(items []menu.Item) {
	for i, it := range items {
		if i == len(v.slots) {
			v.grow(it.Checkable)
		}
		v.slots[i].apply(it)
	}
	for _, s := range v.slots[len(items):] {
		s.hide()
	}
}

func (v *sectionView) grow(checkable bool) {
	e, clicks := v.add(checkable)
	s := &slot{entry: e}
	v.slots = append(v.slots, s)

	go func() {
		for range clicks {
			if a, ok := s.current(); ok {
				v.onClick(a)
			}
		}
	}()
}

// TrayIndicator renders the menu on the system tray and forwards clicks to
// the controller.
type TrayIndicator struct {
	store      *vpn.Store
	controller *vpn.Controller

	ctx      context.Context
	sections []*sectionView
	toggle   *systray.MenuItem
	exit     *systray.MenuItem
	refresh  chan struct{}

	connected *bool
}

// NewTrayIndicator creates a tray indicator for store.
func NewTrayIndicator(store *vpn.Store, controller *vpn.Controller) *TrayIndicator {
	return &TrayIndicator{
		store:      store,
		controller: controller,
		refresh:    make(chan struct{}, 1),
	}
}

// Run shows the tray icon and blocks until ctx is done or the tray exits.
// It must be called from the main goroutine.
func (t *TrayIndicator) Run(ctx context.Context) {
	t.ctx = ctx
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	systray.Run(t.onReady, t.onExit)
}

func (t *TrayIndicator) onReady() {
	systray.SetIcon(iconDisconnected)
	systray.SetTitle(common.AppName)
	systray.SetTooltip(common.AppName)

	for _, title := range []string{menu.SectionCountries, menu.SectionGroups, menu.SectionConnection, menu.SectionSettings} {
		root := systray.AddMenuItem(title, "")
		t.sections = append(t.sections, &sectionView{
			add: func(checkable bool) (entry, <-chan struct{}) {
				var item *systray.MenuItem
				if checkable {
					item = root.AddSubMenuItemCheckbox("", "", false)
				} else {
					item = root.AddSubMenuItem("", "")
				}
				return item, item.ClickedCh
			},
			onClick: t.dispatch,
		})
	}

	t.toggle = systray.AddMenuItem(common.ConnectLabel, "")
	systray.AddSeparator()
	t.exit = systray.AddMenuItem(menu.ExitLabel, "Quit "+common.AppName)

	go listen(t.ctx, t.toggle.ClickedCh, vpn.ToggleConnection(), t.dispatch)
	go listen(t.ctx, t.exit.ClickedCh, vpn.Exit(), t.dispatch)
	go t.renderLoop()

	common.LogInfo("Tray indicator ready")
}

func (t *TrayIndicator) onExit() {
	common.LogInfo("Tray indicator cleanup completed")
}

// listen dispatches a for every click on clicks. Each fixed item gets its
// own listener; systray drops clicks nobody is waiting for, so a slow
// connect must not keep Exit from being received.
func listen(ctx context.Context, clicks <-chan struct{}, a vpn.Action, dispatch func(vpn.Action)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-clicks:
			dispatch(a)
		}
	}
}

// dispatch runs a on the caller's goroutine and schedules a re-render, so
// that a checkbox flipped by the toolkit is restored when the action fails.
func (t *TrayIndicator) dispatch(a vpn.Action) {
	_ = t.controller.Dispatch(t.ctx, a)
	select {
	case t.refresh <- struct{}{}:
	default:
	}
}

func (t *TrayIndicator) renderLoop() {
	changes := t.store.Subscribe()
	t.render(menu.Build(t.store.Snapshot()))
	for {
		select {
		case <-t.ctx.Done():
			return
		case <-changes:
		case <-t.refresh:
		}
		t.render(menu.Build(t.store.Snapshot()))
	}
}

func (t *TrayIndicator) render(m menu.Menu) {
	for i, s := range m.Sections {
		t.sections[i].render(s.Items)
	}
	t.toggle.SetTitle(m.Toggle.Label)

	if t.connected == nil || *t.connected != m.Connected {
		if m.Connected {
			systray.SetIcon(iconConnected)
		} else {
			systray.SetIcon(iconDisconnected)
		}
		connected := m.Connected
		t.connected = &connected
	}
	systray.SetTooltip(m.Tooltip)
}
