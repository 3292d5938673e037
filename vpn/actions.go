// Package vpn provides the daemon command gateway and state engine.
// This file contains the user actions and the Controller that executes them.
package vpn

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/google/uuid"

	"github.com/yllada/nordvpn-tray/common"
)

// ActionKind identifies a menu action.
type ActionKind int

const (
	ActionSelectCountry ActionKind = iota
	ActionSelectGroup
	ActionToggleSetting
	ActionToggleConnection
	ActionExit
)

// String returns a human-readable action name.
func (k ActionKind) String() string {
	switch k {
	case ActionSelectCountry:
		return "select-country"
	case ActionSelectGroup:
		return "select-group"
	case ActionToggleSetting:
		return "toggle-setting"
	case ActionToggleConnection:
		return "toggle-connection"
	case ActionExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Action is one user request. Index is the position of the clicked entry in
// the list the action refers to; it is ignored by the toggle and exit kinds.
type Action struct {
	Kind  ActionKind
	Index int
}

func (a Action) String() string {
	switch a.Kind {
	case ActionSelectCountry, ActionSelectGroup, ActionToggleSetting:
		return fmt.Sprintf("%s[%d]", a.Kind, a.Index)
	default:
		return a.Kind.String()
	}
}

// SelectCountry connects to the i-th country.
func SelectCountry(i int) Action { return Action{Kind: ActionSelectCountry, Index: i} }

// SelectGroup connects to the i-th group.
func SelectGroup(i int) Action { return Action{Kind: ActionSelectGroup, Index: i} }

// ToggleSetting flips the i-th setting.
func ToggleSetting(i int) Action { return Action{Kind: ActionToggleSetting, Index: i} }

// ToggleConnection connects or disconnects.
func ToggleConnection() Action { return Action{Kind: ActionToggleConnection} }

// Exit terminates the process.
func Exit() Action { return Action{Kind: ActionExit} }

// Controller is the single handler for every presenter action. Daemon calls
// run outside the Store lock; only the resulting assignment is locked.
type Controller struct {
	gateway *Gateway
	store   *Store
	exit    func(code int)
}

// NewController creates a controller acting on store through gateway.
func NewController(gateway *Gateway, store *Store) *Controller {
	return &Controller{
		gateway: gateway,
		store:   store,
		exit:    os.Exit,
	}
}

// SetExitFunc replaces os.Exit for the Exit action.
func (c *Controller) SetExitFunc(fn func(code int)) {
	c.exit = fn
}

// Dispatch executes a. On failure the state is left unchanged and the error
// is returned after being logged once.
func (c *Controller) Dispatch(ctx context.Context, a Action) error {
	id := uuid.NewString()
	common.LogDebug("Action %s: %s", id, a)

	var err error
	switch a.Kind {
	case ActionSelectCountry:
		err = c.connect(ctx, a.Index, true)
	case ActionSelectGroup:
		err = c.connect(ctx, a.Index, false)
	case ActionToggleSetting:
		err = c.toggleSetting(ctx, a.Index)
	case ActionToggleConnection:
		err = c.toggleConnection(ctx)
	case ActionExit:
		common.LogInfo("Exit requested")
		c.exit(0)
	default:
		err = fmt.Errorf("%w: %d", common.ErrUnknownAction, a.Kind)
	}

	if err != nil {
		common.LogWarn("Action %s (%s) failed: %v", id, a, err)
	}
	return err
}

func (c *Controller) connect(ctx context.Context, index int, useCountry bool) error {
	snap := c.store.Snapshot()
	targets := snap.Groups
	if useCountry {
		targets = snap.Countries
	}
	if index < 0 || index >= len(targets) {
		return fmt.Errorf("%w: index %d", common.ErrInvalidTarget, index)
	}
	target := targets[index]

	if err := c.gateway.Connect(ctx, target); err != nil {
		return err
	}

	common.LogInfo("Connected to %s", target)
	c.store.Update(func(s *TrayState) {
		s.UseCountry = useCountry
		s.TargetIndex = index
		// The lists may have been replaced while the daemon was busy.
		if current := s.ActiveTargets(); index >= len(current) || current[index] != target {
			s.TargetIndex = max(slices.Index(current, target), 0)
		}
		s.Connected = true
	})
	return nil
}

func (c *Controller) toggleConnection(ctx context.Context) error {
	snap := c.store.Snapshot()

	if snap.Connected {
		if err := c.gateway.Disconnect(ctx); err != nil {
			return err
		}
		common.LogInfo("Disconnected")
		c.store.Update(func(s *TrayState) {
			s.Connected = false
		})
		return nil
	}

	if _, ok := snap.SelectedTarget(); ok {
		return c.connect(ctx, snap.TargetIndex, snap.UseCountry)
	}

	target := c.gateway.DefaultCountry()
	if err := c.gateway.Connect(ctx, target); err != nil {
		return err
	}
	common.LogInfo("Connected to %s", target)
	c.store.Update(func(s *TrayState) {
		s.Connected = true
	})
	return nil
}

func (c *Controller) toggleSetting(ctx context.Context, index int) error {
	snap := c.store.Snapshot()
	if index < 0 || index >= len(snap.Settings) {
		return fmt.Errorf("%w: setting %d", common.ErrInvalidTarget, index)
	}
	entry := snap.Settings[index]
	if !Toggleable(entry.Value) {
		return fmt.Errorf("%w: %s is %q", common.ErrNotToggleable, entry.Key, entry.Value)
	}

	if err := c.gateway.SetSetting(ctx, entry.Key, entry.Value); err != nil {
		return err
	}

	c.store.Update(func(s *TrayState) {
		if index < len(s.Settings) && s.Settings[index].Key == entry.Key {
			s.Settings[index].Value = flipSetting(entry.Value)
		}
	})

	settings, err := c.gateway.Settings(ctx)
	if err != nil {
		// The optimistic value stays until the next transition refresh.
		return nil
	}
	c.store.Update(func(s *TrayState) {
		s.Settings = settings
	})
	return nil
}

// Toggleable reports whether a setting value can be flipped from the menu.
func Toggleable(value string) bool {
	return value == "enabled" || value == "disabled"
}

func flipSetting(value string) string {
	switch value {
	case "enabled":
		return "disabled"
	case "disabled":
		return "enabled"
	default:
		return value
	}
}
