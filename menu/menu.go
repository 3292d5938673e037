// Package menu turns a state snapshot into a toolkit-neutral menu model.
//
// The model is rebuilt from scratch on every state change; presenters
// (the system tray and the terminal UI) only decide how to draw it.
package menu

import (
	"fmt"
	"strings"

	"github.com/yllada/nordvpn-tray/common"
	"github.com/yllada/nordvpn-tray/vpn"
)

// Section titles, in display order.
const (
	SectionCountries  = "Countries"
	SectionGroups     = "Groups"
	SectionConnection = "Connection info"
	SectionSettings   = "Settings"
)

// ExitLabel is the label of the last menu entry.
const ExitLabel = "Exit"

// Item is one menu entry.
type Item struct {
	Label string
	// Checkable items render as radio or checkbox entries.
	Checkable bool
	Checked   bool
	Enabled   bool
	// Action is nil for informational entries.
	Action *vpn.Action
}

// Section is a titled submenu.
type Section struct {
	Title string
	Items []Item
}

// Menu is the complete tray menu.
type Menu struct {
	Sections  []Section
	Toggle    Item
	Exit      Item
	Connected bool
	Tooltip   string
}

// Build renders s. All four sections are always present, even when empty.
func Build(s vpn.Snapshot) Menu {
	toggleLabel := common.ConnectLabel
	if s.Connected {
		toggleLabel = common.DisconnectLabel
	}

	return Menu{
		Sections: []Section{
			{Title: SectionCountries, Items: targets(s.Countries, s.UseCountry, s.TargetIndex, vpn.SelectCountry)},
			{Title: SectionGroups, Items: targets(s.Groups, !s.UseCountry, s.TargetIndex, vpn.SelectGroup)},
			{Title: SectionConnection, Items: info(s.Status)},
			{Title: SectionSettings, Items: settings(s.Settings)},
		},
		Toggle:    Item{Label: toggleLabel, Enabled: true, Action: actionPtr(vpn.ToggleConnection())},
		Exit:      Item{Label: ExitLabel, Enabled: true, Action: actionPtr(vpn.Exit())},
		Connected: s.Connected,
		Tooltip:   Tooltip(s),
	}
}

func targets(names []string, active bool, selected int, action func(int) vpn.Action) []Item {
	items := make([]Item, len(names))
	for i, name := range names {
		items[i] = Item{
			Label:     name,
			Checkable: true,
			Checked:   active && i == selected,
			Enabled:   true,
			Action:    actionPtr(action(i)),
		}
	}
	return items
}

func info(status []vpn.Pair) []Item {
	items := make([]Item, len(status))
	for i, p := range status {
		items[i] = Item{Label: pairLabel(p)}
	}
	return items
}

func settings(entries []vpn.Pair) []Item {
	items := make([]Item, len(entries))
	for i, p := range entries {
		items[i] = Item{
			Label:     pairLabel(p),
			Checkable: true,
			Checked:   p.Value == "enabled",
			Enabled:   vpn.Toggleable(p.Value),
			Action:    actionPtr(vpn.ToggleSetting(i)),
		}
	}
	return items
}

// Tooltip summarizes the connection in one line.
func Tooltip(s vpn.Snapshot) string {
	if !s.Connected {
		return common.AppName + " - Disconnected"
	}

	var parts []string
	for _, key := range []string{"Country", "City"} {
		if v, ok := vpn.Lookup(s.Status, key); ok && v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return common.AppName + " - Connected"
	}
	return fmt.Sprintf("%s - Connected to %s", common.AppName, strings.Join(parts, ", "))
}

func pairLabel(p vpn.Pair) string {
	return p.Key + ": " + p.Value
}

func actionPtr(a vpn.Action) *vpn.Action {
	return &a
}
