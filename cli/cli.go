// Package cli provides the command-line interface for NordVPN Tray.
// Besides launching the tray, it answers one-shot queries and commands
// against the daemon from the terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yllada/nordvpn-tray/config"
	"github.com/yllada/nordvpn-tray/vpn"
)

// CLI runs one-shot commands against the daemon.
type CLI struct {
	gateway *vpn.Gateway
	out     io.Writer
	color   bool
}

// New creates a CLI that writes to out. Output is coloured only when out is
// a terminal.
func New(gateway *vpn.Gateway, out io.Writer) *CLI {
	return &CLI{gateway: gateway, out: out, color: isTerminal(out)}
}

// GatewayConfig maps the configuration onto the daemon gateway settings.
func GatewayConfig(cfg *config.Config) vpn.GatewayConfig {
	return vpn.GatewayConfig{
		Binary:         cfg.Binary,
		DefaultCountry: cfg.DefaultCountry,
		DNSServers:     cfg.DNSServers,
	}
}

// Status prints the connection status followed by the daemon settings.
func (c *CLI) Status(ctx context.Context) error {
	status, err := c.gateway.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	headline := c.paint(disconnectedStyle, "Disconnected")
	if vpn.IsConnected(status) {
		headline = c.paint(connectedStyle, "Connected")
	}
	fmt.Fprintln(c.out, headline)
	fmt.Fprintln(c.out)

	c.printPairs("KEY", "VALUE", status)

	settings, err := c.gateway.Settings(ctx)
	if err != nil || len(settings) == 0 {
		return nil
	}
	fmt.Fprintln(c.out)
	c.printPairs("SETTING", "VALUE", settings)
	return nil
}

func (c *CLI) printPairs(keyHeader, valueHeader string, pairs []vpn.Pair) {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", keyHeader, valueHeader)
	fmt.Fprintf(w, "%s\t%s\n", strings.Repeat("-", len(keyHeader)), strings.Repeat("-", len(valueHeader)))
	for _, p := range pairs {
		fmt.Fprintf(w, "%s\t%s\n", p.Key, p.Value)
	}
	w.Flush()
}

// Connect connects to target, or to the default country when target is empty.
// Targets are matched case-insensitively against the daemon's countries and
// groups; unknown targets are passed through unchanged.
func (c *CLI) Connect(ctx context.Context, target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		target = c.gateway.DefaultCountry()
	} else {
		target = c.resolve(ctx, target)
	}

	fmt.Fprintf(c.out, "Connecting to %s...\n", target)
	if err := c.gateway.Connect(ctx, target); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	fmt.Fprintf(c.out, "✓ Connected to %s\n", target)
	return nil
}

func (c *CLI) resolve(ctx context.Context, target string) string {
	want := strings.ToLower(strings.ReplaceAll(target, "_", " "))

	for _, fetch := range []func(context.Context) ([]string, error){c.gateway.Countries, c.gateway.Groups} {
		names, err := fetch(ctx)
		if err != nil {
			continue
		}
		for _, name := range names {
			if strings.ToLower(name) == want {
				return name
			}
		}
	}
	return target
}

// Disconnect disconnects the active session.
func (c *CLI) Disconnect(ctx context.Context) error {
	fmt.Fprintln(c.out, "Disconnecting...")
	if err := c.gateway.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	fmt.Fprintln(c.out, "✓ Disconnected")
	return nil
}

// Countries prints the available countries, one per line.
func (c *CLI) Countries(ctx context.Context) error {
	return c.printList(ctx, "countries", c.gateway.Countries)
}

// Groups prints the available server groups, one per line.
func (c *CLI) Groups(ctx context.Context) error {
	return c.printList(ctx, "groups", c.gateway.Groups)
}

func (c *CLI) printList(ctx context.Context, what string, fetch func(context.Context) ([]string, error)) error {
	names, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", what, err)
	}
	if len(names) == 0 {
		fmt.Fprintf(c.out, "No %s reported by the daemon.\n", what)
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(c.out, name)
	}
	return nil
}

// PrintConfig writes the effective configuration as YAML.
func (c *CLI) PrintConfig(cfg *config.Config) error {
	return cfg.Encode(c.out)
}
