// Package vpn provides the daemon command gateway and state engine.
// This file contains the Gateway, which sends fixed subcommands to the
// daemon's command-line program.
package vpn

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/yllada/nordvpn-tray/common"
)

// Runner executes a program without a shell and returns its stdout.
// A non-nil error wrapping *exec.ExitError means the program ran and exited
// non-zero; any other error means it could not be run.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs real processes.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// GatewayConfig holds the daemon-facing settings of a Gateway.
type GatewayConfig struct {
	Binary         string
	DefaultCountry string
	DNSServers     []string
}

// DefaultGatewayConfig returns the stock nordvpn settings.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		Binary:         common.DaemonBinary,
		DefaultCountry: common.DefaultCountry,
		DNSServers:     append([]string(nil), common.DefaultDNSServers...),
	}
}

// Gateway is the only place that talks to the daemon.
// All methods are safe for concurrent use; there is no timeout or retry.
type Gateway struct {
	runner Runner
	config GatewayConfig
}

// NewGateway creates a gateway. A nil runner uses ExecRunner.
func NewGateway(runner Runner, config GatewayConfig) *Gateway {
	if runner == nil {
		runner = ExecRunner{}
	}
	if config.Binary == "" {
		config.Binary = common.DaemonBinary
	}
	if config.DefaultCountry == "" {
		config.DefaultCountry = common.DefaultCountry
	}
	if len(config.DNSServers) == 0 {
		config.DNSServers = append([]string(nil), common.DefaultDNSServers...)
	}
	return &Gateway{runner: runner, config: config}
}

// DefaultCountry returns the fallback country name.
func (g *Gateway) DefaultCountry() string {
	return g.config.DefaultCountry
}

// run invokes the daemon. Spawn failures are logged to the error channel and
// wrapped in ErrExecution; non-zero exits are wrapped in ErrDaemonFailure
// and returned together with the captured stdout.
func (g *Gateway) run(ctx context.Context, what string, args ...string) (string, error) {
	out, err := g.runner.Run(ctx, g.config.Binary, args...)
	if err == nil {
		return string(out), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		common.LogDebug("%s %s exited with %v", g.config.Binary, strings.Join(args, " "), err)
		return string(out), fmt.Errorf("%w: %s: %v", common.ErrDaemonFailure, what, err)
	}

	common.LogError("Failed to %s: %v", what, err)
	return "", fmt.Errorf("%w: %s: %v", common.ErrExecution, what, err)
}

// Connect runs "connect <target>".
func (g *Gateway) Connect(ctx context.Context, target string) error {
	_, err := g.run(ctx, "connect", "connect", Slug(target))
	return err
}

// Disconnect runs "disconnect".
func (g *Gateway) Disconnect(ctx context.Context) error {
	_, err := g.run(ctx, "disconnect", "disconnect")
	return err
}

// Status runs "status". A daemon failure is a valid answer meaning
// disconnected; only ErrExecution is returned as an error.
func (g *Gateway) Status(ctx context.Context) ([]Pair, error) {
	out, err := g.run(ctx, "get status", "status")
	switch {
	case err == nil:
		return ParseKeyValue(out), nil
	case errors.Is(err, common.ErrDaemonFailure):
		return g.DisconnectedStatus(), nil
	default:
		return nil, err
	}
}

// DisconnectedStatus is the status synthesized when the daemon reports failure.
func (g *Gateway) DisconnectedStatus() []Pair {
	return []Pair{
		{Key: "Status", Value: "Disconnected"},
		{Key: "Country", Value: g.config.DefaultCountry},
	}
}

// Countries runs "countries".
func (g *Gateway) Countries(ctx context.Context) ([]string, error) {
	return g.list(ctx, "get countries", "countries")
}

// Groups runs "groups".
func (g *Gateway) Groups(ctx context.Context) ([]string, error) {
	return g.list(ctx, "get groups", "groups")
}

func (g *Gateway) list(ctx context.Context, what, subcommand string) ([]string, error) {
	out, err := g.run(ctx, what, subcommand)
	if errors.Is(err, common.ErrExecution) {
		return nil, err
	}
	return ParseList(out), nil
}

// Settings runs "settings". Output is parsed even on a non-zero exit.
func (g *Gateway) Settings(ctx context.Context) ([]Pair, error) {
	out, err := g.run(ctx, "get settings", "settings")
	if errors.Is(err, common.ErrExecution) {
		return nil, err
	}
	return ParseKeyValue(out), nil
}

// SetSetting flips a setting whose current value is value.
func (g *Gateway) SetSetting(ctx context.Context, key, value string) error {
	_, err := g.run(ctx, "set settings", g.SettingArgs(key, value)...)
	return err
}

// SettingArgs builds the "set" command line for toggling key away from value.
func (g *Gateway) SettingArgs(key, value string) []string {
	option := "on"
	if value == "enabled" {
		option = "off"
	}

	key = strings.ToLower(key)
	switch key {
	case "dns":
		return append([]string{"set", "dns"}, g.config.DNSServers...)
	case "lan discovery":
		return []string{"set", "lan-discovery", option}
	default:
		return []string{"set", strings.ReplaceAll(key, " ", ""), option}
	}
}
