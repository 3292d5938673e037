// Package main provides the entry point for NordVPN Tray.
// NordVPN Tray is a system tray indicator for the NordVPN command-line
// client on Linux. It mirrors the daemon's connection state and lets the
// user switch countries, server groups and settings from the tray menu.
//
// Features:
//   - Country and server group selection
//   - Live connection details refreshed every few seconds
//   - One-click toggles for on/off daemon settings
//   - Desktop notifications on connect and disconnect
//   - Terminal menu when no tray host is running
//   - Command-line interface for scripting
//
// Usage:
//
//	nordvpn-tray [command] [flags]
//
// Environment:
//
//	The application requires the nordvpn client and its daemon to be
//	installed and running.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yllada/nordvpn-tray/cli"
	"github.com/yllada/nordvpn-tray/common"
	"github.com/yllada/nordvpn-tray/config"
	"github.com/yllada/nordvpn-tray/tui"
	"github.com/yllada/nordvpn-tray/ui"
	"github.com/yllada/nordvpn-tray/vpn"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z)
// Default values are used for local development builds
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

func main() {
	// Setup graceful shutdown context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals (SIGINT, SIGTERM)
	setupSignalHandler(cancel)

	root := cli.NewRootCommand(cli.BuildInfo{
		Version:   appVersion,
		BuildTime: buildTime,
		Commit:    commitSHA,
	}, runApp)

	if err := cli.Execute(ctx, root); err != nil {
		os.Exit(1)
	}
}

// runApp wires the state engine to a presenter and blocks until shutdown.
func runApp(ctx context.Context, cfg *config.Config, forceTUI bool) error {
	gateway := vpn.NewGateway(nil, cli.GatewayConfig(cfg))
	store := vpn.NewStore(vpn.Bootstrap(ctx, gateway))
	controller := vpn.NewController(gateway, store)

	reconciler := vpn.NewReconciler(gateway, store, cfg.PollInterval)
	if cfg.ShowNotifications {
		reconciler.OnTransition(ui.NotifyTransition)
	}
	reconciler.Start(ctx)
	defer reconciler.Stop()

	hostAvailable := ui.TrayHostAvailable()
	if forceTUI || (!hostAvailable && cli.StdoutIsTerminal()) {
		common.LogDebug("Using the terminal menu")
		return tui.Run(ctx, store, controller)
	}

	if !hostAvailable {
		common.LogWarn("No tray host found on the session bus; the icon may not be visible")
	}
	ui.NewTrayIndicator(store, controller).Run(ctx)
	return nil
}

// setupSignalHandler configures graceful shutdown on SIGINT/SIGTERM.
// When a signal is received, it cancels the context to allow cleanup.
func setupSignalHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		common.LogInfo("Received signal %v, initiating graceful shutdown...", sig)
		cancel()
	}()
}
