package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yllada/nordvpn-tray/common"
	"github.com/yllada/nordvpn-tray/config"
	"github.com/yllada/nordvpn-tray/vpn"
)

// BuildInfo is injected at build time.
type BuildInfo struct {
	Version   string
	BuildTime string
	Commit    string
}

// AppFunc runs the long-lived presenter until ctx is done.
type AppFunc func(ctx context.Context, cfg *config.Config, forceTUI bool) error

// options holds the persistent flags and what PersistentPreRunE derives
// from them.
type options struct {
	configPath string
	verbose    bool
	tui        bool

	runner vpn.Runner
	cfg    *config.Config
}

func (o *options) gateway() *vpn.Gateway {
	return vpn.NewGateway(o.runner, GatewayConfig(o.cfg))
}

// NewRootCommand builds the command tree. Running the root command without a
// subcommand starts app.
func NewRootCommand(info BuildInfo, app AppFunc) *cobra.Command {
	return newRootCommand(info, app, &options{})
}

// closeLogger flushes and closes the log sinks. Replaced in tests.
var closeLogger = common.CloseLogger

// Execute runs root and then closes the logger, whether or not the command
// failed.
func Execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if cerr := closeLogger(); cerr != nil {
		fmt.Fprintf(root.ErrOrStderr(), "failed to close log file: %v\n", cerr)
	}
	return err
}

func newRootCommand(info BuildInfo, app AppFunc, opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "nordvpn-tray",
		Short: "System tray indicator for the NordVPN client",
		Long: `nordvpn-tray shows the state of the local NordVPN daemon in the system
tray and lets you switch countries, groups and settings from its menu.
Without a tray host it falls back to a terminal menu.`,
		Version:      info.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			common.LogInfo("Starting %s %s", common.AppName, info.Version)
			return app(cmd.Context(), opts.cfg, opts.tui)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("%s {{.Version}}\n", common.AppName))

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/nordvpn-tray/config.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.Flags().BoolVar(&opts.tui, "tui", false, "use the terminal menu instead of the system tray")

	root.AddCommand(
		newStatusCmd(opts),
		newConnectCmd(opts),
		newDisconnectCmd(opts),
		newListCmd(opts, "countries", "List available countries", (*CLI).Countries),
		newListCmd(opts, "groups", "List available server groups", (*CLI).Groups),
		newConfigCmd(opts),
		newVersionCmd(info),
	)
	return root
}

// setup loads the configuration and initializes logging.
func (o *options) setup() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg

	level := common.ParseLogLevel(cfg.LogLevel)
	if o.verbose {
		level = common.LevelDebug
	}
	if err := common.InitLogger(common.LogConfig{
		Level:        level,
		EnableFile:   cfg.LogToFile,
		EnableSyslog: cfg.Syslog,
	}); err != nil {
		// Console logging still works; only the file sink is missing.
		common.LogWarn("Could not initialize file logging: %v", err)
	}
	return nil
}

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connection status and daemon settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return New(opts.gateway(), cmd.OutOrStdout()).Status(cmd.Context())
		},
	}
}

func newConnectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "connect [country|group]",
		Short: "Connect to a country or server group (default country if omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			return New(opts.gateway(), cmd.OutOrStdout()).Connect(cmd.Context(), target)
		},
	}
}

func newDisconnectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Disconnect the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return New(opts.gateway(), cmd.OutOrStdout()).Disconnect(cmd.Context())
		},
	}
}

func newListCmd(opts *options, use, short string, run func(*CLI, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(New(opts.gateway(), cmd.OutOrStdout()), cmd.Context())
		},
	}
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return New(opts.gateway(), cmd.OutOrStdout()).PrintConfig(opts.cfg)
		},
	}
}

func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s v%s\n", common.AppName, info.Version)
			if info.BuildTime != "unknown" && info.BuildTime != "" {
				fmt.Fprintf(out, "  Build:  %s\n", info.BuildTime)
				fmt.Fprintf(out, "  Commit: %s\n", info.Commit)
			}
		},
	}
}
