package cli

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/nordvpn-tray/common"
	"github.com/yllada/nordvpn-tray/config"
	"github.com/yllada/nordvpn-tray/vpn"
)

type reply struct {
	out string
	err error
}

// scriptRunner answers daemon subcommands from a fixed script and records
// every invocation.
type scriptRunner struct {
	replies map[string]reply
	calls   [][]string
}

func (r *scriptRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	rep, ok := r.replies[args[0]]
	if !ok {
		return nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return []byte(rep.out), rep.err
}

func daemon() *scriptRunner {
	return &scriptRunner{replies: map[string]reply{
		"status":     {out: "Status: Connected\nCountry: Germany\nCity: Berlin\n"},
		"settings":   {out: "Technology: NORDLYNX\nFirewall: enabled\n"},
		"countries":  {out: "Albania, Germany, United_States\n"},
		"groups":     {out: "Double_VPN, P2P\n"},
		"connect":    {out: "You are connected"},
		"disconnect": {out: "You are disconnected"},
	}}
}

func newTestCLI(r *scriptRunner) (*CLI, *bytes.Buffer) {
	var out bytes.Buffer
	return New(vpn.NewGateway(r, vpn.DefaultGatewayConfig()), &out), &out
}

func TestCLI_Status(t *testing.T) {
	c, out := newTestCLI(daemon())
	require.NoError(t, c.Status(context.Background()))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Connected\n"), "no colour when not a terminal: %q", text)
	assert.Contains(t, text, "Country  Germany")
	assert.Contains(t, text, "SETTING")
	assert.Contains(t, text, "Firewall    enabled")
}

func TestCLI_StatusDaemonDown(t *testing.T) {
	r := daemon()
	r.replies["status"] = reply{out: "Whoops!", err: &exec.ExitError{}}
	c, out := newTestCLI(r)

	require.NoError(t, c.Status(context.Background()))
	assert.Contains(t, out.String(), "Disconnected")
	assert.Contains(t, out.String(), "Netherlands")
}

func TestCLI_StatusNoDaemon(t *testing.T) {
	c, _ := newTestCLI(&scriptRunner{})
	err := c.Status(context.Background())
	assert.ErrorIs(t, err, common.ErrExecution)
}

func TestCLI_Connect(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"default country", "", []string{"nordvpn", "connect", "Netherlands"}},
		{"case-insensitive country", "united states", []string{"nordvpn", "connect", "United_States"}},
		{"underscored group", "double_vpn", []string{"nordvpn", "connect", "Double_VPN"}},
		{"unknown passes through", "de512", []string{"nordvpn", "connect", "de512"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := daemon()
			c, out := newTestCLI(r)

			require.NoError(t, c.Connect(context.Background(), tt.target))
			assert.Equal(t, tt.want, r.calls[len(r.calls)-1])
			assert.Contains(t, out.String(), "✓ Connected")
		})
	}
}

func TestCLI_ConnectFailure(t *testing.T) {
	r := daemon()
	r.replies["connect"] = reply{out: "Whoops!", err: &exec.ExitError{}}
	c, _ := newTestCLI(r)

	err := c.Connect(context.Background(), "Germany")
	assert.ErrorIs(t, err, common.ErrDaemonFailure)
}

func TestCLI_Disconnect(t *testing.T) {
	r := daemon()
	c, out := newTestCLI(r)

	require.NoError(t, c.Disconnect(context.Background()))
	assert.Equal(t, []string{"nordvpn", "disconnect"}, r.calls[0])
	assert.Contains(t, out.String(), "✓ Disconnected")
}

func TestCLI_Lists(t *testing.T) {
	c, out := newTestCLI(daemon())
	require.NoError(t, c.Countries(context.Background()))
	assert.Equal(t, "Albania\nGermany\nUnited States\n", out.String())

	out.Reset()
	require.NoError(t, c.Groups(context.Background()))
	assert.Equal(t, "Double VPN\nP2P\n", out.String())

	r := daemon()
	r.replies["groups"] = reply{}
	c, out = newTestCLI(r)
	require.NoError(t, c.Groups(context.Background()))
	assert.Equal(t, "No groups reported by the daemon.\n", out.String())
}

func TestGatewayConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Binary = "/opt/nordvpn/bin/nordvpn"
	cfg.DefaultCountry = "Sweden"

	gc := GatewayConfig(cfg)
	assert.Equal(t, "/opt/nordvpn/bin/nordvpn", gc.Binary)
	assert.Equal(t, "Sweden", gc.DefaultCountry)
	assert.Equal(t, cfg.DNSServers, gc.DNSServers)
}

// writeConfig writes a config file that keeps tests away from syslog.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("syslog: false\n"+extra), 0o600))
	return path
}

func execute(t *testing.T, r *scriptRunner, app AppFunc, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	if app == nil {
		app = func(context.Context, *config.Config, bool) error { return nil }
	}
	cmd := newRootCommand(BuildInfo{Version: "1.2.3", BuildTime: "unknown"}, app, &options{runner: r})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := execute(t, daemon(), nil, "countries", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "United States")

	r := daemon()
	_, err = execute(t, r, nil, "connect", "germany", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"nordvpn", "connect", "Germany"}, r.calls[len(r.calls)-1])

	_, err = execute(t, daemon(), nil, "connect", "a", "b", "--config", cfg)
	assert.Error(t, err)
}

func TestRootCommand_UsesConfiguredBinary(t *testing.T) {
	cfg := writeConfig(t, "binary: /usr/local/bin/nordvpn\ndefault_country: Sweden\n")
	r := daemon()

	_, err := execute(t, r, nil, "connect", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/local/bin/nordvpn", "connect", "Sweden"}, r.calls[0])
}

func TestRootCommand_RunsApp(t *testing.T) {
	cfg := writeConfig(t, "poll_interval: 10s\n")

	var got *config.Config
	var forced bool
	_, err := execute(t, daemon(), func(_ context.Context, c *config.Config, tui bool) error {
		got, forced = c, tui
		return nil
	}, "--tui", "--config", cfg)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "10s", got.PollInterval.String())
	assert.True(t, forced)
}

func TestRootCommand_BadConfig(t *testing.T) {
	cfg := writeConfig(t, "colour: purple\n")
	_, err := execute(t, daemon(), nil, "status", "--config", cfg)
	assert.ErrorIs(t, err, common.ErrConfigLoad)
}

func TestRootCommand_ConfigAndVersion(t *testing.T) {
	cfg := writeConfig(t, "")

	out, err := execute(t, daemon(), nil, "config", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "default_country: Netherlands")
	assert.Contains(t, out, "syslog: false")

	out, err = execute(t, daemon(), nil, "version", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "NordVPN Tray v1.2.3\n", out)
}

func TestExecute_ClosesLoggerOnFailure(t *testing.T) {
	closed := 0
	prev := closeLogger
	closeLogger = func() error { closed++; return nil }
	t.Cleanup(func() { closeLogger = prev })

	cfg := writeConfig(t, "")
	tests := []struct {
		name    string
		runner  *scriptRunner
		args    []string
		wantErr bool
	}{
		{"command succeeds", daemon(), []string{"countries", "--config", cfg}, false},
		{"command fails", &scriptRunner{}, []string{"status", "--config", cfg}, true},
		{"app fails", daemon(), []string{"--config", cfg}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closed = 0
			app := func(context.Context, *config.Config, bool) error { return common.ErrExecution }
			root := newRootCommand(BuildInfo{Version: "1.2.3"}, app, &options{runner: tt.runner})
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(tt.args)

			err := Execute(context.Background(), root)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 1, closed, "logger closed exactly once")
		})
	}
}
