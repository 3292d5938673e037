package vpn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yllada/nordvpn-tray/common"
)

// observeLogs routes the default logger into an observer for one test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	common.GetLogger().SetCore(core)
	t.Cleanup(func() { common.GetLogger().SetCore(zapcore.NewNopCore()) })
	return logs
}

func TestGateway_Status(t *testing.T) {
	ctx := context.Background()

	t.Run("connected", func(t *testing.T) {
		g := NewGateway(stockDaemon(), DefaultGatewayConfig())
		status, err := g.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, Pair{"Status", "Connected"}, status[0])
		assert.True(t, IsConnected(status))
	})

	t.Run("daemon failure means disconnected", func(t *testing.T) {
		logs := observeLogs(t)
		f := newFakeRunner()
		f.fail("status", "Whoops! Cannot reach System Daemon.")
		g := NewGateway(f, DefaultGatewayConfig())

		status, err := g.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, []Pair{{"Status", "Disconnected"}, {"Country", "Netherlands"}}, status)
		assert.False(t, IsConnected(status))
		assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len(), "daemon failure is not an error")
	})

	t.Run("default country is configurable", func(t *testing.T) {
		f := newFakeRunner()
		f.fail("status", "")
		g := NewGateway(f, GatewayConfig{DefaultCountry: "Sweden"})

		status, err := g.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, []Pair{{"Status", "Disconnected"}, {"Country", "Sweden"}}, status)
	})

	t.Run("execution error", func(t *testing.T) {
		logs := observeLogs(t)
		g := NewGateway(newFakeRunner(), DefaultGatewayConfig())

		status, err := g.Status(ctx)
		assert.Nil(t, status)
		assert.ErrorIs(t, err, common.ErrExecution)

		errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, "Failed to get status")
	})
}

func TestGateway_Connect(t *testing.T) {
	ctx := context.Background()
	f := stockDaemon()
	g := NewGateway(f, GatewayConfig{Binary: "/opt/nordvpn/bin/nordvpn"})

	require.NoError(t, g.Connect(ctx, "United States"))
	assert.Equal(t, []string{"connect", "United_States"}, f.last("connect"))
	assert.Equal(t, "/opt/nordvpn/bin/nordvpn", f.calls[0].name)

	f.fail("connect", "The specified server does not exist.")
	assert.ErrorIs(t, g.Connect(ctx, "Atlantis"), common.ErrDaemonFailure)

	f.broken("connect")
	assert.ErrorIs(t, g.Connect(ctx, "Germany"), common.ErrExecution)
}

func TestGateway_Disconnect(t *testing.T) {
	f := stockDaemon()
	g := NewGateway(f, DefaultGatewayConfig())

	require.NoError(t, g.Disconnect(context.Background()))
	assert.Equal(t, []string{"disconnect"}, f.last("disconnect"))
	assert.Equal(t, "nordvpn", f.calls[0].name)
}

func TestGateway_Lists(t *testing.T) {
	ctx := context.Background()
	f := stockDaemon()
	g := NewGateway(f, DefaultGatewayConfig())

	countries, err := g.Countries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Albania", "Germany", "Netherlands", "United States"}, countries)

	groups, err := g.Groups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Africa The Middle East And India", "Double VPN", "P2P"}, groups)

	f.fail("groups", "Standard VPN")
	groups, err = g.Groups(ctx)
	require.NoError(t, err, "stdout of a non-zero exit is still parsed")
	assert.Equal(t, []string{"Standard VPN"}, groups)

	f.broken("countries")
	countries, err = g.Countries(ctx)
	assert.ErrorIs(t, err, common.ErrExecution)
	assert.Nil(t, countries)
}

func TestGateway_Settings(t *testing.T) {
	ctx := context.Background()
	f := stockDaemon()
	g := NewGateway(f, DefaultGatewayConfig())

	settings, err := g.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Pair{
		{"Technology", "NORDLYNX"},
		{"Firewall", "enabled"},
		{"Kill Switch", "disabled"},
		{"DNS", "disabled"},
		{"LAN Discovery", "enabled"},
	}, settings)

	f.broken("settings")
	_, err = g.Settings(ctx)
	assert.ErrorIs(t, err, common.ErrExecution)
}

func TestGateway_SettingArgs(t *testing.T) {
	g := NewGateway(nil, DefaultGatewayConfig())

	tests := []struct {
		key, value string
		want       []string
	}{
		{"Firewall", "enabled", []string{"set", "firewall", "off"}},
		{"Kill Switch", "disabled", []string{"set", "killswitch", "on"}},
		{"Threat Protection Lite", "enabled", []string{"set", "threatprotectionlite", "off"}},
		{"LAN Discovery", "enabled", []string{"set", "lan-discovery", "off"}},
		{"LAN Discovery", "disabled", []string{"set", "lan-discovery", "on"}},
		{"DNS", "disabled", []string{"set", "dns", "103.86.96.100", "103.86.99.100"}},
		{"DNS", "enabled", []string{"set", "dns", "103.86.96.100", "103.86.99.100"}},
		{"Auto-connect", "Enabled", []string{"set", "auto-connect", "on"}},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, g.SettingArgs(tt.key, tt.value))
		})
	}
}

func TestGateway_SetSetting(t *testing.T) {
	f := stockDaemon()
	g := NewGateway(f, GatewayConfig{DNSServers: []string{"1.1.1.1"}})

	require.NoError(t, g.SetSetting(context.Background(), "DNS", "disabled"))
	assert.Equal(t, []string{"set", "dns", "1.1.1.1"}, f.last("set"))
}
