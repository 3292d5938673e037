package vpn

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// call is one recorded daemon invocation.
type call struct {
	name string
	args []string
}

// fakeRunner answers daemon subcommands from a table of handlers keyed by
// the first argument. Unknown subcommands fail as if the program were missing.
type fakeRunner struct {
	mu       sync.Mutex
	calls    []call
	handlers map[string]func(args []string) ([]byte, error)
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{handlers: make(map[string]func(args []string) ([]byte, error))}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{name: name, args: append([]string(nil), args...)})
	var h func(args []string) ([]byte, error)
	if len(args) > 0 {
		h = f.handlers[args[0]]
	}
	f.mu.Unlock()

	if h == nil {
		return nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return h(args)
}

// reply makes sub print out and exit zero.
func (f *fakeRunner) reply(sub, out string) {
	f.handle(sub, func([]string) ([]byte, error) { return []byte(out), nil })
}

// fail makes sub print out and exit non-zero.
func (f *fakeRunner) fail(sub, out string) {
	f.handle(sub, func([]string) ([]byte, error) {
		return []byte(out), fmt.Errorf("exit status 1: %w", &exec.ExitError{})
	})
}

// broken makes sub fail to spawn.
func (f *fakeRunner) broken(sub string) {
	f.handle(sub, func([]string) ([]byte, error) {
		return nil, errors.New("fork/exec nordvpn: permission denied")
	})
}

func (f *fakeRunner) handle(sub string, h func(args []string) ([]byte, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[sub] = h
}

// count returns how many times sub was invoked.
func (f *fakeRunner) count(sub string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c.args) > 0 && c.args[0] == sub {
			n++
		}
	}
	return n
}

// last returns the arguments of the most recent invocation of sub.
func (f *fakeRunner) last(sub string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if len(f.calls[i].args) > 0 && f.calls[i].args[0] == sub {
			return f.calls[i].args
		}
	}
	return nil
}

func (f *fakeRunner) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

const (
	connectedStatus = "\r-\r  \r\rStatus: Connected\nHostname: de512.nordvpn.com\nCountry: Germany\nCity: Berlin\nCurrent technology: NORDLYNX\n"
	countriesOut    = "\r-\r  \r\rAlbania, Germany, Netherlands, United_States\n"
	groupsOut       = "Africa_The_Middle_East_And_India, Double_VPN, P2P\n"
	settingsOut     = "Technology: NORDLYNX\nFirewall: enabled\nKill Switch: disabled\nDNS: disabled\nLAN Discovery: enabled\n"
)

// stockDaemon scripts a connected daemon with the fixtures above.
func stockDaemon() *fakeRunner {
	f := newFakeRunner()
	f.reply("status", connectedStatus)
	f.reply("countries", countriesOut)
	f.reply("groups", groupsOut)
	f.reply("settings", settingsOut)
	f.reply("connect", "You are connected")
	f.reply("disconnect", "You are disconnected")
	f.reply("set", "Settings updated")
	return f
}

func lines(s ...string) string { return strings.Join(s, "\n") }
