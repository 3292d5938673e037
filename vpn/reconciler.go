// Package vpn provides the daemon command gateway and state engine.
// This file contains the Reconciler, which polls the daemon and keeps the
// Store in line with it.
package vpn

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/yllada/nordvpn-tray/common"
)

// TransitionFunc is called after a poll detects a connectivity change.
type TransitionFunc func(connected bool, status []Pair)

// Reconciler polls the daemon on a fixed interval. Cycles never overlap:
// the next one is scheduled only after the previous one has been applied.
type Reconciler struct {
	mu           sync.RWMutex
	gateway      *Gateway
	store        *Store
	interval     time.Duration
	running      bool
	cancel       context.CancelFunc
	done         chan struct{}
	onTransition []TransitionFunc
}

// NewReconciler creates a reconciler. A non-positive interval uses the
// default poll interval.
func NewReconciler(gateway *Gateway, store *Store, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = common.PollInterval
	}
	return &Reconciler{
		gateway:  gateway,
		store:    store,
		interval: interval,
	}
}

// OnTransition registers a callback for connectivity changes.
func (r *Reconciler) OnTransition(fn TransitionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onTransition = append(r.onTransition, fn)
}

// Start begins polling in the background until Stop or ctx is done.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.running = true
	done := r.done
	r.mu.Unlock()

	common.LogInfo("Reconciler started (interval: %v)", r.interval)

	go func() {
		defer close(done)
		r.Run(ctx)
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()
}

// Stop stops the polling loop and waits for the current cycle to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	cancel()
	<-done
	common.LogInfo("Reconciler stopped")
}

// IsRunning returns whether the polling loop is active.
func (r *Reconciler) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.running
}

// Run polls until ctx is done. It blocks.
func (r *Reconciler) Run(ctx context.Context) {
	timer := time.NewTimer(r.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			r.Poll(ctx)
			timer.Reset(r.interval)
		}
	}
}

// Poll performs one refresh cycle. It reports whether a transition was seen.
func (r *Reconciler) Poll(ctx context.Context) bool {
	status, err := r.gateway.Status(ctx)
	if err != nil {
		// Already logged by the gateway; keep the last known good state.
		return false
	}

	connected := IsConnected(status)
	if connected == r.store.Snapshot().Connected {
		r.store.Update(func(s *TrayState) {
			s.Status = status
		})
		return false
	}

	common.LogInfo("Connectivity changed: connected=%v", connected)

	index, countries := resolveCountries(ctx, r.gateway, status)
	groups := fetchGroups(ctx, r.gateway)
	settings := fetchSettings(ctx, r.gateway)

	applied := false
	r.store.Update(func(s *TrayState) {
		s.Status = status
		// An action may have confirmed the same change while the lists were
		// being fetched; its selection wins.
		if s.Connected == connected {
			return
		}
		applied = true
		s.Connected = connected
		s.Countries = countries
		s.Groups = groups
		s.Settings = settings
		s.TargetIndex = index
		s.UseCountry = true
	})
	if !applied {
		common.LogDebug("Connectivity change already applied by a user action")
		return false
	}

	r.mu.RLock()
	callbacks := slices.Clone(r.onTransition)
	r.mu.RUnlock()
	for _, fn := range callbacks {
		fn(connected, slices.Clone(status))
	}
	return true
}

// Bootstrap builds the initial TrayState from one full poll.
func Bootstrap(ctx context.Context, gateway *Gateway) TrayState {
	status, err := gateway.Status(ctx)
	switch {
	case err != nil:
		common.LogError("Failed to connect. Please ensure that the NordVPN daemon is running.")
	case !IsConnected(status):
		common.LogInfo("Daemon reports no active connection")
	}

	index, countries := resolveCountries(ctx, gateway, status)
	if status == nil {
		status = []Pair{}
	}

	return TrayState{
		Status:      status,
		Countries:   countries,
		Groups:      fetchGroups(ctx, gateway),
		Settings:    fetchSettings(ctx, gateway),
		TargetIndex: index,
		UseCountry:  true,
		Connected:   IsConnected(status),
	}
}

// resolveCountries fetches the country list and locates the daemon's current
// country in it. Without a reported country or a reachable daemon the result
// is the default country alone. A country missing from the list selects
// index 0 of the fetched list.
func resolveCountries(ctx context.Context, gateway *Gateway, status []Pair) (int, []string) {
	fallback := []string{gateway.DefaultCountry()}

	current, ok := Lookup(status, "Country")
	if !ok {
		return 0, fallback
	}

	countries, err := gateway.Countries(ctx)
	if err != nil || len(countries) == 0 {
		return 0, fallback
	}

	if i := slices.Index(countries, current); i >= 0 {
		return i, countries
	}
	common.LogDebug("Country %q not in country list, selecting %q", current, countries[0])
	return 0, countries
}

func fetchGroups(ctx context.Context, gateway *Gateway) []string {
	groups, err := gateway.Groups(ctx)
	if err != nil {
		return []string{}
	}
	return groups
}

func fetchSettings(ctx context.Context, gateway *Gateway) []Pair {
	settings, err := gateway.Settings(ctx)
	if err != nil {
		return []Pair{}
	}
	return settings
}
