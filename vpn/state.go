// Package vpn provides the daemon command gateway and state engine.
// This file contains TrayState and the Store that serializes access to it.
package vpn

import (
	"slices"
	"sync"
)

// TrayState is everything the presenters show.
type TrayState struct {
	Status    []Pair
	Countries []string
	Groups    []string
	Settings  []Pair
	// TargetIndex points into Countries when UseCountry is set, else Groups.
	TargetIndex int
	UseCountry  bool
	Connected   bool
}

// Snapshot is a deep copy of TrayState, safe to read without the lock.
type Snapshot = TrayState

func (s *TrayState) clone() TrayState {
	return TrayState{
		Status:      slices.Clone(s.Status),
		Countries:   slices.Clone(s.Countries),
		Groups:      slices.Clone(s.Groups),
		Settings:    slices.Clone(s.Settings),
		TargetIndex: s.TargetIndex,
		UseCountry:  s.UseCountry,
		Connected:   s.Connected,
	}
}

// ActiveTargets returns the list the selection space refers to.
func (s *TrayState) ActiveTargets() []string {
	if s.UseCountry {
		return s.Countries
	}
	return s.Groups
}

// SelectedTarget returns the target the toggle item connects to.
func (s *TrayState) SelectedTarget() (string, bool) {
	targets := s.ActiveTargets()
	if s.TargetIndex < 0 || s.TargetIndex >= len(targets) {
		return "", false
	}
	return targets[s.TargetIndex], true
}

// Store owns one TrayState. Every mutation runs under a single mutex and is
// followed by a change signal to subscribers.
type Store struct {
	mu          sync.Mutex
	state       TrayState
	subscribers []chan struct{}
}

// NewStore creates a store holding initial.
func NewStore(initial TrayState) *Store {
	return &Store{state: initial.clone()}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Update applies fn as one mutation batch and notifies subscribers.
func (s *Store) Update(fn func(*TrayState)) {
	s.mu.Lock()
	fn(&s.state)
	s.clampTarget()
	subs := s.subscribers
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
			// a signal is already pending
		}
	}
}

// clampTarget keeps TargetIndex inside the active list.
func (s *Store) clampTarget() {
	if n := len(s.state.ActiveTargets()); s.state.TargetIndex < 0 || s.state.TargetIndex >= n {
		s.state.TargetIndex = 0
	}
}

// Subscribe returns a channel that receives a value after mutations.
// Signals coalesce: a slow reader sees one pending signal, not a backlog.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}
