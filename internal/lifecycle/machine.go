// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package lifecycle

import "sync"

// Listener observes every transition that changes the status.
type Listener func(from, to State, a Action)

// Machine serializes dispatches into Reduce.
type Machine struct {
	mu        sync.Mutex
	state     State
	listeners []Listener
}

// NewMachine returns a machine in the uninitialized state.
func NewMachine() *Machine {
	return &Machine{state: Initial()}
}

// State returns the current snapshot.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Dispatch applies a and returns the resulting state. Listeners run after
// the lock is released.
func (m *Machine) Dispatch(a Action) State {
	m.mu.Lock()
	from := m.state
	to := Reduce(from, a)
	m.state = to
	listeners := m.listeners
	m.mu.Unlock()

	if from.Status != to.Status {
		for _, l := range listeners {
			l(from, to, a)
		}
	}
	return to
}

// Subscribe registers l for status changes.
func (m *Machine) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}
