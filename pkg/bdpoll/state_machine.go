// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package bdpoll

// PresenceState is the watchdog's view of the medium.
type PresenceState int

const (
	Absent PresenceState = iota
	Present
)

func (s PresenceState) String() string {
	switch s {
	case Present:
		return "present"
	default:
		return "absent"
	}
}

// Event is emitted when the presence state changes.
type Event int

const (
	EventNone Event = iota
	EventInserted
	EventRemoved
)

func (e Event) String() string {
	switch e {
	case EventInserted:
		return "inserted"
	case EventRemoved:
		return "removed"
	default:
		return "none"
	}
}

type transition struct {
	next  PresenceState
	event Event
}

// StateMachine tracks media presence for one device node.
//
//	Absent ──open ok──▶ Present ──ENOMEDIUM──▶ Absent
//
// Every other (state, probe) pair is a self-loop. In particular an ambiguous
// open error never changes state, so transient I/O failures cannot be
// mistaken for a removal.
type StateMachine struct {
	state       PresenceState
	transitions map[PresenceState]map[ProbeKind]transition
}

// NewStateMachine creates a state machine in the Absent state. The watchdog
// is only spawned right after its node is created, before any probe.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		state: Absent,
		transitions: map[PresenceState]map[ProbeKind]transition{
			Absent: {
				ProbePresent: {next: Present, event: EventInserted},
			},
			Present: {
				ProbeNoMedium: {next: Absent, event: EventRemoved},
			},
		},
	}
}

// State returns the current presence state.
func (sm *StateMachine) State() PresenceState {
	return sm.state
}

// Observe applies a probe result and returns the resulting event.
func (sm *StateMachine) Observe(kind ProbeKind) Event {
	t, ok := sm.transitions[sm.state][kind]
	if !ok {
		return EventNone
	}
	sm.state = t.next
	return t.event
}
