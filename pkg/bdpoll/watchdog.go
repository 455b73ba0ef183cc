// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package bdpoll implements the media presence watchdog that runs for every
// whole-disk node. It polls the node, reports insertions and removals, and
// asks the kernel to rescan partitions after a removal.
package bdpoll

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/stratastor/hotplugd/internal/constants"
	"github.com/stratastor/logger"
)

// Rescanner rereads a disk's partition table.
type Rescanner interface {
	Rescan(path string) error
}

// Config holds Watchdog collaborators. Nil fields select the device-backed
// implementations.
type Config struct {
	Node      string
	Source    PresenceSource
	Rescanner Rescanner
	Notifier  Notifier
	Clock     clockwork.Clock
}

// Watchdog polls one device node for media changes.
type Watchdog struct {
	logger    logger.Logger
	node      string
	source    PresenceSource
	rescanner Rescanner
	notifier  Notifier
	clock     clockwork.Clock
	sm        *StateMachine
}

func New(l logger.Logger, cfg Config) *Watchdog {
	w := &Watchdog{
		logger:    l,
		node:      cfg.Node,
		source:    cfg.Source,
		rescanner: cfg.Rescanner,
		notifier:  cfg.Notifier,
		clock:     cfg.Clock,
		sm:        NewStateMachine(),
	}
	if w.source == nil {
		w.source = NewDeviceSource(cfg.Node)
	}
	if w.rescanner == nil {
		w.rescanner = BlockRescanner{}
	}
	if w.clock == nil {
		w.clock = clockwork.NewRealClock()
	}
	return w
}

// State returns the current presence state.
func (w *Watchdog) State() PresenceState {
	return w.sm.State()
}

// Poll runs a single probe and acts on the resulting transition.
func (w *Watchdog) Poll(ctx context.Context) Event {
	probe := w.source.Probe(ctx)
	if probe.Kind == ProbeError {
		w.logger.Warn("presence probe failed", "node", w.node, "err", probe.Err)
	}

	ev := w.sm.Observe(probe.Kind)
	switch ev {
	case EventInserted:
		w.notify(ev)
	case EventRemoved:
		w.notify(ev)
		if err := w.rescanner.Rescan(w.node); err != nil {
			w.logger.Warn("partition rescan failed", "node", w.node, "err", err)
		} else {
			w.logger.Debug("partition table reread", "node", w.node)
		}
	}
	return ev
}

func (w *Watchdog) notify(ev Event) {
	if w.notifier != nil {
		w.notifier.Notify(w.node, ev)
	}
}

// Run polls until ctx is cancelled. A poll that produced a transition is
// followed immediately by another one; otherwise the loop sleeps for the
// presence poll interval.
func (w *Watchdog) Run(ctx context.Context) error {
	w.logger.Info("watchdog started", "node", w.node, "interval", constants.PresencePollInterval.String())
	defer func() {
		w.logger.Info("watchdog stopped", "node", w.node, "state", w.sm.State().String())
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}
		if ev := w.Poll(ctx); ev != EventNone {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-w.clock.After(constants.PresencePollInterval):
		}
	}
}
