// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"strconv"

	"github.com/jonboulle/clockwork"
	"github.com/stratastor/hotplugd/internal/constants"
	"github.com/stratastor/hotplugd/pkg/errors"
	"github.com/stratastor/hotplugd/pkg/lifecycle"
	"github.com/stratastor/logger"
	"golang.org/x/sys/unix"
)

// Outcome describes how a watchdog was stopped.
type Outcome string

const (
	OutcomeNone   Outcome = ""       // Protocol aborted before the watchdog was stopped
	OutcomeExited Outcome = "exited" // Exited within the grace window
	OutcomeKilled Outcome = "killed" // Grace window elapsed, SIGKILL sent
)

// Terminator stops a watchdog located through its record: SIGTERM, poll for
// exit until the grace window ends, then SIGKILL. The record is removed on
// every path.
type Terminator struct {
	logger  logger.Logger
	records *lifecycle.RecordStore
	procs   ProcessControl
	clock   clockwork.Clock
}

// NewTerminator creates a terminator. A nil procs or clock selects the real
// implementation.
func NewTerminator(
	l logger.Logger,
	records *lifecycle.RecordStore,
	procs ProcessControl,
	clock clockwork.Clock,
) *Terminator {
	if procs == nil {
		procs = UnixProcessControl{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Terminator{
		logger:  l,
		records: records,
		procs:   procs,
		clock:   clock,
	}
}

// Terminate runs the termination protocol for the watchdog recorded under key.
func (t *Terminator) Terminate(key string) (outcome Outcome, err error) {
	start := t.clock.Now()
	deadline := start.Add(constants.GraceWindow)

	defer func() {
		if rmErr := t.records.Remove(key); rmErr != nil {
			t.logger.Error("failed to remove watchdog record", "key", key, "err", rmErr)
			if err == nil {
				err = rmErr
			}
		}
	}()

	pid, err := t.records.Read(key)
	if err != nil {
		return OutcomeNone, err
	}
	pidStr := strconv.Itoa(pid)

	if err := t.procs.Signal(pid, unix.SIGTERM); err != nil {
		return OutcomeNone, errors.Wrap(err, errors.WatchdogSignalFailed).
			WithMetadata("pid", pidStr).
			WithMetadata("signal", unix.SIGTERM.String())
	}

	for {
		exited, err := t.procs.Exited(pid)
		if err != nil {
			return OutcomeNone, errors.Wrap(err, errors.WatchdogWaitFailed).
				WithMetadata("pid", pidStr)
		}
		if exited {
			t.logger.Debug("watchdog exited",
				"key", key,
				"pid", pid,
				"elapsed", t.clock.Since(start).String())
			return OutcomeExited, nil
		}
		if !t.clock.Now().Before(deadline) {
			break
		}
		t.clock.Sleep(constants.ExitPollInterval)
	}

	t.logger.Warn("watchdog did not exit within grace window, killing",
		"key", key,
		"pid", pid,
		"grace", constants.GraceWindow.String())

	if err := t.procs.Signal(pid, unix.SIGKILL); err != nil {
		return OutcomeNone, errors.Wrap(err, errors.WatchdogSignalFailed).
			WithMetadata("pid", pidStr).
			WithMetadata("signal", unix.SIGKILL.String())
	}

	return OutcomeKilled, nil
}
