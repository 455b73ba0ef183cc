// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stratastor/hotplugd/internal/constants"
	"github.com/stratastor/hotplugd/pkg/errors"
	"github.com/stratastor/hotplugd/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// fakeProcs reports exit after exitAfter non-exited checks; a negative
// exitAfter never exits.
type fakeProcs struct {
	mu        sync.Mutex
	exitAfter int
	checks    int
	signals   []unix.Signal
	signalErr map[unix.Signal]error
	waitErr   error
}

func (f *fakeProcs) Signal(pid int, sig unix.Signal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals = append(f.signals, sig)
	return f.signalErr[sig]
}

func (f *fakeProcs) Exited(pid int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.waitErr != nil {
		return false, f.waitErr
	}
	if f.exitAfter >= 0 && f.checks >= f.exitAfter {
		return true, nil
	}
	f.checks++
	return false, nil
}

func (f *fakeProcs) sent() []unix.Signal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]unix.Signal(nil), f.signals...)
}

// runWithFakeClock drives every sleep of fn forward by the poll interval
// until fn returns.
func runWithFakeClock(t *testing.T, fc *clockwork.FakeClock, fn func()) time.Duration {
	t.Helper()
	start := fc.Now()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if err := fc.BlockUntilContext(ctx, 1); err != nil {
				return
			}
			fc.Advance(constants.ExitPollInterval)
		}
	}()

	fn()
	cancel()
	<-done
	return fc.Since(start)
}

func newTestTerminator(t *testing.T, procs ProcessControl, clock clockwork.Clock) (*Terminator, *lifecycle.RecordStore) {
	t.Helper()
	records := lifecycle.NewRecordStore(afero.NewMemMapFs(), "/var/run/bdpoll")
	return NewTerminator(newTestLogger(t), records, procs, clock), records
}

func TestTerminateExitsWithinGrace(t *testing.T) {
	procs := &fakeProcs{exitAfter: 3}
	fc := clockwork.NewFakeClock()
	term, records := newTestTerminator(t, procs, fc)
	require.NoError(t, records.Write("sda", 1234))

	var outcome Outcome
	var err error
	runWithFakeClock(t, fc, func() {
		outcome, err = term.Terminate("sda")
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeExited, outcome)
	assert.Equal(t, []unix.Signal{unix.SIGTERM}, procs.sent(), "no SIGKILL when the watchdog exits in time")
	assert.False(t, records.Exists("sda"))
}

func TestTerminateEscalatesAfterGrace(t *testing.T) {
	procs := &fakeProcs{exitAfter: -1}
	fc := clockwork.NewFakeClock()
	term, records := newTestTerminator(t, procs, fc)
	require.NoError(t, records.Write("sda", 1234))

	var outcome Outcome
	var err error
	elapsed := runWithFakeClock(t, fc, func() {
		outcome, err = term.Terminate("sda")
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeKilled, outcome)
	assert.Equal(t, []unix.Signal{unix.SIGTERM, unix.SIGKILL}, procs.sent(), "exactly one SIGKILL")
	assert.GreaterOrEqual(t, elapsed, constants.GraceWindow)
	assert.Less(t, elapsed, constants.GraceWindow+2*constants.ExitPollInterval)
	assert.False(t, records.Exists("sda"))
}

func TestTerminateMissingRecord(t *testing.T) {
	procs := &fakeProcs{exitAfter: 0}
	term, _ := newTestTerminator(t, procs, clockwork.NewFakeClock())

	outcome, err := term.Terminate("sdq")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.WatchdogRecordReadFailed))
	assert.Equal(t, OutcomeNone, outcome)
	assert.Empty(t, procs.sent())
}

func TestTerminateRemovesRecordOnErrors(t *testing.T) {
	t.Run("SignalFailure", func(t *testing.T) {
		procs := &fakeProcs{signalErr: map[unix.Signal]error{unix.SIGTERM: unix.ESRCH}}
		term, records := newTestTerminator(t, procs, clockwork.NewFakeClock())
		require.NoError(t, records.Write("sdb", 99))

		_, err := term.Terminate("sdb")
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.WatchdogSignalFailed))
		assert.True(t, stderrors.Is(err, unix.ESRCH))
		assert.False(t, records.Exists("sdb"))
	})

	t.Run("WaitFailure", func(t *testing.T) {
		procs := &fakeProcs{waitErr: unix.EINVAL}
		term, records := newTestTerminator(t, procs, clockwork.NewFakeClock())
		require.NoError(t, records.Write("sdb", 99))

		_, err := term.Terminate("sdb")
		assert.True(t, errors.HasCode(err, errors.WatchdogWaitFailed))
		assert.False(t, records.Exists("sdb"))
	})

	t.Run("MalformedRecord", func(t *testing.T) {
		procs := &fakeProcs{}
		term, records := newTestTerminator(t, procs, clockwork.NewFakeClock())
		fs := afero.NewMemMapFs()
		records = lifecycle.NewRecordStore(fs, "/run")
		term.records = records
		require.NoError(t, afero.WriteFile(fs, records.Path("sdc"), []byte("garbage"), 0644))

		_, err := term.Terminate("sdc")
		assert.True(t, errors.HasCode(err, errors.WatchdogRecordReadFailed))
		assert.False(t, records.Exists("sdc"))
		assert.Empty(t, procs.sent())
	})
}

func TestUnixProcessControlNonChild(t *testing.T) {
	procs := UnixProcessControl{}

	// pid 1 is alive and never our child.
	exited, err := procs.Exited(1)
	require.NoError(t, err)
	assert.False(t, exited)

	// Beyond any pid_max.
	exited, err = procs.Exited(0x7ffffff0)
	require.NoError(t, err)
	assert.True(t, exited)
}

func TestUnixProcessControlZombie(t *testing.T) {
	tests := []struct {
		name   string
		stat   string
		exited bool
	}{
		{"zombie", "1 (bd) poll) Z 0 1 1 0 -1", true},
		{"sleeping", "1 (bdpoll) S 0 1 1 0 -1", false},
		{"garbled", "1 bdpoll", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/proc/1/stat", []byte(tt.stat), 0o444))
			procs := UnixProcessControl{Fs: fs, ProcRoot: "/proc"}

			// pid 1 answers signal 0 but is never our child, so its
			// stat file decides.
			exited, err := procs.Exited(1)
			require.NoError(t, err)
			assert.Equal(t, tt.exited, exited)
		})
	}

	t.Run("missing stat", func(t *testing.T) {
		procs := UnixProcessControl{Fs: afero.NewMemMapFs()}
		exited, err := procs.Exited(1)
		require.NoError(t, err)
		assert.False(t, exited)
	})
}

func TestStatState(t *testing.T) {
	state, ok := statState([]byte("42 (a) b) c) R 1 42"))
	require.True(t, ok)
	assert.Equal(t, byte('R'), state)

	_, ok = statState([]byte("42 (trunc)"))
	assert.False(t, ok)
}
