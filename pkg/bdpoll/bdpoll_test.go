// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package bdpoll

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stratastor/hotplugd/internal/constants"
	"github.com/stratastor/hotplugd/pkg/errors"
	"github.com/stratastor/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"pgregory.net/rapid"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestLogger(t testing.TB) logger.Logger {
	t.Helper()
	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "test.bdpoll")
	require.NoError(t, err, "Failed to create logger")
	return l
}

var errTransient = stderrors.New("input/output error")

// scriptedSource replays kinds in order. Once exhausted it calls done and
// keeps returning ProbeError.
type scriptedSource struct {
	mu    sync.Mutex
	kinds []ProbeKind
	done  func()
}

func (s *scriptedSource) Probe(ctx context.Context) Probe {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.kinds) == 0 {
		if s.done != nil {
			s.done()
		}
		return Probe{Kind: ProbeError, Err: errTransient}
	}
	k := s.kinds[0]
	s.kinds = s.kinds[1:]
	if k == ProbePresent {
		return Probe{Kind: k}
	}
	return Probe{Kind: k, Err: errTransient}
}

type countingRescanner struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (r *countingRescanner) Rescan(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return r.err
}

func (r *countingRescanner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *recordingNotifier) Notify(node string, ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) got() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Event(nil), n.events...)
}

func newScriptedWatchdog(t testing.TB, kinds ...ProbeKind) (*Watchdog, *countingRescanner, *recordingNotifier) {
	rs := &countingRescanner{}
	nt := &recordingNotifier{}
	w := New(newTestLogger(t), Config{
		Node:      "/dev/sr0",
		Source:    &scriptedSource{kinds: kinds},
		Rescanner: rs,
		Notifier:  nt,
		Clock:     clockwork.NewFakeClock(),
	})
	return w, rs, nt
}

func TestStateMachine(t *testing.T) {
	tests := []struct {
		name  string
		from  PresenceState
		probe ProbeKind
		next  PresenceState
		event Event
	}{
		{"absent open ok", Absent, ProbePresent, Present, EventInserted},
		{"absent no medium", Absent, ProbeNoMedium, Absent, EventNone},
		{"absent error", Absent, ProbeError, Absent, EventNone},
		{"present open ok", Present, ProbePresent, Present, EventNone},
		{"present no medium", Present, ProbeNoMedium, Absent, EventRemoved},
		{"present error", Present, ProbeError, Present, EventNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewStateMachine()
			sm.state = tt.from
			assert.Equal(t, tt.event, sm.Observe(tt.probe))
			assert.Equal(t, tt.next, sm.State())
		})
	}
}

func TestPollInsertionNotifiesOnce(t *testing.T) {
	w, rs, nt := newScriptedWatchdog(t, ProbePresent, ProbePresent, ProbePresent)
	ctx := context.Background()

	assert.Equal(t, EventInserted, w.Poll(ctx))
	assert.Equal(t, EventNone, w.Poll(ctx))
	assert.Equal(t, EventNone, w.Poll(ctx))

	assert.Equal(t, []Event{EventInserted}, nt.got())
	assert.Equal(t, 0, rs.count())
	assert.Equal(t, Present, w.State())
}

func TestPollRemovalRescansOnce(t *testing.T) {
	w, rs, nt := newScriptedWatchdog(t, ProbePresent, ProbeNoMedium, ProbeNoMedium)
	ctx := context.Background()

	w.Poll(ctx)
	assert.Equal(t, EventRemoved, w.Poll(ctx))
	assert.Equal(t, EventNone, w.Poll(ctx))

	assert.Equal(t, []Event{EventInserted, EventRemoved}, nt.got())
	assert.Equal(t, 1, rs.count())
	assert.Equal(t, []string{"/dev/sr0"}, rs.paths)
}

func TestPollTransientErrorKeepsState(t *testing.T) {
	w, rs, nt := newScriptedWatchdog(t, ProbePresent, ProbeError, ProbeError, ProbePresent)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		w.Poll(ctx)
	}

	assert.Equal(t, Present, w.State())
	assert.Equal(t, []Event{EventInserted}, nt.got())
	assert.Equal(t, 0, rs.count())
}

func TestPollRescanFailureIsLogged(t *testing.T) {
	w, rs, nt := newScriptedWatchdog(t, ProbePresent, ProbeNoMedium)
	rs.err = stderrors.New("device busy")
	ctx := context.Background()

	w.Poll(ctx)
	assert.Equal(t, EventRemoved, w.Poll(ctx))
	assert.Equal(t, Absent, w.State())
	assert.Len(t, nt.got(), 2)
}

func TestRunSleepsOnlyWithoutTransition(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fc := clockwork.NewFakeClock()
	rs := &countingRescanner{}
	nt := &recordingNotifier{}
	src := &scriptedSource{
		kinds: []ProbeKind{ProbePresent, ProbePresent, ProbeNoMedium, ProbeNoMedium, ProbeError},
		done:  cancel,
	}
	w := New(newTestLogger(t), Config{
		Node:      "/dev/sr0",
		Source:    src,
		Rescanner: rs,
		Notifier:  nt,
		Clock:     fc,
	})

	sleeps := 0
	driverDone := make(chan struct{})
	go func() {
		defer close(driverDone)
		for {
			if err := fc.BlockUntilContext(ctx, 1); err != nil {
				return
			}
			sleeps++
			fc.Advance(constants.PresencePollInterval)
		}
	}()

	require.NoError(t, w.Run(ctx))
	<-driverDone

	assert.Equal(t, 3, sleeps)
	assert.Equal(t, []Event{EventInserted, EventRemoved}, nt.got())
	assert.Equal(t, 1, rs.count())
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w, _, nt := newScriptedWatchdog(t, ProbePresent)
	require.NoError(t, w.Run(ctx))
	assert.Empty(t, nt.got())
}

func TestNotificationsAlternate(t *testing.T) {
	l := newTestLogger(t)
	rapid.Check(t, func(rt *rapid.T) {
		kinds := rapid.SliceOf(rapid.SampledFrom([]ProbeKind{
			ProbePresent, ProbeNoMedium, ProbeError,
		})).Draw(rt, "probes")

		rs := &countingRescanner{}
		nt := &recordingNotifier{}
		w := New(l, Config{
			Node:      "/dev/sr0",
			Source:    &scriptedSource{kinds: kinds},
			Rescanner: rs,
			Notifier:  nt,
			Clock:     clockwork.NewFakeClock(),
		})

		for range kinds {
			w.Poll(context.Background())
		}

		removed := 0
		for i, ev := range nt.got() {
			want := EventInserted
			if i%2 == 1 {
				want = EventRemoved
				removed++
			}
			if ev != want {
				rt.Fatalf("notification %d: got %s, want %s", i, ev, want)
			}
		}
		if rs.count() != removed {
			rt.Fatalf("rescans %d, removals %d", rs.count(), removed)
		}
	})
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriterNotifier(&buf, newTestLogger(t))

	n.Notify("/dev/sr0", EventInserted)
	n.Notify("/dev/sr0", EventNone)
	n.Notify("/dev/sr0", EventRemoved)

	assert.Equal(t, "/dev/sr0: media inserted\n/dev/sr0: media removed\n", buf.String())
}

func TestDeviceSource(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "sda")
	require.NoError(t, os.WriteFile(present, nil, 0600))

	got := NewDeviceSource(present).Probe(context.Background())
	assert.Equal(t, ProbePresent, got.Kind)
	assert.NoError(t, got.Err)

	// A missing node is ambiguous, not "no medium".
	got = NewDeviceSource(filepath.Join(dir, "missing")).Probe(context.Background())
	assert.Equal(t, ProbeError, got.Kind)
	assert.ErrorIs(t, got.Err, os.ErrNotExist)
	assert.True(t, errors.HasCode(got.Err, errors.WatchdogProbeFailed))
}
