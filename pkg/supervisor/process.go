// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"bytes"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

const defaultProcRoot = "/proc"

// ProcessControl is the OS surface the termination protocol needs.
type ProcessControl interface {
	// Signal delivers sig to pid.
	Signal(pid int, sig unix.Signal) error
	// Exited performs a non-blocking check for pid's exit.
	Exited(pid int) (bool, error)
}

// UnixProcessControl implements ProcessControl with kill(2) and wait4(2).
// The zero value reads process state from the host's /proc.
type UnixProcessControl struct {
	Fs       afero.Fs
	ProcRoot string
}

func (UnixProcessControl) Signal(pid int, sig unix.Signal) error {
	return unix.Kill(pid, sig)
}

// Exited reaps pid if it is our child. The remove flow usually runs in a
// process that did not spawn the watchdog, in which case wait4 reports
// ECHILD and liveness is checked with signal 0 instead. A zombie still
// answers signal 0, so its /proc state is consulted as well.
func (c UnixProcessControl) Exited(pid int) (bool, error) {
	var status unix.WaitStatus
	wpid, err := unix.Wait4(pid, &status, unix.WNOHANG, nil)
	switch {
	case err == unix.EINTR:
		return false, nil
	case err == unix.ECHILD:
		return c.nonChildExited(pid)
	case err != nil:
		return false, err
	case wpid == pid:
		return true, nil
	default:
		return false, nil
	}
}

func (c UnixProcessControl) nonChildExited(pid int) (bool, error) {
	switch err := unix.Kill(pid, 0); err {
	case nil, unix.EPERM:
		return c.zombie(pid), nil
	case unix.ESRCH:
		return true, nil
	default:
		return false, err
	}
}

// zombie reports whether /proc/<pid>/stat shows state Z. A missing or
// unreadable stat file counts as not a zombie.
func (c UnixProcessControl) zombie(pid int) bool {
	fs := c.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	root := c.ProcRoot
	if root == "" {
		root = defaultProcRoot
	}
	data, err := afero.ReadFile(fs, filepath.Join(root, strconv.Itoa(pid), "stat"))
	if err != nil {
		return false
	}
	state, ok := statState(data)
	return ok && state == 'Z'
}

// statState extracts the state field from a /proc/<pid>/stat line. The
// comm field is parenthesised and may itself contain spaces and ')', so
// the state is the first field after the last ')'.
func statState(data []byte) (byte, bool) {
	i := bytes.LastIndexByte(data, ')')
	if i < 0 {
		return 0, false
	}
	rest := bytes.TrimLeft(data[i+1:], " ")
	if len(rest) == 0 {
		return 0, false
	}
	return rest[0], true
}
