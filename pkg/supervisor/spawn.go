// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"os/exec"
	"strings"
	"syscall"

	"github.com/kballard/go-shellquote"
	"github.com/sevlyar/go-daemon"
	"github.com/stratastor/hotplugd/pkg/errors"
	"github.com/stratastor/logger"
)

// Spawner starts a watchdog for a device node and returns its pid. The
// watchdog must outlive the calling process.
type Spawner interface {
	Spawn(nodePath string) (int, error)
}

// DaemonSpawner re-executes the running binary as a detached applet using
// go-daemon. The child has to complete the handshake with Reborn; see
// Adopt.
type DaemonSpawner struct {
	logger  logger.Logger
	applet  string
	logFile string
}

// NewDaemonSpawner creates a spawner that starts "<applet> <node>". Output of
// the child goes to logFile, or /dev/null when empty.
func NewDaemonSpawner(l logger.Logger, applet, logFile string) *DaemonSpawner {
	return &DaemonSpawner{logger: l, applet: applet, logFile: logFile}
}

func (s *DaemonSpawner) context(nodePath string) *daemon.Context {
	return &daemon.Context{
		LogFileName: s.logFile,
		LogFilePerm: 0640,
		WorkDir:     "/",
		Umask:       027,
		Args:        []string{s.applet, nodePath},
	}
}

func (s *DaemonSpawner) Spawn(nodePath string) (int, error) {
	child, err := s.context(nodePath).Reborn()
	if err != nil {
		return 0, errors.Wrap(err, errors.WatchdogSpawnFailed).
			WithMetadata("node", nodePath).
			WithMetadata("applet", s.applet)
	}
	if child == nil {
		// Reborn only returns a nil process inside a daemon child, which
		// never runs the add flow.
		return 0, errors.New(errors.WatchdogSpawnFailed, "spawned from within a daemon child").
			WithMetadata("node", nodePath)
	}

	s.logger.Debug("watchdog spawned", "node", nodePath, "pid", child.Pid)
	return child.Pid, nil
}

// Adopt completes the go-daemon handshake in a child started by
// DaemonSpawner. It is a no-op in processes that were not reborn. The
// returned release function must be called before exit.
func Adopt() (release func(), err error) {
	if !daemon.WasReborn() {
		return func() {}, nil
	}

	dctx := &daemon.Context{}
	if _, err := dctx.Reborn(); err != nil {
		return nil, errors.Wrap(err, errors.WatchdogSpawnFailed).
			WithMetadata("stage", "child_handshake")
	}
	return func() { _ = dctx.Release() }, nil
}

// CommandSpawner starts a configured command line with the node path
// appended, in its own session so it survives the handler.
type CommandSpawner struct {
	logger logger.Logger
	argv   []string
}

// NewCommandSpawner parses cmdline with shell quoting rules.
func NewCommandSpawner(l logger.Logger, cmdline string) (*CommandSpawner, error) {
	argv, err := shellquote.Split(cmdline)
	if err != nil {
		return nil, errors.Wrap(err, errors.CommandInvalidInput).
			WithMetadata("command", cmdline)
	}
	if len(argv) == 0 {
		return nil, errors.New(errors.CommandInvalidInput, "empty watchdog command")
	}
	return &CommandSpawner{logger: l, argv: argv}, nil
}

// Argv returns the parsed command without the node path.
func (s *CommandSpawner) Argv() []string {
	return append([]string(nil), s.argv...)
}

func (s *CommandSpawner) Spawn(nodePath string) (int, error) {
	args := append(s.Argv(), nodePath)
	cmdString := strings.Join(args, " ")

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = "/"
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, errors.Wrap(err, errors.WatchdogSpawnFailed).
			WithMetadata("command", cmdString)
	}

	pid := cmd.Process.Pid
	// Ownership passes to the record; nobody in this process waits for it.
	if err := cmd.Process.Release(); err != nil {
		s.logger.Warn("failed to release watchdog process", "pid", pid, "err", err)
	}

	s.logger.Debug("watchdog spawned", "cmd", cmdString, "pid", pid)
	return pid, nil
}

// NewSpawner picks the spawner for a configured watchdog command. An empty
// command re-executes the running binary as applet.
func NewSpawner(l logger.Logger, command, applet, logFile string) (Spawner, error) {
	if strings.TrimSpace(command) == "" {
		return NewDaemonSpawner(l, applet, logFile), nil
	}
	return NewCommandSpawner(l, command)
}
