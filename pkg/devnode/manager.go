// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package devnode creates and removes block device nodes and ties each
// whole-disk node to a media presence watchdog.
//
// Add and remove are not transactional. A failed watchdog spawn leaves the
// freshly created node in place. A watchdog whose record cannot be written
// is killed at once, since no remove could find it later. A remove deletes
// the node before it tears down the watchdog, so a missing record fails the
// remove after the node is already gone.
package devnode

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stratastor/hotplugd/pkg/errors"
	"github.com/stratastor/hotplugd/pkg/hotplug"
	"github.com/stratastor/hotplugd/pkg/lifecycle"
	"github.com/stratastor/hotplugd/pkg/supervisor"
	"github.com/stratastor/logger"
	"golang.org/x/sys/unix"
)

// Terminator stops the watchdog recorded under a key.
type Terminator interface {
	Terminate(key string) (supervisor.Outcome, error)
}

// Manager implements the add and remove flows for block device nodes.
type Manager struct {
	logger     logger.Logger
	devDir     string
	nodes      NodeMaker
	spawner    supervisor.Spawner
	records    *lifecycle.RecordStore
	terminator Terminator
	procs      supervisor.ProcessControl
}

// ManagerConfig holds the collaborators of a Manager.
type ManagerConfig struct {
	DevDir     string
	Nodes      NodeMaker
	Spawner    supervisor.Spawner
	Records    *lifecycle.RecordStore
	Terminator Terminator
	Procs      supervisor.ProcessControl
}

// NewManager creates a Manager. A nil Nodes selects SystemNodes and a nil
// Procs selects supervisor.UnixProcessControl.
func NewManager(l logger.Logger, cfg ManagerConfig) *Manager {
	nodes := cfg.Nodes
	if nodes == nil {
		nodes = SystemNodes{}
	}
	procs := cfg.Procs
	if procs == nil {
		procs = supervisor.UnixProcessControl{}
	}
	return &Manager{
		logger:     l,
		devDir:     cfg.DevDir,
		nodes:      nodes,
		spawner:    cfg.Spawner,
		records:    cfg.Records,
		terminator: cfg.Terminator,
		procs:      procs,
	}
}

// Add (re)creates the node for ev and starts a watchdog for whole disks.
func (m *Manager) Add(ev *hotplug.DeviceEvent) (*hotplug.DeviceNode, error) {
	node, err := ev.Node(m.devDir)
	if err != nil {
		return nil, err
	}

	if err := m.nodes.Remove(node.Path); err != nil && !os.IsNotExist(err) {
		m.logger.Debug("failed to remove stale node", "path", node.Path, "err", err)
	}

	dev := hotplug.DeviceNumber(node.Major, node.Minor)
	if err := m.nodes.MakeBlock(node.Path, dev); err != nil {
		return nil, errors.Wrap(err, errors.DeviceNodeCreateFailed).
			WithMetadata("path", node.Path).
			WithMetadata("major", fmt.Sprint(node.Major)).
			WithMetadata("minor", fmt.Sprint(node.Minor))
	}

	m.logger.Info("device node created",
		"path", node.Path,
		"major", node.Major,
		"minor", node.Minor,
		"whole_disk", node.IsWholeDisk)

	if !node.IsWholeDisk {
		return node, nil
	}

	pid, err := m.spawner.Spawn(node.Path)
	if err != nil {
		m.logger.Error("could not start watchdog, node left in place", "path", node.Path, "err", err)
		return node, err
	}

	key := filepath.Base(node.Path)
	if err := m.records.Write(key, pid); err != nil {
		m.logger.Error("could not record watchdog, killing it", "path", node.Path, "pid", pid, "err", err)
		if kerr := m.procs.Signal(pid, unix.SIGKILL); kerr != nil {
			m.logger.Warn("failed to kill unrecorded watchdog", "pid", pid, "err", kerr)
		}
		return node, err
	}

	m.logger.Info("watchdog started", "path", node.Path, "pid", pid, "record", m.records.Path(key))
	return node, nil
}

// Remove deletes the node for ev and stops its watchdog for whole disks.
func (m *Manager) Remove(ev *hotplug.DeviceEvent) error {
	nodePath, err := hotplug.NodePath(m.devDir, ev.DevPath)
	if err != nil {
		return err
	}

	if err := m.nodes.Remove(nodePath); err != nil {
		if os.IsNotExist(err) {
			m.logger.Debug("device node already gone", "path", nodePath)
		} else {
			m.logger.Warn("failed to remove device node",
				"path", nodePath,
				"err", errors.Wrap(err, errors.DeviceNodeRemoveFailed))
		}
	} else {
		m.logger.Info("device node removed", "path", nodePath)
	}

	if !hotplug.IsWholeDisk(nodePath) {
		return nil
	}

	key := filepath.Base(nodePath)
	outcome, err := m.terminator.Terminate(key)
	if err != nil {
		m.logger.Error("could not stop watchdog", "path", nodePath, "err", err)
		return err
	}

	m.logger.Info("watchdog stopped", "path", nodePath, "outcome", string(outcome))
	return nil
}
