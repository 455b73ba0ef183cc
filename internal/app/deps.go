// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"github.com/spf13/afero"
	"github.com/stratastor/hotplugd/config"
	"github.com/stratastor/hotplugd/pkg/devnode"
	"github.com/stratastor/hotplugd/pkg/firmware"
	"github.com/stratastor/hotplugd/pkg/handler"
	"github.com/stratastor/hotplugd/pkg/lifecycle"
	"github.com/stratastor/hotplugd/pkg/relay"
	"github.com/stratastor/hotplugd/pkg/supervisor"
	"github.com/stratastor/logger"
)

// HandlerDeps wires the collaborators of the module-form handlers from cfg.
// Construction has no side effects; nothing touches the system until a
// handler runs.
func HandlerDeps(cfg *config.Config, l logger.Logger) (*handler.Deps, error) {
	fs := afero.NewOsFs()
	records := lifecycle.NewRecordStore(fs, cfg.RecordDir())

	spawner, err := supervisor.NewSpawner(l, cfg.Watchdog.Command, WatchdogApplet, cfg.Watchdog.LogFile)
	if err != nil {
		return nil, err
	}

	nodes := devnode.NewManager(l, devnode.ManagerConfig{
		DevDir:     cfg.Devices.DevDir,
		Spawner:    spawner,
		Records:    records,
		Terminator: supervisor.NewTerminator(l, records, nil, nil),
	})

	return &handler.Deps{
		Logger:    l,
		Fs:        fs,
		Nodes:     nodes,
		Relay:     relay.NewClient(cfg.Relay.Socket, cfg.Relay.Variables),
		Firmware:  firmware.NewLoader(l, fs, cfg.Firmware.Dir, cfg.Firmware.SysfsRoot),
		MountRoot: cfg.Devices.MountRoot,
	}, nil
}
