// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"context"

	"github.com/spf13/afero"
	"github.com/stratastor/hotplugd/pkg/hotplug"
	"github.com/stratastor/logger"
)

// NodeManager creates and removes device nodes.
type NodeManager interface {
	Add(ev *hotplug.DeviceEvent) (*hotplug.DeviceNode, error)
	Remove(ev *hotplug.DeviceEvent) error
}

// Relayer forwards event variables to the UI process.
type Relayer interface {
	Send(ctx context.Context, lookup hotplug.LookupFunc) error
}

// FirmwareLoader answers a firmware request.
type FirmwareLoader interface {
	Load(devPath, name string) error
}

// Deps carries what the handler kinds need. Each kind uses only its own
// subset.
type Deps struct {
	Logger    logger.Logger
	Fs        afero.Fs
	Nodes     NodeManager
	Relay     Relayer
	Firmware  FirmwareLoader
	MountRoot string
}
