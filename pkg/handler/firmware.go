// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"context"

	"github.com/stratastor/hotplugd/internal/constants"
	"github.com/stratastor/hotplugd/pkg/errors"
	"github.com/stratastor/hotplugd/pkg/hotplug"
)

const subsystemFirmware = "firmware"

func init() {
	Register("firmware", subsystemFirmware, newFirmware)
}

// Firmware answers kernel firmware requests.
type Firmware struct {
	loader FirmwareLoader
}

func newFirmware(d *Deps) (Handler, error) {
	if d.Firmware == nil {
		return nil, errors.New(errors.CommandInvalidInput, "firmware handler requires a loader")
	}
	return &Firmware{loader: d.Firmware}, nil
}

func (f *Firmware) Subsystem() string { return subsystemFirmware }

func (f *Firmware) OnAdd(ctx context.Context, lookup hotplug.LookupFunc) error {
	devPath, ok := lookup(constants.EnvDevPath)
	if !ok {
		return errors.New(errors.HotplugMissingField, constants.EnvDevPath).
			WithMetadata("variable", constants.EnvDevPath)
	}
	name, ok := lookup(constants.EnvFirmware)
	if !ok {
		return errors.New(errors.HotplugMissingField, constants.EnvFirmware).
			WithMetadata("variable", constants.EnvFirmware)
	}
	return f.loader.Load(devPath, name)
}

func (f *Firmware) OnRemove(context.Context, hotplug.LookupFunc) error {
	return nil
}
