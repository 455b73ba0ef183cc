// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package bdpoll

import (
	"github.com/stratastor/hotplugd/pkg/errors"
)

func isNoMedium(error) bool {
	return false
}

// BlockRescanner is unsupported off linux.
type BlockRescanner struct{}

func (BlockRescanner) Rescan(path string) error {
	return errors.New(errors.WatchdogRescanFailed, "partition rescan is only supported on linux").
		WithMetadata("path", path)
}
