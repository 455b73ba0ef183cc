// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package devnode

import (
	"github.com/stratastor/hotplugd/pkg/errors"
)

func (SystemNodes) MakeBlock(path string, dev uint64) error {
	return errors.New(errors.OperationFailed, "block device nodes are only supported on linux").
		WithMetadata("path", path)
}
