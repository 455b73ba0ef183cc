// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package bdpoll

import (
	stderrors "errors"

	"github.com/stratastor/hotplugd/pkg/errors"
	"golang.org/x/sys/unix"
)

func isNoMedium(err error) bool {
	return stderrors.Is(err, unix.ENOMEDIUM)
}

// BlockRescanner asks the kernel to reread a disk's partition table.
type BlockRescanner struct{}

func (BlockRescanner) Rescan(path string) error {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return errors.Wrap(err, errors.WatchdogRescanFailed).
			WithMetadata("path", path).
			WithMetadata("stage", "open")
	}
	defer unix.Close(fd)

	if err := unix.IoctlSetInt(fd, unix.BLKRRPART, 0); err != nil {
		return errors.Wrap(err, errors.WatchdogRescanFailed).
			WithMetadata("path", path).
			WithMetadata("stage", "ioctl")
	}
	return nil
}
