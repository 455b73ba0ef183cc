// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package devnode

import (
	"golang.org/x/sys/unix"
)

func (SystemNodes) MakeBlock(path string, dev uint64) error {
	return unix.Mknod(path, unix.S_IFBLK|unix.S_IRUSR|unix.S_IWUSR, int(dev))
}
