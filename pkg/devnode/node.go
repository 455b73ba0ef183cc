// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package devnode

import (
	"os"
)

// NodeMaker creates and removes device special files.
type NodeMaker interface {
	// MakeBlock creates a block special file at path, owner read/write
	// only, with the packed device number dev.
	MakeBlock(path string, dev uint64) error
	// Remove deletes path. A missing path returns an error satisfying
	// os.IsNotExist.
	Remove(path string) error
}

// SystemNodes implements NodeMaker with mknod(2) and unlink(2).
type SystemNodes struct{}

func (SystemNodes) Remove(path string) error {
	return os.Remove(path)
}
