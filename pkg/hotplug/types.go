// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package hotplug models the events handed to hotplug handlers.
//
// # Overview
//
// An upstream front end turns a kernel uevent into a subsystem name (the
// handler's only argument) plus a set of environment variables. Handlers read
// those variables once at start-up; the resulting DeviceEvent is immutable for
// the rest of the invocation.
//
// # Device nodes
//
// The node path is derived from the base name of DEVPATH:
//
//	DEVPATH=/block/sda       → /dev/sda   (whole disk)
//	DEVPATH=/block/sda/sda1  → /dev/sda1  (partition)
//
// A node whose path ends in a decimal digit is a partition and never gets a
// watchdog.
package hotplug

// Action represents a hotplug event action
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

// LookupFunc resolves an event variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// DeviceEvent is a hotplug event for a block device.
type DeviceEvent struct {
	Subsystem string // Subsystem passed as the handler argument (e.g., block)
	Action    Action // Event action
	DevPath   string // Kernel device path (e.g., /block/sda)
	Major     uint32 // Major number, add only
	Minor     uint32 // Minor number, add only
}

// DeviceNode is the special file created for a DeviceEvent.
type DeviceNode struct {
	Path        string
	Major       uint32
	Minor       uint32
	IsWholeDisk bool
}
