// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package hotplug

import (
	"path"
	"path/filepath"
	"strconv"

	"github.com/stratastor/hotplugd/internal/constants"
	"github.com/stratastor/hotplugd/pkg/errors"
)

// ReadAction returns the ACTION variable. Unknown values are returned as-is
// so the caller can treat them as a no-op.
func ReadAction(lookup LookupFunc) (Action, error) {
	action, ok := lookup(constants.EnvAction)
	if !ok {
		return "", missing(constants.EnvAction)
	}
	return Action(action), nil
}

// ReadAddEvent reads the variables an add event requires: DEVPATH, MINOR and
// MAJOR, checked in that order.
func ReadAddEvent(subsystem string, lookup LookupFunc) (*DeviceEvent, error) {
	devPath, ok := lookup(constants.EnvDevPath)
	if !ok {
		return nil, missing(constants.EnvDevPath)
	}

	minor, err := readNumber(lookup, constants.EnvMinor)
	if err != nil {
		return nil, err
	}

	major, err := readNumber(lookup, constants.EnvMajor)
	if err != nil {
		return nil, err
	}

	return &DeviceEvent{
		Subsystem: subsystem,
		Action:    ActionAdd,
		DevPath:   devPath,
		Major:     major,
		Minor:     minor,
	}, nil
}

// ReadRemoveEvent reads the variables a remove event requires: DEVPATH.
func ReadRemoveEvent(subsystem string, lookup LookupFunc) (*DeviceEvent, error) {
	devPath, ok := lookup(constants.EnvDevPath)
	if !ok {
		return nil, missing(constants.EnvDevPath)
	}

	return &DeviceEvent{
		Subsystem: subsystem,
		Action:    ActionRemove,
		DevPath:   devPath,
	}, nil
}

func readNumber(lookup LookupFunc, key string) (uint32, error) {
	raw, ok := lookup(key)
	if !ok {
		return 0, missing(key)
	}

	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.Wrap(err, errors.HotplugInvalidField).
			WithMetadata("variable", key).
			WithMetadata("value", raw)
	}
	return uint32(n), nil
}

func missing(key string) error {
	return errors.New(errors.HotplugMissingField, key).
		WithMetadata("variable", key)
}

// NodeName returns the base name of the kernel device path.
func NodeName(devPath string) (string, error) {
	name := path.Base(devPath)
	if name == "." || name == "/" || name == "" {
		return "", errors.New(errors.DeviceNodePathInvalid, devPath).
			WithMetadata("devpath", devPath)
	}
	return name, nil
}

// NodePath maps a kernel device path to its node under devDir.
func NodePath(devDir, devPath string) (string, error) {
	name, err := NodeName(devPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(devDir, name), nil
}

// IsWholeDisk reports whether nodePath names a whole disk rather than a
// partition. Partitions end in a decimal digit.
func IsWholeDisk(nodePath string) bool {
	if nodePath == "" {
		return false
	}
	last := nodePath[len(nodePath)-1]
	return last < '0' || last > '9'
}

// DeviceNumber packs major and minor the way the node manager passes them to
// mknod: (major << 8) | minor.
func DeviceNumber(major, minor uint32) uint64 {
	return uint64(major)<<8 | uint64(minor)
}

// Node describes the special file for e under devDir.
func (e *DeviceEvent) Node(devDir string) (*DeviceNode, error) {
	p, err := NodePath(devDir, e.DevPath)
	if err != nil {
		return nil, err
	}
	return &DeviceNode{
		Path:        p,
		Major:       e.Major,
		Minor:       e.Minor,
		IsWholeDisk: IsWholeDisk(p),
	}, nil
}

// MapLookup serves event variables from m.
func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}
