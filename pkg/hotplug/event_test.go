// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package hotplug

import (
	"testing"

	"github.com/stratastor/hotplugd/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAddEvent(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantCode errors.ErrorCode
		want     *DeviceEvent
	}{
		{
			name: "whole disk",
			env:  map[string]string{"DEVPATH": "/block/sda", "MAJOR": "8", "MINOR": "0"},
			want: &DeviceEvent{Subsystem: "block", Action: ActionAdd, DevPath: "/block/sda", Major: 8},
		},
		{
			name: "partition",
			env:  map[string]string{"DEVPATH": "/block/sda/sda1", "MAJOR": "8", "MINOR": "1"},
			want: &DeviceEvent{
				Subsystem: "block",
				Action:    ActionAdd,
				DevPath:   "/block/sda/sda1",
				Major:     8,
				Minor:     1,
			},
		},
		{
			name:     "missing devpath",
			env:      map[string]string{"MAJOR": "8", "MINOR": "0"},
			wantCode: errors.HotplugMissingField,
		},
		{
			name:     "missing minor",
			env:      map[string]string{"DEVPATH": "/block/sda", "MAJOR": "8"},
			wantCode: errors.HotplugMissingField,
		},
		{
			name:     "missing major",
			env:      map[string]string{"DEVPATH": "/block/sda", "MINOR": "0"},
			wantCode: errors.HotplugMissingField,
		},
		{
			name:     "malformed major",
			env:      map[string]string{"DEVPATH": "/block/sda", "MAJOR": "eight", "MINOR": "0"},
			wantCode: errors.HotplugInvalidField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ReadAddEvent("block", MapLookup(tt.env))
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.wantCode), "unexpected error: %v", err)
				assert.Nil(t, ev)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev)
		})
	}
}

func TestReadRemoveEvent(t *testing.T) {
	ev, err := ReadRemoveEvent("block", MapLookup(map[string]string{"DEVPATH": "/block/sdb"}))
	require.NoError(t, err)
	assert.Equal(t, ActionRemove, ev.Action)
	assert.Equal(t, "/block/sdb", ev.DevPath)

	_, err = ReadRemoveEvent("block", MapLookup(nil))
	assert.True(t, errors.HasCode(err, errors.HotplugMissingField))
}

func TestReadAction(t *testing.T) {
	a, err := ReadAction(MapLookup(map[string]string{"ACTION": "change"}))
	require.NoError(t, err)
	assert.Equal(t, Action("change"), a)

	_, err = ReadAction(MapLookup(map[string]string{}))
	assert.True(t, errors.HasCode(err, errors.HotplugMissingField))
}

func TestNodePath(t *testing.T) {
	p, err := NodePath("/dev", "/block/sda")
	require.NoError(t, err)
	assert.Equal(t, "/dev/sda", p)

	p, err = NodePath("/dev", "/block/mmcblk0/mmcblk0p2")
	require.NoError(t, err)
	assert.Equal(t, "/dev/mmcblk0p2", p)

	_, err = NodePath("/dev", "/")
	assert.True(t, errors.HasCode(err, errors.DeviceNodePathInvalid))
}

func TestIsWholeDisk(t *testing.T) {
	assert.True(t, IsWholeDisk("/dev/sda"))
	assert.True(t, IsWholeDisk("/dev/sr"))
	assert.False(t, IsWholeDisk("/dev/sda1"))
	assert.False(t, IsWholeDisk("/dev/mmcblk0"))
	assert.False(t, IsWholeDisk(""))
}

func TestDeviceNumber(t *testing.T) {
	assert.Equal(t, uint64(8<<8|0), DeviceNumber(8, 0))
	assert.Equal(t, uint64(0x0811), DeviceNumber(8, 17))
}

func TestEventNode(t *testing.T) {
	ev := &DeviceEvent{DevPath: "/block/sdc/sdc3", Major: 8, Minor: 35}
	n, err := ev.Node("/dev")
	require.NoError(t, err)
	assert.Equal(t, &DeviceNode{Path: "/dev/sdc3", Major: 8, Minor: 35, IsWholeDisk: false}, n)
}
