// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package bdpoll

import (
	"context"
	"os"

	"github.com/stratastor/hotplugd/pkg/errors"
)

// ProbeKind classifies one presence probe.
type ProbeKind int

const (
	ProbePresent  ProbeKind = iota // Node opened for reading
	ProbeNoMedium                  // Open failed with "no medium found"
	ProbeError                     // Any other failure
)

// Probe is the result of asking a PresenceSource about the medium.
type Probe struct {
	Kind ProbeKind
	Err  error // Set for ProbeNoMedium and ProbeError
}

// PresenceSource reports whether a medium is present. The watchdog polls
// it; a notification-driven source can block in Probe instead.
type PresenceSource interface {
	Probe(ctx context.Context) Probe
}

// DeviceSource probes by opening the device node read-only.
type DeviceSource struct {
	path string
}

// NewDeviceSource creates a source for the node at path.
func NewDeviceSource(path string) *DeviceSource {
	return &DeviceSource{path: path}
}

func (s *DeviceSource) Probe(ctx context.Context) Probe {
	f, err := os.Open(s.path)
	if err == nil {
		f.Close()
		return Probe{Kind: ProbePresent}
	}
	if isNoMedium(err) {
		return Probe{Kind: ProbeNoMedium, Err: err}
	}
	return Probe{
		Kind: ProbeError,
		Err:  errors.Wrap(err, errors.WatchdogProbeFailed).WithMetadata("path", s.path),
	}
}
