// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package constants

import "time"

// Build-time variables set via ldflags
var (
	Version   = "v0.0.1-dev" // Set via -X flag during build
	CommitSHA = "unknown"    // Set via -X flag during build
	BuildTime = "unknown"    // Set via -X flag during build
)

const (
	// config
	ConfigFileName = "hotplugd.yml"
	ConfigDir      = "/etc/hotplugd"
	ConfigEnvVar   = "HOTPLUGD_CONFIG"
	EnvPrefix      = "HOTPLUGD"

	// dispatch
	DefaultHandlerRoot   = "/etc/hotplug.d"
	DefaultHandlerSuffix = ".hotplug"
	DefaultHandlerDir    = "default"

	// devices
	DefaultDevDir         = "/dev"
	DefaultRunDir         = "/var/run"
	DefaultSupervisorName = "bdpoll"
	DefaultMountRoot      = "/autofs"
	RecordSuffix          = ".pid"

	// collaborators
	DefaultRelaySocket = "/tmp/hotplug.socket"
	DefaultFirmwareDir = "/lib/firmware"
	DefaultSysfsRoot   = "/sys"
)

// Event environment variables set by the kernel hotplug front end.
const (
	EnvAction        = "ACTION"
	EnvDevPath       = "DEVPATH"
	EnvMajor         = "MAJOR"
	EnvMinor         = "MINOR"
	EnvPhysDevPath   = "PHYSDEVPATH"
	EnvPhysDevDriver = "PHYSDEVDRIVER"
	EnvFirmware      = "FIRMWARE"

	// EnvEventID is exported by the dispatcher for log correlation.
	EnvEventID = "HOTPLUG_EVENT_ID"
)

const (
	// GraceWindow bounds how long a watchdog may take to exit after SIGTERM.
	GraceWindow = 1000 * time.Millisecond

	// ExitPollInterval is the spacing of non-blocking exit checks inside the
	// grace window.
	ExitPollInterval = 10 * time.Millisecond

	// PresencePollInterval is the watchdog sleep between probes that did not
	// change state.
	PresencePollInterval = 500 * time.Millisecond
)
