// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package errors

import "maps"

// Hotplug Error Codes (2400-2499)
const (
	// Event Errors (2400-2409)
	HotplugMissingArgument = 2400 + iota // Handler invoked without subsystem
	HotplugMissingField                  // Required event field missing
	HotplugInvalidField                  // Event field malformed
)

const (
	// Dispatch Errors (2410-2419)
	HotplugDirScanFailed = 2410 + iota // Handler directory could not be read
	HotplugHandlerFailed               // Handler could not be run
)

const (
	// Device Node Errors (2420-2429)
	DeviceNodeCreateFailed = 2420 + iota // mknod failed
	DeviceNodeRemoveFailed               // unlink failed
	DeviceNodePathInvalid                // Device path has no base name
)

const (
	// Watchdog Errors (2430-2449)
	WatchdogSpawnFailed        = 2430 + iota // Watchdog could not be started
	WatchdogRecordReadFailed                 // Watchdog record missing or malformed
	WatchdogRecordWriteFailed                // Watchdog record could not be written
	WatchdogRecordRemoveFailed               // Watchdog record could not be removed
	WatchdogSignalFailed                     // Signal delivery to watchdog failed
	WatchdogWaitFailed                       // Exit check on watchdog failed
	WatchdogProbeFailed                      // Presence probe failed
	WatchdogRescanFailed                     // Partition table reread failed
)

const (
	// Collaborator Errors (2450-2459)
	RelayConnectFailed = 2450 + iota // Relay socket unreachable
	RelayWriteFailed                 // Relay socket write failed
	FirmwareLoadFailed               // Firmware could not be loaded
)

func init() {
	hotplugErrorDefinitions := map[ErrorCode]errorDefinition{
		HotplugMissingArgument: {"Handler expects a subsystem argument", DomainHotplug},
		HotplugMissingField:    {"Missing event environment variable", DomainHotplug},
		HotplugInvalidField:    {"Invalid event environment variable", DomainHotplug},

		HotplugDirScanFailed: {"Unable to read handler directory", DomainHotplug},
		HotplugHandlerFailed: {"Unable to run handler", DomainHotplug},

		DeviceNodeCreateFailed: {"Failed to create device node", DomainDevice},
		DeviceNodeRemoveFailed: {"Failed to remove device node", DomainDevice},
		DeviceNodePathInvalid:  {"Invalid device path", DomainDevice},

		WatchdogSpawnFailed:        {"Failed to start watchdog", DomainWatchdog},
		WatchdogRecordReadFailed:   {"Failed to read watchdog record", DomainWatchdog},
		WatchdogRecordWriteFailed:  {"Failed to write watchdog record", DomainWatchdog},
		WatchdogRecordRemoveFailed: {"Failed to remove watchdog record", DomainWatchdog},
		WatchdogSignalFailed:       {"Failed to signal watchdog", DomainWatchdog},
		WatchdogWaitFailed:         {"Failed to check watchdog exit", DomainWatchdog},
		WatchdogProbeFailed:        {"Presence probe failed", DomainWatchdog},
		WatchdogRescanFailed:       {"Partition table reread failed", DomainWatchdog},

		RelayConnectFailed: {"Could not connect relay socket", DomainHotplug},
		RelayWriteFailed:   {"Could not write relay socket", DomainHotplug},
		FirmwareLoadFailed: {"Failed to load firmware", DomainDevice},
	}

	maps.Copy(errorDefinitions, hotplugErrorDefinitions)
}
