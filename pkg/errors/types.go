// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package errors

const (
	DomainConfig   Domain = "CONFIG"
	DomainCommand  Domain = "CMD"
	DomainHotplug  Domain = "HOTPLUG"
	DomainDevice   Domain = "DEVICE"
	DomainWatchdog Domain = "WATCHDOG"
	DomainMisc     Domain = "MISC"
	DomainSystem   Domain = "SYSTEM"
)

// ErrorCode represents unique error identifiers
type ErrorCode int

// Domain represents the subsystem where the error originated
type Domain string

type RodentError struct {
	Code    ErrorCode `json:"code"`
	Domain  Domain    `json:"domain"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`

	// Metadata carries structured context (paths, pids, signals) that is
	// useful in log lines but does not belong in the message.
	Metadata map[string]string `json:"metadata,omitempty"`

	cause error
}

type errorDefinition struct {
	message string
	domain  Domain
}

// Error code ranges:
// 1000-1099: Configuration errors
// 1300-1399: Command execution
// 1750-1799: System errors
// 2400-2499: Hotplug (see hotplug.go)
const (
	// Configuration Errors (1000-1099)
	ConfigLoadFailed      = 1000 + iota // Failed to load config
	ConfigWriteFailed                   // Failed to write config
	ConfigMarshalFailed                 // Config serialization failed
	ConfigUnmarshalFailed               // Config deserialization failed
)

const (
	// Command Execution (1300-1399)
	CommandNotFound     = 1300 + iota // Command not found
	CommandExecution                  // Command execution failed
	CommandInvalidInput               // Invalid command input
	CommandStart                      // Command failed to start
	CommandWait                       // Waiting for command failed
)

const (
	// System Errors (1750-1799)
	OperationFailed = 1750 + iota // Generic operation failed
)

var errorDefinitions = map[ErrorCode]errorDefinition{
	ConfigLoadFailed:      {"Failed to load configuration", DomainConfig},
	ConfigWriteFailed:     {"Failed to write configuration", DomainConfig},
	ConfigMarshalFailed:   {"Failed to serialize configuration", DomainConfig},
	ConfigUnmarshalFailed: {"Failed to deserialize configuration", DomainConfig},

	CommandNotFound:     {"Command not found", DomainCommand},
	CommandExecution:    {"Command execution failed", DomainCommand},
	CommandInvalidInput: {"Invalid command input", DomainCommand},
	CommandStart:        {"Command failed to start", DomainCommand},
	CommandWait:         {"Waiting for command failed", DomainCommand},

	OperationFailed: {"Operation failed", DomainSystem},
}
