// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package app holds process-level glue shared by the commands: applet
// names, flag handling and dependency wiring.
package app

import "path/filepath"

// WatchdogApplet is the name the watchdog runs under when the binary
// re-executes itself.
const WatchdogApplet = "bdpoll"

// applets maps an invocation name to the subcommand path it stands for, so
// the binary can be installed as several links.
var applets = map[string][]string{
	"hotplug":            {"dispatch"},
	WatchdogApplet:       {"bdpoll"},
	"module_block":       {"module", "block"},
	"module_block_relay": {"module", "block_relay"},
	"module_firmware":    {"module", "firmware"},
}

// Args returns the subcommand arguments for argv. Invocations under an
// applet name are rewritten to the matching subcommand; anything else is
// passed through.
func Args(argv []string) []string {
	if len(argv) == 0 {
		return nil
	}
	rest := argv[1:]
	sub, ok := applets[filepath.Base(argv[0])]
	if !ok {
		return rest
	}
	out := make([]string, 0, len(sub)+len(rest))
	out = append(out, sub...)
	return append(out, rest...)
}
