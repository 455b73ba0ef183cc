// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/stratastor/hotplugd/cmd"
	"github.com/stratastor/hotplugd/internal/app"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	rootCmd.SetArgs(app.Args(os.Args))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", rootCmd.Name(), err)
		os.Exit(1)
	}
}
