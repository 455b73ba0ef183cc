// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/stratastor/hotplugd/cmd/bdpoll"
	"github.com/stratastor/hotplugd/cmd/config"
	"github.com/stratastor/hotplugd/cmd/dispatch"
	"github.com/stratastor/hotplugd/cmd/module"
	"github.com/stratastor/hotplugd/cmd/version"
	"github.com/stratastor/hotplugd/internal/app"
)

func NewRootCmd() *cobra.Command {
	opts := &app.Options{}

	rootCmd := &cobra.Command{
		Use:           "hotplugd",
		Short:         "hotplugd: hotplug event dispatcher and block device supervisor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(dispatch.NewDispatchCmd(opts))
	rootCmd.AddCommand(bdpoll.NewBdpollCmd(opts))
	rootCmd.AddCommand(module.NewModuleCmd(opts))
	rootCmd.AddCommand(config.NewConfigCmd(opts))
	rootCmd.AddCommand(version.NewVersionCmd())

	return rootCmd
}
