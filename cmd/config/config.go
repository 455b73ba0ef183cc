// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stratastor/hotplugd/config"
	"github.com/stratastor/hotplugd/internal/app"
)

func NewConfigCmd(opts *app.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage hotplugd configuration",
	}

	cmd.AddCommand(NewPrintConfigCmd(opts))
	cmd.AddCommand(NewInitConfigCmd(opts))
	return cmd
}

func NewPrintConfigCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Load()
			if err != nil {
				return err
			}

			ymlData, err := config.Marshal(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if p := cfg.Path(); p != "" {
				fmt.Fprintf(out, "# loaded from %s\n", p)
			} else {
				fmt.Fprintln(out, "# defaults, no configuration file found")
			}
			fmt.Fprint(out, string(ymlData))
			return nil
		},
	}
}

func NewInitConfigCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write the effective configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Load()
			if err != nil {
				return err
			}

			path := config.ResolvePath(opts.ConfigPath)
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to: %s\n", path)
			return nil
		},
	}
}
