// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package module

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/stratastor/hotplugd/internal/app"
	"github.com/stratastor/hotplugd/pkg/handler"
)

func NewModuleCmd(opts *app.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module",
		Short: "Run a built-in handler",
	}

	for _, kind := range handler.Kinds() {
		cmd.AddCommand(newKindCmd(opts, kind))
	}
	return cmd
}

func newKindCmd(opts *app.Options, kind string) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " <subsystem>",
		Short: "Handle an event with the " + kind + " handler",
		// Argument count is part of the handler contract, not cobra's.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A foreign subsystem is a no-op whatever the configuration holds.
			ok, err := handler.Applies(kind, args)
			if err != nil || !ok {
				return err
			}

			cfg, log, err := opts.Setup("module." + kind)
			if err != nil {
				return err
			}

			deps, err := app.HandlerDeps(cfg, log)
			if err != nil {
				return err
			}
			h, err := handler.New(kind, deps)
			if err != nil {
				return err
			}

			if err := handler.Run(cmd.Context(), log, h, args, os.LookupEnv); err != nil {
				log.Error("Handler failed", "kind", kind, "err", err)
				return err
			}
			return nil
		},
	}
}
