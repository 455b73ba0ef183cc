// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"github.com/spf13/cobra"
	"github.com/stratastor/hotplugd/internal/app"
	"github.com/stratastor/hotplugd/pkg/dispatch"
)

func NewDispatchCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch <subsystem>",
		Short: "Run the handlers registered for a subsystem event",
		Long: `Runs every executable handler in <root>/<subsystem> and then in
<root>/default, in lexical filename order. Handler failures are logged and
never change the exit status. Arguments after the subsystem are ignored,
and an unreadable configuration falls back to the built-in defaults.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.SetupOrDefault("dispatch")
			if err != nil {
				return err
			}

			d := dispatch.New(log, dispatch.Config{
				Root:       cfg.Dispatch.Root,
				DefaultDir: cfg.Dispatch.DefaultDir,
				Suffix:     cfg.Dispatch.Suffix,
			})

			res, err := d.Dispatch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			log.Debug("Dispatch finished",
				"subsystem", args[0],
				"event_id", res.EventID,
				"handlers", len(res.Ran),
				"failed", res.Failed)
			return nil
		},
	}
}
