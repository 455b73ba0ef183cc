// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package bdpoll

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/stratastor/hotplugd/internal/app"
	"github.com/stratastor/hotplugd/pkg/bdpoll"
	"github.com/stratastor/hotplugd/pkg/lifecycle"
	"github.com/stratastor/hotplugd/pkg/supervisor"
)

func NewBdpollCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "bdpoll <device-node>",
		Short: "Watch a block device node for media changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := supervisor.Adopt()
			if err != nil {
				return err
			}
			defer release()

			_, log, err := opts.Setup("bdpoll")
			if err != nil {
				return err
			}

			ctx, stop := lifecycle.HandleSignals(cmd.Context(), log)
			defer stop()

			w := bdpoll.New(log, bdpoll.Config{
				Node:     args[0],
				Notifier: bdpoll.NewWriterNotifier(os.Stdout, log),
			})
			return w.Run(ctx)
		},
	}
}
