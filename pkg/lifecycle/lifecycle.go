// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/stratastor/logger"
)

// ShutdownSignals are the signals that stop a long-running process.
var ShutdownSignals = []os.Signal{syscall.SIGTERM, syscall.SIGINT}

// HandleSignals returns a context that is cancelled when one of
// ShutdownSignals arrives. The returned stop function releases the signal
// registration and must be called once the process is done.
func HandleSignals(parent context.Context, l logger.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, ShutdownSignals...)

	go func() {
		select {
		case sig := <-stop:
			l.Info("shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(stop)
		cancel()
	}
}
