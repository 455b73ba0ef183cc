// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stratastor/logger"
	"github.com/stretchr/testify/require"
)

func TestHandleSignals(t *testing.T) {
	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "test.lifecycle")
	require.NoError(t, err)

	ctx, stop := HandleSignals(context.Background(), l)
	defer stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
}

func TestHandleSignalsStop(t *testing.T) {
	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "test.lifecycle")
	require.NoError(t, err)

	ctx, stop := HandleSignals(context.Background(), l)
	stop()
	require.Error(t, ctx.Err())
}
