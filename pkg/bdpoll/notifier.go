// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package bdpoll

import (
	"fmt"
	"io"
	"sync"

	"github.com/stratastor/logger"
)

// Notifier delivers media presence transitions.
type Notifier interface {
	Notify(node string, ev Event)
}

// WriterNotifier prints one line per transition to w and mirrors it to the
// logger.
type WriterNotifier struct {
	mu     sync.Mutex
	w      io.Writer
	logger logger.Logger
}

func NewWriterNotifier(w io.Writer, l logger.Logger) *WriterNotifier {
	return &WriterNotifier{w: w, logger: l}
}

func (n *WriterNotifier) Notify(node string, ev Event) {
	var msg string
	switch ev {
	case EventInserted:
		msg = "media inserted"
	case EventRemoved:
		msg = "media removed"
	default:
		return
	}

	n.mu.Lock()
	fmt.Fprintf(n.w, "%s: %s\n", node, msg)
	n.mu.Unlock()

	if n.logger != nil {
		n.logger.Info(msg, "node", node)
	}
}
