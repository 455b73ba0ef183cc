// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package relay forwards hotplug event variables to the UI process over a
// unix stream socket. Each present variable's value is written followed by
// a NUL byte, in the configured order; absent variables are skipped.
package relay

import (
	"bytes"
	"context"
	"net"
	"time"

	"github.com/stratastor/hotplugd/internal/constants"
	"github.com/stratastor/hotplugd/pkg/errors"
	"github.com/stratastor/hotplugd/pkg/hotplug"
)

const defaultTimeout = 2 * time.Second

// DefaultVariables are relayed when no list is configured.
var DefaultVariables = []string{
	constants.EnvAction,
	constants.EnvDevPath,
	constants.EnvPhysDevPath,
	constants.EnvPhysDevDriver,
}

type Client struct {
	socket    string
	variables []string
	timeout   time.Duration
	dialer    net.Dialer
}

func NewClient(socket string, variables []string) *Client {
	if len(variables) == 0 {
		variables = DefaultVariables
	}
	return &Client{
		socket:    socket,
		variables: variables,
		timeout:   defaultTimeout,
	}
}

// Encode returns the payload Send would write.
func Encode(variables []string, lookup hotplug.LookupFunc) []byte {
	var buf bytes.Buffer
	for _, name := range variables {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		buf.WriteString(v)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// Send connects to the relay socket and writes the event variables.
func (c *Client) Send(ctx context.Context, lookup hotplug.LookupFunc) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, "unix", c.socket)
	if err != nil {
		return errors.Wrap(err, errors.RelayConnectFailed).
			WithMetadata("socket", c.socket)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	if _, err := conn.Write(Encode(c.variables, lookup)); err != nil {
		return errors.Wrap(err, errors.RelayWriteFailed).
			WithMetadata("socket", c.socket)
	}
	return nil
}
