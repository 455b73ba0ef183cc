// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package handler

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/stratastor/hotplugd/pkg/errors"
	"github.com/stratastor/hotplugd/pkg/hotplug"
	"github.com/stratastor/logger"
)

const subsystemBlock = "block"

func init() {
	Register("block", subsystemBlock, newBlock)
	Register("block_relay", subsystemBlock, newBlockRelay)
}

// Block manages device nodes and their watchdogs. When the UI has a mount
// point for the disk, the event is relayed as well.
type Block struct {
	logger    logger.Logger
	fs        afero.Fs
	nodes     NodeManager
	relay     Relayer
	mountRoot string
}

func newBlock(d *Deps) (Handler, error) {
	if d.Nodes == nil {
		return nil, errors.New(errors.CommandInvalidInput, "block handler requires a node manager")
	}
	fs := d.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Block{
		logger:    d.Logger,
		fs:        fs,
		nodes:     d.Nodes,
		relay:     d.Relay,
		mountRoot: d.MountRoot,
	}, nil
}

func (b *Block) Subsystem() string { return subsystemBlock }

func (b *Block) OnAdd(ctx context.Context, lookup hotplug.LookupFunc) error {
	ev, err := hotplug.ReadAddEvent(subsystemBlock, lookup)
	if err != nil {
		return err
	}
	node, err := b.nodes.Add(ev)
	if err != nil {
		return err
	}

	if b.mountRoot == "" {
		return nil
	}
	mnt := filepath.Join(b.mountRoot, filepath.Base(node.Path))
	if ok, _ := afero.IsDir(b.fs, mnt); ok {
		b.forward(ctx, lookup)
	}
	return nil
}

func (b *Block) OnRemove(ctx context.Context, lookup hotplug.LookupFunc) error {
	ev, err := hotplug.ReadRemoveEvent(subsystemBlock, lookup)
	if err != nil {
		return err
	}
	if err := b.nodes.Remove(ev); err != nil {
		return err
	}
	b.forward(ctx, lookup)
	return nil
}

func (b *Block) forward(ctx context.Context, lookup hotplug.LookupFunc) {
	if b.relay == nil {
		return
	}
	if err := b.relay.Send(ctx, lookup); err != nil {
		b.logger.Debug("Relay unavailable", "err", err)
	}
}

// BlockRelay only relays block events.
type BlockRelay struct {
	relay Relayer
}

func newBlockRelay(d *Deps) (Handler, error) {
	if d.Relay == nil {
		return nil, errors.New(errors.CommandInvalidInput, "block_relay handler requires a relay")
	}
	return &BlockRelay{relay: d.Relay}, nil
}

func (b *BlockRelay) Subsystem() string { return subsystemBlock }

func (b *BlockRelay) OnAdd(ctx context.Context, lookup hotplug.LookupFunc) error {
	return b.relay.Send(ctx, lookup)
}

func (b *BlockRelay) OnRemove(ctx context.Context, lookup hotplug.LookupFunc) error {
	return b.relay.Send(ctx, lookup)
}
