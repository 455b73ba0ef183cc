// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package handler holds the module-form handlers invoked by the dispatcher.
// Every kind shares one entry point, Run, which validates the invocation
// and routes the event's action to the kind's add or remove step.
package handler

import (
	"context"
	"fmt"
	"sort"

	"github.com/stratastor/hotplugd/pkg/errors"
	"github.com/stratastor/hotplugd/pkg/hotplug"
	"github.com/stratastor/logger"
)

// Handler is one handler kind.
type Handler interface {
	// Subsystem is the tag an invocation's argument must equal.
	Subsystem() string
	OnAdd(ctx context.Context, lookup hotplug.LookupFunc) error
	OnRemove(ctx context.Context, lookup hotplug.LookupFunc) error
}

// Run executes h for one invocation. It returns nil when the event was
// handled or deliberately ignored (foreign subsystem, unknown action), and
// an error when the invocation is malformed or a step failed.
func Run(ctx context.Context, l logger.Logger, h Handler, args []string, lookup hotplug.LookupFunc) error {
	if err := checkArgs(args); err != nil {
		return err
	}
	if args[0] != h.Subsystem() {
		l.Debug("Ignoring foreign subsystem", "subsystem", args[0], "handles", h.Subsystem())
		return nil
	}

	action, err := hotplug.ReadAction(lookup)
	if err != nil {
		return err
	}

	switch action {
	case hotplug.ActionAdd:
		return h.OnAdd(ctx, lookup)
	case hotplug.ActionRemove:
		return h.OnRemove(ctx, lookup)
	default:
		l.Debug("Ignoring action", "subsystem", args[0], "action", string(action))
		return nil
	}
}

// Factory builds a handler kind from shared dependencies.
type Factory func(deps *Deps) (Handler, error)

type kind struct {
	subsystem string
	factory   Factory
}

var kinds = map[string]kind{}

// Register adds a handler kind serving subsystem. It panics on duplicate
// names.
func Register(name, subsystem string, f Factory) {
	if _, dup := kinds[name]; dup {
		panic("handler: duplicate kind " + name)
	}
	kinds[name] = kind{subsystem: subsystem, factory: f}
}

func lookupKind(name string) (kind, error) {
	k, ok := kinds[name]
	if !ok {
		return kind{}, errors.New(errors.CommandNotFound, "unknown handler kind").
			WithMetadata("kind", name)
	}
	return k, nil
}

// New builds the handler registered as name.
func New(name string, deps *Deps) (Handler, error) {
	k, err := lookupKind(name)
	if err != nil {
		return nil, err
	}
	return k.factory(deps)
}

// Applies validates an invocation of kind name before any dependency is
// built. It reports false for a foreign subsystem, which callers treat as
// a successful no-op, and an error for a malformed invocation.
func Applies(name string, args []string) (bool, error) {
	k, err := lookupKind(name)
	if err != nil {
		return false, err
	}
	if err := checkArgs(args); err != nil {
		return false, err
	}
	return args[0] == k.subsystem, nil
}

func checkArgs(args []string) error {
	if len(args) != 1 {
		return errors.New(errors.HotplugMissingArgument,
			fmt.Sprintf("expected exactly one subsystem argument, got %d", len(args)))
	}
	return nil
}

// Kinds lists the registered kind names in order.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
