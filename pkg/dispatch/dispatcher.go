// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Package dispatch runs the handler programs registered for a subsystem
// event. Handlers are taken from <root>/<subsystem> and then from
// <root>/<default>, each directory in lexical filename order, one at a time.
package dispatch

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stratastor/hotplugd/internal/command"
	"github.com/stratastor/hotplugd/internal/constants"
	"github.com/stratastor/hotplugd/pkg/errors"
	"github.com/stratastor/logger"
)

// Runner executes one handler and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, path, subsystem string, env ...string) error
}

// ExecRunner runs handlers as child processes.
type ExecRunner struct {
	logger logger.Logger
}

func NewExecRunner(l logger.Logger) *ExecRunner {
	return &ExecRunner{logger: l}
}

func (r *ExecRunner) Run(ctx context.Context, path, subsystem string, env ...string) error {
	return command.RunHandler(ctx, r.logger, path, subsystem, env...)
}

type Config struct {
	Root       string
	DefaultDir string
	Suffix     string
	Fs         afero.Fs
	Runner     Runner
}

// Result summarises one dispatch.
type Result struct {
	EventID string
	Ran     []HandlerFile
	Failed  int
	Errors  []error
}

type Dispatcher struct {
	logger  logger.Logger
	root    string
	defDir  string
	scanner *Scanner
	runner  Runner
}

func New(l logger.Logger, cfg Config) *Dispatcher {
	if cfg.Root == "" {
		cfg.Root = constants.DefaultHandlerRoot
	}
	if cfg.DefaultDir == "" {
		cfg.DefaultDir = constants.DefaultHandlerDir
	}
	if cfg.Suffix == "" {
		cfg.Suffix = constants.DefaultHandlerSuffix
	}
	if cfg.Runner == nil {
		cfg.Runner = NewExecRunner(l)
	}
	return &Dispatcher{
		logger:  l,
		root:    cfg.Root,
		defDir:  cfg.DefaultDir,
		scanner: NewScanner(cfg.Fs, cfg.Suffix),
		runner:  cfg.Runner,
	}
}

// Dispatch runs every handler for subsystem. The only error it returns is
// for an empty subsystem; directory and handler failures are logged and
// skipped.
func (d *Dispatcher) Dispatch(ctx context.Context, subsystem string) (*Result, error) {
	if subsystem == "" {
		return nil, errors.New(errors.HotplugMissingArgument, "subsystem is required")
	}

	res := &Result{EventID: uuid.New().String()}
	log := d.logger
	log.Debug("Dispatching event", "subsystem", subsystem, "event_id", res.EventID)

	env := []string{constants.EnvEventID + "=" + res.EventID}

	dirs := make([]string, 0, 2)
	if strings.ContainsRune(subsystem, '/') || subsystem == "." || subsystem == ".." {
		log.Warn("Subsystem is not a plain name, skipping its directory",
			"subsystem", subsystem, "event_id", res.EventID)
	} else {
		dirs = append(dirs, filepath.Join(d.root, subsystem))
	}
	dirs = append(dirs, filepath.Join(d.root, d.defDir))

	for _, dir := range dirs {
		handlers, err := d.scanner.Scan(dir)
		if err != nil {
			log.Warn("Failed to scan handler directory",
				"dir", dir, "event_id", res.EventID, "err", err)
			continue
		}
		for _, h := range handlers {
			if ctx.Err() != nil {
				return res, nil
			}
			res.Ran = append(res.Ran, h)
			if err := d.runner.Run(ctx, h.Path(), subsystem, env...); err != nil {
				herr := errors.Wrap(err, errors.HotplugHandlerFailed).
					WithMetadata("handler", h.Path()).
					WithMetadata("event_id", res.EventID)
				res.Failed++
				res.Errors = append(res.Errors, herr)
				log.Warn("Handler failed",
					"handler", h.Path(), "event_id", res.EventID, "err", herr)
				continue
			}
			log.Debug("Handler completed", "handler", h.Path(), "event_id", res.EventID)
		}
	}

	return res, nil
}
