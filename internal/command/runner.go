// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/stratastor/hotplugd/pkg/errors"
	"github.com/stratastor/logger"
)

// RunHandler runs the handler executable at path with a single argument and
// waits for it. The handler inherits the caller's environment and stdio;
// extraEnv entries are appended and take precedence.
//
// argv[0] is the handler's full path.
func RunHandler(
	ctx context.Context,
	l logger.Logger,
	path string,
	arg string,
	extraEnv ...string,
) error {
	if err := validateHandler(path, arg); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, path, arg)
	cmd.Env = append(os.Environ(), extraEnv...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	l.Debug("Executing handler", "handler", path, "arg", arg)

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, errors.CommandStart).
			WithMetadata("command", path)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return errors.Wrap(err, errors.CommandExecution).
				WithMetadata("command", path).
				WithMetadata("exit_code", strconv.Itoa(exitErr.ExitCode()))
		}
		return errors.Wrap(err, errors.CommandWait).
			WithMetadata("command", path)
	}

	return nil
}

func validateHandler(path, arg string) error {
	if path == "" {
		return errors.New(errors.CommandInvalidInput, "empty command")
	}
	if !filepath.IsAbs(path) {
		return errors.New(errors.CommandInvalidInput, "handler path must be absolute").
			WithMetadata("command", path)
	}
	if strings.ContainsRune(path, 0) || strings.ContainsRune(arg, 0) {
		return errors.New(errors.CommandInvalidInput, "command contains invalid characters")
	}
	return nil
}
