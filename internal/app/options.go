// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"os"

	"github.com/stratastor/hotplugd/config"
	"github.com/stratastor/hotplugd/internal/constants"
	"github.com/stratastor/logger"
)

// Options are the persistent command-line flags.
type Options struct {
	ConfigPath string
	Debug      bool
}

// Load reads the configuration and applies flag overrides. The effective
// settings are exported to the environment so processes started from here,
// the watchdog in particular, resolve the same configuration.
func (o *Options) Load() (*config.Config, error) {
	if o.ConfigPath != "" {
		_ = os.Setenv(constants.ConfigEnvVar, o.ConfigPath)
	}
	if o.Debug {
		_ = os.Setenv(constants.EnvPrefix+"_LOGGER_LOGLEVEL", "debug")
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.Debug {
		cfg.Logger.LogLevel = "debug"
	}
	return cfg, nil
}

// Setup loads the configuration and a logger tagged for the command.
func (o *Options) Setup(tag string) (*config.Config, logger.Logger, error) {
	cfg, err := o.Load()
	if err != nil {
		return nil, nil, err
	}
	l, err := config.NewLogger(cfg, tag)
	if err != nil {
		return nil, nil, err
	}
	return cfg, l, nil
}

// SetupOrDefault is Setup for commands that must keep working when the
// configuration file is unreadable. The load error is logged and built-in
// defaults are used instead.
func (o *Options) SetupOrDefault(tag string) (*config.Config, logger.Logger, error) {
	cfg, loadErr := o.Load()
	if loadErr != nil {
		cfg = config.Default()
		if o.Debug {
			cfg.Logger.LogLevel = "debug"
		}
	}

	l, err := config.NewLogger(cfg, tag)
	if err != nil {
		return nil, nil, err
	}
	if loadErr != nil {
		l.Error("Failed to load configuration, using defaults", "err", loadErr)
	}
	return cfg, l, nil
}
