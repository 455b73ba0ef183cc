// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/stratastor/hotplugd/internal/constants"
	"github.com/stratastor/hotplugd/pkg/errors"
	"github.com/stratastor/logger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Dispatch struct {
		Root       string `mapstructure:"root"       yaml:"root"`
		Suffix     string `mapstructure:"suffix"     yaml:"suffix"`
		DefaultDir string `mapstructure:"defaultDir" yaml:"defaultDir"`
	} `mapstructure:"dispatch" yaml:"dispatch"`

	Devices struct {
		DevDir         string `mapstructure:"devDir"         yaml:"devDir"`
		RunDir         string `mapstructure:"runDir"         yaml:"runDir"`
		SupervisorName string `mapstructure:"supervisorName" yaml:"supervisorName"`
		MountRoot      string `mapstructure:"mountRoot"      yaml:"mountRoot"`
	} `mapstructure:"devices" yaml:"devices"`

	Watchdog struct {
		// Command overrides how the watchdog is started. Empty means the
		// running binary re-executes itself as the bdpoll applet.
		Command string `mapstructure:"command" yaml:"command"`
		// LogFile receives the watchdog's output; /dev/null when empty.
		LogFile string `mapstructure:"logFile" yaml:"logFile"`
	} `mapstructure:"watchdog" yaml:"watchdog"`

	Relay struct {
		Socket    string   `mapstructure:"socket"    yaml:"socket"`
		Variables []string `mapstructure:"variables" yaml:"variables"`
	} `mapstructure:"relay" yaml:"relay"`

	Firmware struct {
		Dir       string `mapstructure:"dir"       yaml:"dir"`
		SysfsRoot string `mapstructure:"sysfsRoot" yaml:"sysfsRoot"`
	} `mapstructure:"firmware" yaml:"firmware"`

	Logger struct {
		LogLevel     string `mapstructure:"logLevel"     yaml:"logLevel"`
		EnableSentry bool   `mapstructure:"enableSentry" yaml:"enableSentry"`
		SentryDSN    string `mapstructure:"sentryDSN"    yaml:"sentryDSN"`
	} `mapstructure:"logger" yaml:"logger"`

	// path is where the configuration was read from, empty when only
	// defaults were used.
	path string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dispatch.root", constants.DefaultHandlerRoot)
	v.SetDefault("dispatch.suffix", constants.DefaultHandlerSuffix)
	v.SetDefault("dispatch.defaultDir", constants.DefaultHandlerDir)

	v.SetDefault("devices.devDir", constants.DefaultDevDir)
	v.SetDefault("devices.runDir", constants.DefaultRunDir)
	v.SetDefault("devices.supervisorName", constants.DefaultSupervisorName)
	v.SetDefault("devices.mountRoot", constants.DefaultMountRoot)

	v.SetDefault("watchdog.command", "")
	v.SetDefault("watchdog.logFile", "")

	v.SetDefault("relay.socket", constants.DefaultRelaySocket)
	v.SetDefault("relay.variables", []string{
		constants.EnvAction,
		constants.EnvDevPath,
		constants.EnvPhysDevPath,
		constants.EnvPhysDevDriver,
	})

	v.SetDefault("firmware.dir", constants.DefaultFirmwareDir)
	v.SetDefault("firmware.sysfsRoot", constants.DefaultSysfsRoot)

	v.SetDefault("logger.logLevel", "info")
	v.SetDefault("logger.enableSentry", false)
	v.SetDefault("logger.sentryDSN", "")
}

// ResolvePath picks the configuration file with the following precedence:
// explicit path, HOTPLUGD_CONFIG, system default.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if envPath := os.Getenv(constants.ConfigEnvVar); envPath != "" {
		return envPath
	}
	return filepath.Join(constants.ConfigDir, constants.ConfigFileName)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration. A missing file is not an error; defaults
// are used instead. HOTPLUGD_* environment variables override file values.
func Load(configFilePath string) (*Config, error) {
	v := newViper()

	path := ResolvePath(configFilePath)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	v.SetConfigFile(path)

	loadedFrom := path
	if err := v.ReadInConfig(); err != nil {
		// SetConfigFile bypasses viper's search, so a missing file surfaces
		// as a plain fs error rather than ConfigFileNotFoundError.
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.Is(err, os.ErrNotExist) && !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(err, errors.ConfigLoadFailed).
				WithMetadata("path", path)
		}
		loadedFrom = ""
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ConfigUnmarshalFailed).
			WithMetadata("path", path)
	}
	cfg.path = loadedFrom

	return &cfg, nil
}

// Default returns the built-in defaults with HOTPLUGD_* environment
// overrides applied and no file read.
func Default() *Config {
	var cfg Config
	// Defaults and env values are plain strings and lists; decoding them
	// cannot fail.
	_ = newViper().Unmarshal(&cfg)
	return &cfg
}

// Path returns the file the configuration was loaded from, or an empty
// string when defaults were used.
func (c *Config) Path() string {
	return c.path
}

// RecordDir is the directory holding watchdog records.
func (c *Config) RecordDir() string {
	return filepath.Join(c.Devices.RunDir, c.Devices.SupervisorName)
}

// Save persists the configuration as YAML to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, errors.ConfigWriteFailed).
			WithMetadata("path", path)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, errors.ConfigWriteFailed).
			WithMetadata("path", path)
	}

	return nil
}

// Marshal renders the configuration as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ConfigMarshalFailed)
	}
	return data, nil
}

func NewLoggerConfig(cfg *Config) logger.Config {
	if cfg == nil {
		return logger.Config{
			LogLevel:     "info",
			EnableSentry: false,
			SentryDSN:    "",
		}
	}

	return logger.Config{
		LogLevel:     cfg.Logger.LogLevel,
		EnableSentry: cfg.Logger.EnableSentry,
		SentryDSN:    cfg.Logger.SentryDSN,
	}
}

// NewLogger builds a tagged logger from cfg.
func NewLogger(cfg *Config, tag string) (logger.Logger, error) {
	l, err := logger.NewTag(NewLoggerConfig(cfg), tag)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l, nil
}
