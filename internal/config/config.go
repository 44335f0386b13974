// Package config loads otctl settings from ~/.otctl/config.toml and OTCTL_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	KeyRobotHost           = "robot.host"
	KeyRobotPort           = "robot.port"
	KeyRobotAPIVersion     = "robot.api_version"
	KeyRobotRequestTimeout = "robot.request_timeout"
	KeyStatePath           = "state.path"
	KeyJournalPath         = "journal.path"
	KeyTransferMaxVolume   = "transfer.max_volume_ul"

	EnvPrefix  = "OTCTL"
	configDir  = ".otctl"
	configFile = "config.toml"
)

type Config struct {
	Robot    RobotConfig    `mapstructure:"robot"`
	State    StateConfig    `mapstructure:"state"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Transfer TransferConfig `mapstructure:"transfer"`

	// Path is the config file that was read, empty when none existed.
	Path string `mapstructure:"-"`

	v *viper.Viper
}

type RobotConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	APIVersion     string        `mapstructure:"api_version"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type StateConfig struct {
	Path string `mapstructure:"path"`
}

type JournalConfig struct {
	Path string `mapstructure:"path"`
}

type TransferConfig struct {
	MaxVolumeUL float64 `mapstructure:"max_volume_ul"`
}

// Viper exposes the loaded settings to adapters that take a *viper.Viper.
func (c Config) Viper() *viper.Viper {
	if c.v == nil {
		return viper.New()
	}
	return c.v
}

// DefaultDir is ~/.otctl.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir), nil
}

func DefaultConfigPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads path, or the default config path when path is empty. A missing
// default file is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return Config{}, err
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, configFile)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetDefault(KeyRobotHost, "")
	v.SetDefault(KeyRobotPort, 31950)
	v.SetDefault(KeyRobotAPIVersion, "3")
	v.SetDefault(KeyRobotRequestTimeout, time.Duration(0))
	v.SetDefault(KeyStatePath, filepath.Join(dir, "session.toml"))
	v.SetDefault(KeyJournalPath, filepath.Join(dir, "journal.db"))
	v.SetDefault(KeyTransferMaxVolume, 1000.0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	loaded := ""
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		loaded = path
	} else if !errors.Is(err, fs.ErrNotExist) || explicit {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	cfg.State.Path = expandHome(cfg.State.Path)
	cfg.Journal.Path = expandHome(cfg.Journal.Path)
	v.Set(KeyStatePath, cfg.State.Path)
	v.Set(KeyJournalPath, cfg.Journal.Path)

	cfg.Path = loaded
	cfg.v = v
	return cfg, nil
}

func (c Config) validate() error {
	if c.Robot.Port < 1 || c.Robot.Port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", KeyRobotPort, c.Robot.Port)
	}
	if strings.TrimSpace(c.Robot.APIVersion) == "" {
		return fmt.Errorf("%s must not be empty", KeyRobotAPIVersion)
	}
	if c.Robot.RequestTimeout < 0 {
		return fmt.Errorf("%s must not be negative", KeyRobotRequestTimeout)
	}
	if c.Transfer.MaxVolumeUL <= 0 {
		return fmt.Errorf("%s must be positive", KeyTransferMaxVolume)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}
