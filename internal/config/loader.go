package config

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigDirName is the directory under the user config dir.
	ConfigDirName = "opnsense-dashboard"
	// ConfigFileName is the config file name.
	ConfigFileName = "config.yaml"
)

// DefaultPath returns the per-user config location, e.g.
// ~/.config/opnsense-dashboard/config.yaml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Can't determine the user config directory",
			"Set $XDG_CONFIG_HOME or pass --config")
	}
	return filepath.Join(dir, ConfigDirName, ConfigFileName), nil
}

// Find resolves the config path: the explicit path if given, otherwise the default location.
// Unlike Load, it does not require the file to exist.
func Find(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return DefaultPath()
}

// Load reads config from the specified path and validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found: "+path,
				"Run 'fwdash init' to create one, or point at one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file "+path,
			"Check the file is valid YAML")
	}

	return parseConfig(v, path)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("ssh.timeout", def.SSH.Timeout.String())
	v.SetDefault("ssh.strict_host_key_checking", def.SSH.StrictHostKeyChecking)
	v.SetDefault("abi.endianness", def.ABI.Endianness)
	v.SetDefault("abi.long_size", def.ABI.LongSize)
	v.SetDefault("log.level", def.Log.Level)
}
