package config

import (
	"time"

	"github.com/rileyhilliard/fwdash/internal/sysctl"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete dashboard configuration file.
type Config struct {
	Version  int            `yaml:"version" mapstructure:"version"`
	SSH      SSHConfig      `yaml:"ssh" mapstructure:"ssh"`
	ABI      ABIConfig      `yaml:"abi" mapstructure:"abi"`
	Services ServicesConfig `yaml:"services" mapstructure:"services"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SSHConfig defines how to reach the appliance.
type SSHConfig struct {
	// Hostname is host[:port], user@host[:port] or an ~/.ssh/config alias.
	Hostname string `yaml:"hostname" mapstructure:"hostname"`

	Username string `yaml:"username" mapstructure:"username"`

	// IdentityComment restricts agent keys to the one carrying this comment.
	IdentityComment string `yaml:"identity_comment,omitempty" mapstructure:"identity_comment"`

	// Timeout bounds connect plus handshake. Commands themselves are not bounded.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	StrictHostKeyChecking bool `yaml:"strict_host_key_checking" mapstructure:"strict_host_key_checking"`
}

// ABIConfig describes the binary layout of the appliance's sysctl values.
type ABIConfig struct {
	// Endianness is "little" or "big".
	Endianness string `yaml:"endianness" mapstructure:"endianness"`

	// LongSize is the width of unsigned long and time_t in bytes (4 or 8).
	LongSize int `yaml:"long_size" mapstructure:"long_size"`
}

// ServicesConfig lists the processes shown in the services section.
type ServicesConfig struct {
	Builtin []string        `yaml:"builtin" mapstructure:"builtin"`
	Custom  []CustomService `yaml:"custom" mapstructure:"custom"`
}

// CustomService is a process identified by exactly one of PidFile or Cmdline.
type CustomService struct {
	Name    string `yaml:"name" mapstructure:"name"`
	PidFile string `yaml:"pidfile,omitempty" mapstructure:"pidfile"`
	Cmdline string `yaml:"cmdline,omitempty" mapstructure:"cmdline"`
}

// LogConfig controls the diagnostic log file.
type LogConfig struct {
	// File is where JSON log lines go. Empty disables logging.
	File string `yaml:"file" mapstructure:"file"`

	// Level is "info" or "debug".
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		SSH: SSHConfig{
			Timeout:               5 * time.Second,
			StrictHostKeyChecking: true,
		},
		ABI: ABIConfig{
			Endianness: "little",
			LongSize:   8,
		},
		Services: ServicesConfig{
			Builtin: []string{},
			Custom:  []CustomService{},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Debug reports whether the log level asks for per-cycle detail.
func (c *Config) Debug() bool {
	return c.Log.Level == "debug"
}

// SysctlABI converts the abi section into the codec's byte layout.
func (c *Config) SysctlABI() (sysctl.ABI, error) {
	return sysctl.ParseABI(c.ABI.Endianness, c.ABI.LongSize)
}
