package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/fwdash/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but fwdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade fwdash or lower the version field")
	}

	if err := validateSSH(cfg.SSH); err != nil {
		return err
	}

	if _, err := cfg.SysctlABI(); err != nil {
		return err
	}

	if _, err := cfg.ResolveServices(); err != nil {
		return err
	}

	return validateLog(cfg.Log)
}

func validateSSH(s SSHConfig) error {
	if strings.TrimSpace(s.Hostname) == "" {
		return errors.New(errors.ErrConfig,
			"ssh.hostname is required",
			"Set it to the appliance address, e.g. 'router.lan' or '192.168.1.1:22'")
	}
	if strings.TrimSpace(s.Username) == "" {
		return errors.New(errors.ErrConfig,
			"ssh.username is required",
			"The dashboard usually needs 'root' to read pf state and SMART data")
	}
	if s.Timeout < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("ssh.timeout can't be negative (got %s)", s.Timeout),
			"Use something like '5s'")
	}
	return nil
}

func validateCustomService(svc CustomService) error {
	if strings.TrimSpace(svc.Name) == "" {
		return errors.New(errors.ErrConfig,
			"Custom service is missing a name",
			"Every entry under services.custom needs 'name'")
	}
	if (svc.PidFile == "") == (svc.Cmdline == "") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Custom service %q must set exactly one of pidfile or cmdline", svc.Name),
			"Use 'pidfile: /var/run/<name>.pid' or 'cmdline: /path/to/binary'")
	}
	return nil
}

func validateLog(l LogConfig) error {
	switch l.Level {
	case "", "info", "debug":
		return nil
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("log.level must be 'info' or 'debug' (got %q)", l.Level),
		"Leave it out for 'info'")
}
