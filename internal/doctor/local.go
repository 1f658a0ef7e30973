package doctor

import (
	"fmt"
	"net"
	"os"

	"github.com/rileyhilliard/fwdash/internal/config"
)

// ConfigCheck loads and validates the config file.
type ConfigCheck struct {
	Path string
}

func (c *ConfigCheck) Name() string     { return "config" }
func (c *ConfigCheck) Category() string { return "CONFIG" }

func (c *ConfigCheck) Run() CheckResult {
	cfg, err := config.Load(c.Path)
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    firstLine(err),
			Suggestion: "Run 'fwdash init' to create one, or fix the file at " + c.Path,
		}
	}

	services, err := cfg.ResolveServices()
	if err != nil {
		return CheckResult{Status: StatusFail, Message: firstLine(err)}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: %s@%s, %d services", c.Path, cfg.SSH.Username, cfg.SSH.Hostname, len(services)),
	}
}

// SSHAgentCheck verifies the SSH agent is reachable. Key files still work
// without one, so a missing agent is only a warning.
type SSHAgentCheck struct {
	// IdentityComment is the configured agent key comment, if any.
	IdentityComment string
}

func (c *SSHAgentCheck) Name() string     { return "ssh_agent" }
func (c *SSHAgentCheck) Category() string { return "SSH" }

func (c *SSHAgentCheck) Run() CheckResult {
	status := StatusWarn
	if c.IdentityComment != "" {
		// The config asks for an agent key, so nothing else will be tried.
		status = StatusFail
	}

	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return CheckResult{
			Status:     status,
			Message:    "SSH agent not running",
			Suggestion: "Fix: eval $(ssh-agent) && ssh-add",
		}
	}

	conn, err := net.Dial("unix", socket)
	if err != nil {
		return CheckResult{
			Status:     status,
			Message:    "SSH agent socket not accessible",
			Suggestion: "Fix: eval $(ssh-agent) && ssh-add",
		}
	}
	conn.Close() //nolint:errcheck // Best-effort close, error not actionable

	return CheckResult{Status: StatusPass, Message: "SSH agent reachable at " + socket}
}
