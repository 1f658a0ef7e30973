package probes

import (
	"github.com/rileyhilliard/fwdash/internal/remote"
	"github.com/rileyhilliard/fwdash/internal/util"
)

// ProcessCheck reports whether a service process is running. pgrep prints
// the matching PIDs, so any output means running.
type ProcessCheck struct {
	cmd string
}

// NewPidFileCheck matches the process whose PID is stored in pidfile.
func NewPidFileCheck(pidfile string) ProcessCheck {
	return ProcessCheck{cmd: util.ShellCommand("/bin/pgrep", "-F", pidfile)}
}

// NewCmdlineCheck matches processes whose command line starts with cmdline.
func NewCmdlineCheck(cmdline string) ProcessCheck {
	return ProcessCheck{cmd: util.ShellCommand("/bin/pgrep", "-f", "^"+cmdline)}
}

func (p ProcessCheck) Command() string { return p.cmd }

func (p ProcessCheck) Invoke(s Session) (bool, error) {
	line, err := remote.ReadLine(s, p.cmd)
	if err != nil {
		return false, err
	}
	return line != "", nil
}
