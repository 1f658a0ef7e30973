package doctor

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/fwdash/internal/opnconfig"
	"github.com/rileyhilliard/fwdash/internal/probes"
	"github.com/rileyhilliard/fwdash/internal/remote"
	"github.com/rileyhilliard/fwdash/internal/sysctl"
	"github.com/rileyhilliard/fwdash/internal/util"
)

// RequiredTools are the appliance binaries the dashboard runs.
var RequiredTools = []string{
	"/sbin/sysctl",
	"/sbin/pfctl",
	"/sbin/ifconfig",
	"/usr/bin/netstat",
	"/usr/bin/nc",
	"/usr/bin/uname",
	"/bin/df",
	"/bin/pgrep",
	"/usr/local/sbin/smartctl",
	"/usr/local/sbin/configctl",
}

// ToolsCheck lists RequiredTools in one command and reports the missing ones.
// ls prints only the paths that exist; its complaints go to stderr.
type ToolsCheck struct {
	Session probes.Session
}

func (c *ToolsCheck) Name() string     { return "remote_tools" }
func (c *ToolsCheck) Category() string { return "REMOTE" }

func (c *ToolsCheck) Run() CheckResult {
	out, err := remote.ReadString(c.Session, util.ShellCommand("/bin/ls", RequiredTools...))
	if err != nil {
		return CheckResult{Status: StatusFail, Message: firstLine(err)}
	}

	found := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		found[strings.TrimSpace(line)] = true
	}
	var missing []string
	for _, tool := range RequiredTools {
		if !found[tool] {
			missing = append(missing, tool)
		}
	}

	if len(missing) > 0 {
		return CheckResult{
			Status:     StatusFail,
			Message:    "Missing: " + util.JoinOrNone(missing),
			Suggestion: "smartctl comes from the os-smart plugin; the rest ship with the appliance.",
		}
	}
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("All %d tools present", len(RequiredTools))}
}

// TopologyCheck reads and parses the appliance configuration document.
type TopologyCheck struct {
	Session probes.Session

	// Topology is set when the check passes, for the checks that follow.
	Topology *opnconfig.Topology
}

func (c *TopologyCheck) Name() string     { return "topology" }
func (c *TopologyCheck) Category() string { return "REMOTE" }

func (c *TopologyCheck) Run() CheckResult {
	topo, err := opnconfig.Discover(c.Session)
	if err != nil {
		return CheckResult{Status: StatusFail, Message: firstLine(err)}
	}
	c.Topology = topo

	ifaces := len(topo.Interfaces())
	gateways := len(topo.Gateways)
	msg := fmt.Sprintf("%d %s, %d %s",
		ifaces, util.Pluralize(ifaces, "interface", "interfaces"),
		gateways, util.Pluralize(gateways, "gateway", "gateways"))
	return CheckResult{Status: StatusPass, Message: msg}
}

// SysctlABICheck decodes the startup sysctl batch with the configured ABI and
// sanity-checks the result. A wrong long_size shows up as a length
// mismatch; a wrong endianness as an absurd boot time.
type SysctlABICheck struct {
	Session probes.Session
	ABI     sysctl.ABI
	Now     func() time.Time
}

func (c *SysctlABICheck) Name() string     { return "sysctl_abi" }
func (c *SysctlABICheck) Category() string { return "REMOTE" }

func (c *SysctlABICheck) Run() CheckResult {
	const suggestion = "Check abi.endianness and abi.long_size in the config (amd64: little, 8)."

	sample, err := probes.NewStartupSysctls(c.ABI).Invoke(c.Session)
	if err != nil {
		return CheckResult{Status: StatusFail, Message: firstLine(err), Suggestion: suggestion}
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	earliest := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if sample.BootTime.Before(earliest) || sample.BootTime.After(now()) {
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Boot time decodes as %s with %s", sample.BootTime.UTC().Format(time.RFC3339), c.ABI),
			Suggestion: suggestion,
		}
	}

	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: booted %s, %d MiB", c.ABI, sample.BootTime.UTC().Format(time.RFC3339), sample.PhysMem/1_048_576),
	}
}

// GatewayCheck verifies dpinger reports on every configured gateway.
type GatewayCheck struct {
	Session  probes.Session
	Gateways []string
}

func (c *GatewayCheck) Name() string     { return "dpinger" }
func (c *GatewayCheck) Category() string { return "REMOTE" }

func (c *GatewayCheck) Run() CheckResult {
	samples, err := probes.GatewayLatency{}.Invoke(c.Session)
	if err != nil {
		return CheckResult{Status: StatusFail, Message: firstLine(err)}
	}

	seen := make(map[string]bool, len(samples))
	for _, s := range samples {
		seen[s.Name] = true
	}
	var missing []string
	for _, name := range c.Gateways {
		if !seen[name] {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return CheckResult{
			Status:     StatusWarn,
			Message:    "Not monitored by dpinger: " + util.JoinOrNone(missing),
			Suggestion: "Enable gateway monitoring under System > Gateways; the dashboard shows these as not running.",
		}
	}
	return CheckResult{Status: StatusPass, Message: "Monitoring " + util.JoinOrNone(c.Gateways)}
}

// firstLine is an error's headline, without the cause and suggestion lines.
func firstLine(err error) string {
	line, _, _ := strings.Cut(err.Error(), "\n")
	return strings.TrimPrefix(line, "✗ ")
}
