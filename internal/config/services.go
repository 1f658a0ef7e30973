package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rileyhilliard/fwdash/internal/errors"
)

// Service is a monitored process and how to find it on the appliance.
// Exactly one of PidFile and Cmdline is set.
type Service struct {
	Name    string
	PidFile string
	Cmdline string
}

// builtinServices maps the names accepted under services.builtin to the
// pid file or command line the appliance starts them with.
var builtinServices = map[string]Service{
	"configd":   {PidFile: "/var/run/configd.pid"},
	"dhcpd":     {Cmdline: "/usr/local/sbin/dhcpd -user dhcpd "},
	"dhcpd6":    {Cmdline: "/usr/local/sbin/dhcpd -6 -user dhcpd "},
	"ntpd":      {Cmdline: "/usr/local/sbin/ntpd "},
	"openssh":   {PidFile: "/var/run/sshd.pid"},
	"radvd":     {PidFile: "/var/run/radvd.pid"},
	"syslog-ng": {PidFile: "/var/run/syslog-ng.pid"},
	"syslogd":   {PidFile: "/var/run/syslog.pid"},
	"unbound":   {PidFile: "/var/run/unbound.pid"},
}

// BuiltinServiceNames returns the accepted built-in service names, sorted.
func BuiltinServiceNames() []string {
	names := make([]string, 0, len(builtinServices))
	for name := range builtinServices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuiltinServices returns the whole built-in table, sorted by name.
func BuiltinServices() []Service {
	names := BuiltinServiceNames()
	out := make([]Service, 0, len(names))
	for _, name := range names {
		svc := builtinServices[name]
		svc.Name = name
		out = append(out, svc)
	}
	return out
}

// ResolveServices expands the built-in names and merges in custom services,
// sorted by name.
func (c *Config) ResolveServices() ([]Service, error) {
	out := make([]Service, 0, len(c.Services.Builtin)+len(c.Services.Custom))

	for _, name := range c.Services.Builtin {
		svc, ok := builtinServices[name]
		if !ok {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown built-in service %q", name),
				"Known built-in services: "+strings.Join(BuiltinServiceNames(), ", ")+". Anything else goes under services.custom.")
		}
		svc.Name = name
		out = append(out, svc)
	}

	for _, custom := range c.Services.Custom {
		if err := validateCustomService(custom); err != nil {
			return nil, err
		}
		out = append(out, Service(custom))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
