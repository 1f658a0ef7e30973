package sshutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// HostEntry is a concrete host alias from the user's SSH config.
type HostEntry struct {
	Alias    string
	Hostname string
	User     string
	Port     string
}

// Label renders the entry for a picker, e.g. "fw (10.0.0.1, user: root)".
func (h HostEntry) Label() string {
	var details []string
	if h.Hostname != "" && h.Hostname != h.Alias {
		details = append(details, h.Hostname)
	}
	if h.User != "" {
		details = append(details, "user: "+h.User)
	}
	if h.Port != "" && h.Port != "22" {
		details = append(details, "port: "+h.Port)
	}
	if len(details) == 0 {
		return h.Alias
	}
	return h.Alias + " (" + strings.Join(details, ", ") + ")"
}

// KnownHosts lists the host aliases of ~/.ssh/config.
func KnownHosts() ([]HostEntry, error) {
	return KnownHostsFrom(filepath.Join(homeDir(), ".ssh", "config"))
}

// KnownHostsFrom lists the concrete host aliases of an SSH config file,
// skipping wildcard patterns. A missing file yields no entries.
func KnownHostsFrom(configPath string) ([]HostEntry, error) {
	content, _, err := preprocessSSHConfig(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var hosts []HostEntry
	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()
			if strings.ContainsAny(alias, "*?!") || seen[alias] {
				continue
			}
			seen[alias] = true

			entry := HostEntry{Alias: alias}
			entry.Hostname, _ = cfg.Get(alias, "HostName")
			entry.User, _ = cfg.Get(alias, "User")
			entry.Port, _ = cfg.Get(alias, "Port")
			hosts = append(hosts, entry)
		}
	}

	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].Alias < hosts[j].Alias
	})
	return hosts, nil
}
