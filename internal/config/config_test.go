package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, 5*time.Second, cfg.SSH.Timeout)
	assert.True(t, cfg.SSH.StrictHostKeyChecking)
	assert.Equal(t, "little", cfg.ABI.Endianness)
	assert.Equal(t, 8, cfg.ABI.LongSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Debug())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
ssh:
  hostname: router.lan:2222
  username: root
  identity_comment: router key
  timeout: 10s
abi:
  endianness: big
  long_size: 4
services:
  builtin: [unbound, configd]
  custom:
    - name: haproxy
      pidfile: /var/run/haproxy.pid
    - name: caddy
      cmdline: /usr/local/bin/caddy
log:
  file: /tmp/fwdash.log
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "router.lan:2222", cfg.SSH.Hostname)
	assert.Equal(t, "root", cfg.SSH.Username)
	assert.Equal(t, "router key", cfg.SSH.IdentityComment)
	assert.Equal(t, 10*time.Second, cfg.SSH.Timeout)
	assert.True(t, cfg.SSH.StrictHostKeyChecking, "default kept")
	assert.Equal(t, "big", cfg.ABI.Endianness)
	assert.Equal(t, 4, cfg.ABI.LongSize)
	assert.Equal(t, "/tmp/fwdash.log", cfg.Log.File)
	assert.True(t, cfg.Debug())

	abi, err := cfg.SysctlABI()
	require.NoError(t, err)
	assert.Equal(t, 4, abi.LongSize)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "ssh:\n  hostname: fw\n  username: admin\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.SSH.Timeout)
	assert.Equal(t, "little", cfg.ABI.Endianness)
	assert.Equal(t, 8, cfg.ABI.LongSize)
	assert.Empty(t, cfg.Services.Builtin)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]struct {
		content  string
		contains string
	}{
		"missing hostname": {"ssh:\n  username: root\n", "ssh.hostname is required"},
		"missing username": {"ssh:\n  hostname: fw\n", "ssh.username is required"},
		"bad yaml":         {"ssh: [\n", "Failed to read config file"},
		"bad endianness":   {"ssh: {hostname: fw, username: root}\nabi: {endianness: middle}\n", "endianness"},
		"bad long size":    {"ssh: {hostname: fw, username: root}\nabi: {long_size: 2}\n", "long size"},
		"unknown builtin":  {"ssh: {hostname: fw, username: root}\nservices: {builtin: [nginx]}\n", `Unknown built-in service "nginx"`},
		"custom both":      {"ssh: {hostname: fw, username: root}\nservices:\n  custom:\n    - {name: x, pidfile: /a, cmdline: /b}\n", "exactly one"},
		"custom neither":   {"ssh: {hostname: fw, username: root}\nservices:\n  custom:\n    - {name: x}\n", "exactly one"},
		"custom no name":   {"ssh: {hostname: fw, username: root}\nservices:\n  custom:\n    - {pidfile: /a}\n", "missing a name"},
		"bad log level":    {"ssh: {hostname: fw, username: root}\nlog: {level: trace}\n", "log.level"},
		"future version":   {"version: 99\nssh: {hostname: fw, username: root}\n", "from the future"},
		"negative timeout": {"ssh: {hostname: fw, username: root, timeout: -1s}\n", "can't be negative"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestResolveServices(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Services.Builtin = []string{"unbound", "dhcpd", "configd"}
	cfg.Services.Custom = []CustomService{{Name: "haproxy", PidFile: "/var/run/haproxy.pid"}}

	services, err := cfg.ResolveServices()
	require.NoError(t, err)

	assert.Equal(t, []Service{
		{Name: "configd", PidFile: "/var/run/configd.pid"},
		{Name: "dhcpd", Cmdline: "/usr/local/sbin/dhcpd -user dhcpd "},
		{Name: "haproxy", PidFile: "/var/run/haproxy.pid"},
		{Name: "unbound", PidFile: "/var/run/unbound.pid"},
	}, services)
}

func TestBuiltinServiceNames(t *testing.T) {
	assert.Equal(t, []string{
		"configd", "dhcpd", "dhcpd6", "ntpd", "openssh", "radvd", "syslog-ng", "syslogd", "unbound",
	}, BuiltinServiceNames())

	all := BuiltinServices()
	require.Len(t, all, 9)
	assert.Equal(t, Service{Name: "configd", PidFile: "/var/run/configd.pid"}, all[0])
	assert.Equal(t, Service{Name: "dhcpd", Cmdline: "/usr/local/sbin/dhcpd -user dhcpd "}, all[1])
}

func TestFind(t *testing.T) {
	path, err := Find("/explicit/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/explicit/config.yaml", path)

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/u")
	path, err = Find("")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, filepath.Join(ConfigDirName, ConfigFileName)), path)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)

	cfg := DefaultConfig()
	cfg.SSH.Hostname = "192.168.1.1"
	cfg.SSH.Username = "root"
	cfg.SSH.Timeout = 3 * time.Second
	cfg.Services.Builtin = []string{"openssh"}
	cfg.Services.Custom = []CustomService{{Name: "caddy", Cmdline: "/usr/local/bin/caddy"}}

	require.NoError(t, Save(path, cfg, false))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	err = Save(path, cfg, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.NoError(t, Save(path, cfg, true))
}

func TestSave_Invalid(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), ConfigFileName), DefaultConfig(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ssh.hostname")
}

func TestMarshal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SSH.Hostname = "fw"
	cfg.SSH.Username = "root"

	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hostname: fw")
	assert.Contains(t, string(data), "timeout: 5s")
	assert.NotContains(t, string(data), "identity_comment")
}
