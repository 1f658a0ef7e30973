package testing

import (
	"errors"
	"io"
	"testing"

	"github.com/rileyhilliard/fwdash/pkg/sshutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ sshutil.SSHClient = (*MockClient)(nil)

func readAll(t *testing.T, m *MockClient, cmd string) string {
	t.Helper()
	r, err := m.Run(cmd)
	require.NoError(t, err)
	defer r.Close()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestMockClient_ExactAndPattern(t *testing.T) {
	m := NewMockClient("fw")
	m.SetOutput("/usr/bin/uname -sr", "FreeBSD 14.1-RELEASE-p5\n")
	m.SetPatternResponse(`^/bin/pgrep `, CommandResponse{Stdout: "1234\n"})

	assert.Equal(t, "FreeBSD 14.1-RELEASE-p5\n", readAll(t, m, "/usr/bin/uname -sr"))
	assert.Equal(t, "1234\n", readAll(t, m, "/bin/pgrep -F '/var/run/sshd.pid'"))
	assert.Empty(t, readAll(t, m, "/sbin/unknown"))

	assert.Equal(t, []string{
		"/usr/bin/uname -sr",
		"/bin/pgrep -F '/var/run/sshd.pid'",
		"/sbin/unknown",
	}, m.Commands())

	m.ResetCommands()
	assert.Empty(t, m.Commands())
}

func TestMockClient_ErrorInjection(t *testing.T) {
	m := NewMockClient("fw")
	m.SetCommandResponse("/sbin/pfctl -s info", CommandResponse{Error: errors.New("channel closed")})

	_, err := m.Run("/sbin/pfctl -s info")
	assert.EqualError(t, err, "channel closed")
}

func TestMockClient_ReadFile(t *testing.T) {
	m := NewMockClient("fw")
	m.SetFile("/conf/config.xml", []byte("<opnsense/>"))

	data, err := m.ReadFile("/conf/config.xml")
	require.NoError(t, err)
	assert.Equal(t, "<opnsense/>", string(data))

	_, err = m.ReadFile("/nope")
	assert.Error(t, err)
}

func TestMockClient_Closed(t *testing.T) {
	m := NewMockClient("fw")
	require.NoError(t, m.Close())

	_, err := m.Run("true")
	assert.Error(t, err)
	_, err = m.ReadFile("/x")
	assert.Error(t, err)

	assert.Equal(t, "fw", m.GetHost())
	assert.Equal(t, "fw:22", m.GetAddress())
}
