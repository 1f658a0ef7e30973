package sshutil

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/sftp"
	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLocalSFTP serves the local filesystem over an in-memory pipe.
func newLocalSFTP(t *testing.T) *sftp.Client {
	t.Helper()
	serverConn, clientConn := net.Pipe()

	server, err := sftp.NewServer(serverConn)
	require.NoError(t, err)
	go server.Serve() //nolint:errcheck // Ends with an error when the pipe closes

	client, err := sftp.NewClientPipe(clientConn, clientConn)
	require.NoError(t, err)
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client
}

func TestReadRemoteFile(t *testing.T) {
	payload := `{"product_name":"OPNsense","product_version":"24.7.1","product_arch":"amd64"}`
	path := filepath.Join(t.TempDir(), "core")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	data, err := readRemoteFile(newLocalSFTP(t), path, MaxFileSize)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
}

func TestReadRemoteFile_Missing(t *testing.T) {
	_, err := readRemoteFile(newLocalSFTP(t), filepath.Join(t.TempDir(), "absent"), MaxFileSize)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExec))
	assert.Contains(t, err.Error(), "Failed to open")
}

func TestReadRemoteFile_TooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.xml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 100)), 0o644))

	_, err := readRemoteFile(newLocalSFTP(t), path, 64)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "larger than 64 bytes")

	data, err := readRemoteFile(newLocalSFTP(t), path, 100)
	require.NoError(t, err)
	assert.Len(t, data, 100)
}
