package sshutil

import "io"

// SSHClient is the remote command surface every metric probe runs against.
// Both the real Client and mock implementations satisfy this interface.
type SSHClient interface {
	// Run starts a command and returns its stdout as a stream. Stderr is
	// discarded and a non-zero exit status is not an error.
	Run(cmd string) (io.ReadCloser, error)

	// ReadFile fetches a remote file in full.
	ReadFile(path string) ([]byte, error)

	// Close closes the SSH connection.
	Close() error

	// GetHost returns the original host/alias used to connect.
	GetHost() string

	// GetAddress returns the resolved host:port address.
	GetAddress() string
}
