package sshutil

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"golang.org/x/crypto/ssh"
)

// Run starts a command on the appliance and returns its stdout as a stream.
// Stderr is discarded and the exit status is ignored; tools such as pgrep
// signal "nothing found" with a non-zero status and empty output.
// Closing the stream drains whatever output is left and waits for the
// command to finish so the session is never left half-open.
func (c *Client) Run(cmd string) (io.ReadCloser, error) {
	session, err := c.NewSession()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Failed to create SSH session",
			"Connection may have been closed. Restart the dashboard.")
	}

	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Failed to attach to command output",
			"")
	}
	session.Stderr = io.Discard

	if err := session.Start(cmd); err != nil {
		session.Close()
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Failed to start command: %s", cmd),
			"Check the command exists on the appliance.")
	}

	return &commandStream{cmd: cmd, session: session, stdout: stdout}, nil
}

type commandStream struct {
	cmd     string
	session *ssh.Session
	stdout  io.Reader
	closed  bool
}

func (s *commandStream) Read(p []byte) (int, error) {
	n, err := s.stdout.Read(p)
	if err != nil && err != io.EOF {
		return n, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Reading output of '%s' failed", s.cmd),
			"")
	}
	return n, err
}

func (s *commandStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	defer s.session.Close()

	if _, err := io.Copy(io.Discard, s.stdout); err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Draining output of '%s' failed", s.cmd),
			"")
	}

	if err := s.session.Wait(); err != nil {
		var exitErr *ssh.ExitError
		var missing *ssh.ExitMissingError
		if stderrors.As(err, &exitErr) || stderrors.As(err, &missing) {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Command '%s' did not finish cleanly", s.cmd),
			"")
	}
	return nil
}
