package sshutil

import (
	"fmt"
	"io"

	"github.com/pkg/sftp"
	"github.com/rileyhilliard/fwdash/internal/errors"
)

// MaxFileSize bounds ReadFile. config.xml on a busy appliance is a few
// megabytes at most.
const MaxFileSize = 32 << 20

// ReadFile fetches a remote file in full over the SFTP subsystem.
func (c *Client) ReadFile(path string) ([]byte, error) {
	sc, err := sftp.NewClient(c.Client)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSSH,
			"Failed to start an SFTP session",
			"Check that the SFTP subsystem is enabled for the SSH user on the appliance.")
	}
	defer sc.Close()

	return readRemoteFile(sc, path, MaxFileSize)
}

func readRemoteFile(sc *sftp.Client, path string, limit int64) ([]byte, error) {
	f, err := sc.Open(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Failed to open %s on the appliance", path),
			"Check the file exists and is readable by the SSH user.")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			fmt.Sprintf("Failed to read %s from the appliance", path),
			"")
	}
	if int64(len(data)) > limit {
		return nil, errors.New(errors.ErrExec,
			fmt.Sprintf("%s is larger than %d bytes", path, limit),
			"")
	}
	return data, nil
}
