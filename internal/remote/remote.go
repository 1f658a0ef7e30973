// Package remote layers the read contracts the probes rely on over a single
// command invocation: whole text, first line, lazy lines, and JSON records.
package remote

import (
	"bufio"
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/pkg/sshutil"
)

// Runner is the part of the session the read contracts need.
type Runner interface {
	Run(cmd string) (io.ReadCloser, error)
}

// FileReader reads whole remote files.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

var _ Runner = (sshutil.SSHClient)(nil)

// ReadAll runs cmd and returns its complete stdout.
func ReadAll(r Runner, cmd string) ([]byte, error) {
	stream, err := r.Run(cmd)
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(stream)
	if cerr := stream.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadString runs cmd and returns its stdout as text.
func ReadString(r Runner, cmd string) (string, error) {
	out, err := ReadAll(r, cmd)
	return string(out), err
}

// ReadLine runs cmd and returns the first line of its output without the
// line terminator. Empty output yields "".
func ReadLine(r Runner, cmd string) (string, error) {
	lines, err := Lines(r, cmd)
	if err != nil {
		return "", err
	}
	defer lines.Close()

	line := ""
	if lines.Next() {
		line = lines.Text()
	}
	if err := lines.Err(); err != nil {
		return "", err
	}
	return line, nil
}

// LineReader yields the output of one invocation line by line. It is not
// restartable; running the command again is the only way to re-read.
type LineReader struct {
	cmd     string
	stream  io.ReadCloser
	scanner *bufio.Scanner
	err     error
}

// Lines runs cmd and returns a lazy reader over its output lines.
// The caller must Close the reader.
func Lines(r Runner, cmd string) (*LineReader, error) {
	stream, err := r.Run(cmd)
	if err != nil {
		return nil, err
	}
	return &LineReader{cmd: cmd, stream: stream, scanner: bufio.NewScanner(stream)}, nil
}

// Next advances to the next line, reporting false at end of output or on error.
func (l *LineReader) Next() bool {
	if l.err != nil {
		return false
	}
	if l.scanner.Scan() {
		return true
	}
	l.err = l.scanErr(l.scanner.Err())
	return false
}

// scanErr keeps transport errors from the stream as they are. Anything else
// the scanner reports, such as a line over its buffer limit, is about the
// shape of the output.
func (l *LineReader) scanErr(err error) error {
	if err == nil {
		return nil
	}
	var structured *errors.Error
	if stderrors.As(err, &structured) {
		return err
	}
	return errors.Decodef(err, "reading output of '%s'", l.cmd)
}

// Text returns the current line.
func (l *LineReader) Text() string {
	return strings.TrimSuffix(l.scanner.Text(), "\r")
}

// Err returns the first read error.
func (l *LineReader) Err() error {
	return l.err
}

// Close drains the remaining output and releases the invocation.
func (l *LineReader) Close() error {
	err := l.stream.Close()
	if l.err == nil {
		l.err = err
	}
	return err
}

// DecodeJSON runs cmd and decodes its stdout into a value of type T. Output
// that is not valid JSON or does not fit T is a decode error.
func DecodeJSON[T any](r Runner, cmd string) (T, error) {
	var v T
	out, err := ReadAll(r, cmd)
	if err != nil {
		return v, err
	}
	if err := unmarshal(out, &v); err != nil {
		return v, errors.Decodef(err, "output of '%s' is not the expected JSON record", cmd)
	}
	return v, nil
}

// DecodeFileJSON reads a remote file and decodes it into a value of type T.
func DecodeFileJSON[T any](f FileReader, path string) (T, error) {
	var v T
	data, err := f.ReadFile(path)
	if err != nil {
		return v, err
	}
	if err := unmarshal(data, &v); err != nil {
		return v, errors.Decodef(err, "%s is not the expected JSON record", path)
	}
	return v, nil
}

func unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	return dec.Decode(v)
}
