package errors

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrSSH,
		ErrExec,
		ErrDecode,
		ErrTopology,
		ErrTerminal,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Config file not found",
			suggestion: "Run 'fwdash init' to create one",
		},
		{
			name:       "ssh error",
			code:       ErrSSH,
			message:    "SSH handshake with 'router' didn't go through",
			suggestion: "Check your keys are loaded: ssh-add -l",
		},
		{
			name:       "topology error",
			code:       ErrTopology,
			message:    "gateway WAN_GW is defined on interface opt9 but this interface does not exist",
			suggestion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorMessageStructure(t *testing.T) {
	err := WrapWithCode(
		errors.New("dial tcp 192.0.2.1:22: i/o timeout"),
		ErrSSH,
		"Can't reach 'router'",
		"Make sure the host is reachable: ping <host>",
	)

	output := err.Error()
	lines := strings.Split(output, "\n")

	assert.True(t, strings.HasPrefix(lines[0], "✗"), "first line should start with failure symbol")
	assert.Contains(t, lines[0], "Can't reach 'router'")
	assert.Contains(t, output, "i/o timeout")
	assert.Contains(t, output, "ping <host>")
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying network error")
	wrapped := Wrap(cause, "SSH connection failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, ErrSSH, wrapped.Code, "Wrap should default to ErrSSH code")
	assert.Equal(t, cause, wrapped.Cause)
	assert.True(t, errors.Is(wrapped, cause))
}

func TestDecodef(t *testing.T) {
	cause := errors.New(`strconv.ParseUint: parsing "abc": invalid syntax`)
	err := Decodef(cause, "dpinger line %q is malformed", "WAN_GW abc")

	assert.Equal(t, ErrDecode, err.Code)
	assert.Equal(t, `dpinger line "WAN_GW abc" is malformed`, err.Message)
	assert.NotEmpty(t, err.Suggestion)
	assert.True(t, IsCode(err, ErrDecode))
}

func TestIsCode(t *testing.T) {
	err := New(ErrConfig, "Config error", "")

	assert.True(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(err, ErrSSH))
	assert.False(t, IsCode(errors.New("standard error"), ErrConfig))
	assert.False(t, IsCode(nil, ErrConfig))

	// Codes are found through fmt.Errorf wrapping too
	assert.True(t, IsCode(fmt.Errorf("cycle 3: %w", err), ErrConfig))
}

func TestStackTrace(t *testing.T) {
	err := New(ErrExec, "boom", "")

	trace := err.StackTrace()
	require.NotEmpty(t, trace)
	assert.Contains(t, trace, "TestStackTrace", "stack should start at the caller of New")
	assert.NotContains(t, trace, "errors.callers")

	assert.Empty(t, (&Error{}).StackTrace())
}

func TestDump(t *testing.T) {
	root := errors.New("connection reset by peer")
	inner := WrapWithCode(root, ErrExec, "Reading output of '/sbin/pfctl -s info' failed", "")
	outer := WrapWithCode(inner, ErrExec, "Polling cycle failed", "The dashboard stops on the first failed cycle.")

	var buf bytes.Buffer
	Dump(&buf, fmt.Errorf("dashboard: %w", outer))
	out := buf.String()

	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], "dashboard:"))
	assert.Equal(t, "caused by: [EXEC] Polling cycle failed", lines[1])
	assert.Equal(t, "caused by: [EXEC] Reading output of '/sbin/pfctl -s info' failed", lines[2])
	assert.Equal(t, "caused by: connection reset by peer", lines[3])
	assert.Contains(t, out, "The dashboard stops on the first failed cycle.")
	assert.Contains(t, out, "TestDump", "innermost stack should be printed")
}

func TestDump_PlainErrorGetsDumpSiteStack(t *testing.T) {
	var buf bytes.Buffer
	Dump(&buf, fmt.Errorf("write /dev/stdout: %w", errors.New("broken pipe")))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "write /dev/stdout: broken pipe\ncaused by: broken pipe\n"))
	assert.Contains(t, out, "TestDump_PlainErrorGetsDumpSiteStack")
	assert.Contains(t, out, "errors_test.go:")
}

func TestDump_Nil(t *testing.T) {
	var buf bytes.Buffer
	Dump(&buf, nil)
	assert.Empty(t, buf.String())
}
