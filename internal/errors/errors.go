package errors

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig   = "CONFIG"
	ErrSSH      = "SSH"
	ErrExec     = "EXEC"
	ErrDecode   = "DECODE"
	ErrTopology = "TOPOLOGY"
	ErrTerminal = "TERMINAL"
)

// maxStackDepth bounds how many frames are captured per error.
const maxStackDepth = 32

// Error represents a structured error with code, message, suggestion, and optional cause.
// Error messages follow this layout:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
//
// Every constructor records the call stack so the fatal dump can show where
// the failure was first observed.
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error

	stack []uintptr
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		stack:      callers(),
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrSSH code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrSSH,
		Message: message,
		Cause:   err,
		stack:   callers(),
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
		stack:      callers(),
	}
}

// Decodef creates an ErrDecode error for output a remote tool produced in an unexpected shape.
func Decodef(cause error, format string, args ...interface{}) *Error {
	return &Error{
		Code:       ErrDecode,
		Message:    fmt.Sprintf(format, args...),
		Suggestion: "The appliance returned output in an unexpected format. Check the firmware version.",
		Cause:      cause,
		stack:      callers(),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	// First line: failure symbol + main message
	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	// Include cause if present (why it failed)
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	// Include suggestion if present (how to fix)
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// StackTrace formats the call stack captured when the error was created.
func (e *Error) StackTrace() string {
	return formatStack(e.stack)
}

func formatStack(pcs []uintptr) string {
	if len(pcs) == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return b.String()
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rrErr *Error
	if errors.As(err, &rrErr) {
		return rrErr.Code == code
	}
	return false
}

// Dump writes the diagnostic report for a fatal error: the error itself, every
// link of its cause chain, the first suggestion found, and the stack captured
// by the innermost structured error. A chain without one gets the stack of
// the Dump call instead.
func Dump(w io.Writer, err error) {
	if err == nil {
		return
	}

	var (
		suggestion string
		innermost  *Error
	)

	for i, link := 0, err; link != nil; i, link = i+1, errors.Unwrap(link) {
		// Wrapped stdlib errors repeat their causes; the chain below prints those.
		text, _, _ := strings.Cut(link.Error(), "\n")
		if rrErr, ok := link.(*Error); ok {
			text = fmt.Sprintf("[%s] %s", rrErr.Code, rrErr.Message)
			if suggestion == "" {
				suggestion = rrErr.Suggestion
			}
			innermost = rrErr
		}

		if i == 0 {
			fmt.Fprintf(w, "%s\n", text)
		} else {
			fmt.Fprintf(w, "caused by: %s\n", text)
		}
	}

	if suggestion != "" {
		fmt.Fprintf(w, "\n%s\n", suggestion)
	}

	var trace string
	if innermost != nil {
		trace = innermost.StackTrace()
	}
	if trace == "" {
		// Nothing in the chain captured a stack; record where the dump happened.
		trace = formatStack(callers())
	}
	fmt.Fprintf(w, "\n%s", trace)
}

func callers() []uintptr {
	pcs := make([]uintptr, maxStackDepth)
	// Skip runtime.Callers, callers, and the constructor itself.
	n := runtime.Callers(3, pcs)
	return pcs[:n]
}
