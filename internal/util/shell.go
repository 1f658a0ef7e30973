// Package util provides small helpers shared across the codebase.
package util

import "strings"

// ShellQuote wraps a string in single quotes, escaping any existing single quotes.
// The remote shell treats the result as one literal word.
func ShellQuote(s string) string {
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// ShellWord returns s unchanged when the shell would read it as one literal
// word, and single-quoted otherwise.
func ShellWord(s string) string {
	if s == "" {
		return "''"
	}
	for _, c := range s {
		if !isShellSafe(c) {
			return ShellQuote(s)
		}
	}
	return s
}

// ShellCommand builds a remote command line from a program path and arguments.
func ShellCommand(program string, args ...string) string {
	var b strings.Builder
	b.WriteString(program)
	for _, arg := range args {
		b.WriteByte(' ')
		b.WriteString(ShellWord(arg))
	}
	return b.String()
}

func isShellSafe(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.ContainsRune("-_./=,:@%+", c)
}
