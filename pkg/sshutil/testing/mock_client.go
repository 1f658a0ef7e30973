package testing

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sync"
)

// CommandResponse defines a canned response for a command.
type CommandResponse struct {
	Stdout string
	Error  error
}

type patternResponse struct {
	re   *regexp.Regexp
	resp CommandResponse
}

// MockClient simulates the appliance for testing.
// Commands resolve against exact matches first, then regex patterns in
// registration order. Unknown commands produce empty output, the same way a
// missing tool with stderr discarded would.
type MockClient struct {
	mu       sync.Mutex
	host     string
	address  string
	closed   bool
	commands map[string]CommandResponse
	patterns []patternResponse
	files    map[string][]byte
	log      []string
}

// NewMockClient creates a new mock SSH client with no canned responses.
func NewMockClient(host string) *MockClient {
	return &MockClient{
		host:     host,
		address:  host + ":22",
		commands: make(map[string]CommandResponse),
		files:    make(map[string][]byte),
	}
}

// Run returns the canned stdout for cmd as a stream.
func (m *MockClient) Run(cmd string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errors.New("connection closed")
	}
	m.log = append(m.log, cmd)

	resp, ok := m.commands[cmd]
	if !ok {
		for _, p := range m.patterns {
			if p.re.MatchString(cmd) {
				resp = p.resp
				break
			}
		}
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return io.NopCloser(bytes.NewReader([]byte(resp.Stdout))), nil
}

// ReadFile returns the contents registered with SetFile.
func (m *MockClient) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errors.New("connection closed")
	}
	m.log = append(m.log, "sftp get "+path)

	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("sftp: open %s: file does not exist", path)
	}
	return append([]byte(nil), data...), nil
}

// Close marks the connection as closed.
func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// GetHost returns the host name.
func (m *MockClient) GetHost() string {
	return m.host
}

// GetAddress returns the host:port address.
func (m *MockClient) GetAddress() string {
	return m.address
}

// SetOutput registers the stdout of an exact command.
func (m *MockClient) SetOutput(cmd, stdout string) {
	m.SetCommandResponse(cmd, CommandResponse{Stdout: stdout})
}

// SetCommandResponse registers a canned response for an exact command.
func (m *MockClient) SetCommandResponse(cmd string, resp CommandResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands[cmd] = resp
}

// SetPatternResponse registers a canned response for every command matching pattern.
func (m *MockClient) SetPatternResponse(pattern string, resp CommandResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = append(m.patterns, patternResponse{re: regexp.MustCompile(pattern), resp: resp})
}

// SetFile registers the contents returned by ReadFile for path.
func (m *MockClient) SetFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
}

// Commands returns every command issued so far, in order.
func (m *MockClient) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.log...)
}

// ResetCommands clears the command log.
func (m *MockClient) ResetCommands() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = nil
}
