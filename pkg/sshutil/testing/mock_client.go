package testing

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/rileyhilliard/hostprep/pkg/sshutil"
)

// CommandResponse defines a canned response for a specific command pattern.
type CommandResponse struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Error    error
}

// MockClient simulates an SSH connection for testing.
// It parses the shell commands hostprep composes against a remote account
// (mkdir -p, chmod, cat, cp, test) and executes them against a virtual
// filesystem, so key provisioning logic can be tested end to end without a
// real host.
type MockClient struct {
	mu       sync.Mutex
	host     string
	address  string
	fs       *MockFS
	closed   bool
	commands map[string]CommandResponse // pattern -> response
	executed []string                   // every command passed to Exec, in order
}

// NewMockClient creates a new mock SSH client with an empty filesystem.
func NewMockClient(host string) *MockClient {
	return &MockClient{
		host:     host,
		address:  host + ":22",
		fs:       NewMockFS(),
		commands: make(map[string]CommandResponse),
	}
}

// Exec runs a command against the virtual filesystem.
// Configured responses take precedence; otherwise common shell commands are
// parsed and delegated to the filesystem.
func (m *MockClient) Exec(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, nil, -1, errors.New("connection closed")
	}

	m.executed = append(m.executed, cmd)

	// Check for exact command matches first
	if resp, ok := m.commands[cmd]; ok {
		return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Error
	}

	// Check for pattern matches
	for pattern, resp := range m.commands {
		if matched, _ := regexp.MatchString(pattern, cmd); matched {
			return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Error
		}
	}

	// Parse and execute common commands
	return m.parseAndExecute(cmd)
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

// SetCommandResponse registers a canned response for a command pattern.
// The pattern can be an exact string or a regex pattern.
func (m *MockClient) SetCommandResponse(pattern string, resp CommandResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands[pattern] = resp
}

// GetFS returns the mock filesystem for direct manipulation in tests.
func (m *MockClient) GetFS() *MockFS {
	return m.fs
}

// ExecutedCommands returns every command run through Exec, in order.
func (m *MockClient) ExecutedCommands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.executed))
	copy(out, m.executed)
	return out
}

// parseAndExecute handles the shell commands hostprep runs on remote hosts.
func (m *MockClient) parseAndExecute(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	// Strip common redirects
	cmd = strings.TrimSuffix(cmd, " 2>/dev/null")
	cmd = strings.TrimSuffix(cmd, " 2>&1")
	cmd = strings.TrimSpace(cmd)

	// Handle mkdir -p (possibly the first half of "mkdir -p X && chmod ...")
	if strings.HasPrefix(cmd, "mkdir -p ") {
		return m.handleMkdir(cmd)
	}

	// Handle cat with heredoc (write)
	if strings.HasPrefix(cmd, "cat >") {
		return m.handleCatWrite(cmd)
	}

	// Handle cat (read)
	if strings.HasPrefix(cmd, "cat ") {
		return m.handleCatRead(cmd)
	}

	// Handle cp (remote backup)
	if strings.HasPrefix(cmd, "cp ") {
		return m.handleCp(cmd)
	}

	// Handle chmod (tracked as a no-op; the mock FS has no modes)
	if strings.HasPrefix(cmd, "chmod ") {
		return nil, nil, 0, nil
	}

	// Handle test -d (directory exists)
	if strings.HasPrefix(cmd, "test -d ") || strings.HasPrefix(cmd, "[ -d ") {
		return m.handleTestDir(cmd)
	}

	// Handle test -f (file exists)
	if strings.HasPrefix(cmd, "test -f ") || strings.HasPrefix(cmd, "[ -f ") {
		return m.handleTestFile(cmd)
	}

	// Unknown command - return success by default
	return nil, nil, 0, nil
}

// handleMkdir processes: mkdir -p path [&& chmod ...]
func (m *MockClient) handleMkdir(cmd string) ([]byte, []byte, int, error) {
	args := strings.TrimSpace(strings.TrimPrefix(cmd, "mkdir -p "))

	path := extractPath(args)
	if path == "" {
		return nil, []byte("mkdir: missing operand"), 1, nil
	}

	// mkdir -p: create all parent directories, don't fail if exists
	if err := m.fs.MkdirAll(path); err != nil {
		return nil, []byte("mkdir: cannot create directory: " + err.Error()), 1, nil
	}
	return nil, nil, 0, nil
}

// handleCatWrite processes: cat > path << 'MARKER'\ncontent\nMARKER
func (m *MockClient) handleCatWrite(cmd string) ([]byte, []byte, int, error) {
	pathStart := strings.Index(cmd, ">")
	rest := strings.TrimSpace(cmd[pathStart+1:])

	// Find heredoc marker
	heredocIdx := strings.Index(rest, "<<")
	if heredocIdx == -1 {
		// Simple redirect without heredoc - just create empty file
		path := extractPath(rest)
		if path == "" {
			return nil, []byte("cat: missing output file"), 1, nil
		}
		_ = m.fs.WriteFile(path, nil)
		return nil, nil, 0, nil
	}

	path := extractPath(strings.TrimSpace(rest[:heredocIdx]))
	if path == "" {
		return nil, []byte("cat: missing output file"), 1, nil
	}

	// Extract content between heredoc markers
	heredocPart := strings.TrimSpace(rest[heredocIdx+2:])

	// Find the marker (e.g., 'EOF')
	marker := ""
	if strings.HasPrefix(heredocPart, "'") {
		endQuote := strings.Index(heredocPart[1:], "'")
		if endQuote != -1 {
			marker = heredocPart[1 : endQuote+1]
			heredocPart = strings.TrimSpace(heredocPart[endQuote+2:])
		}
	} else {
		// Unquoted marker
		parts := strings.Fields(heredocPart)
		if len(parts) > 0 {
			marker = parts[0]
			heredocPart = strings.TrimPrefix(heredocPart, marker)
			heredocPart = strings.TrimSpace(heredocPart)
		}
	}

	// Find content between first newline and marker
	content := heredocPart
	if marker != "" {
		// Remove the trailing marker
		markerIdx := strings.LastIndex(content, marker)
		if markerIdx != -1 {
			content = content[:markerIdx]
		}
	}

	// Trim leading newline but preserve content
	content = strings.TrimPrefix(content, "\n")
	content = strings.TrimSuffix(content, "\n")

	_ = m.fs.WriteFile(path, []byte(content))
	return nil, nil, 0, nil
}

// handleCatRead processes: cat path
func (m *MockClient) handleCatRead(cmd string) ([]byte, []byte, int, error) {
	path := extractPath(strings.TrimPrefix(cmd, "cat "))
	if path == "" {
		return nil, []byte("cat: missing file operand"), 1, nil
	}

	content, err := m.fs.ReadFile(path)
	if err != nil {
		return nil, []byte("cat: " + path + ": No such file or directory"), 1, nil
	}
	return content, nil, 0, nil
}

// handleCp processes: cp [-p] src dst
func (m *MockClient) handleCp(cmd string) ([]byte, []byte, int, error) {
	args := strings.TrimSpace(strings.TrimPrefix(cmd, "cp "))
	args = strings.TrimSpace(strings.TrimPrefix(args, "-p "))

	fields := strings.Fields(args)
	if len(fields) < 2 {
		return nil, []byte("cp: missing file operand"), 1, nil
	}

	src := extractPath(fields[0])
	dst := extractPath(fields[len(fields)-1])

	content, err := m.fs.ReadFile(src)
	if err != nil {
		return nil, []byte("cp: cannot stat '" + src + "': No such file or directory"), 1, nil
	}

	_ = m.fs.WriteFile(dst, content)
	return nil, nil, 0, nil
}

// handleTestDir processes: test -d path or [ -d path ]
func (m *MockClient) handleTestDir(cmd string) ([]byte, []byte, int, error) {
	path := ""
	if strings.HasPrefix(cmd, "test -d ") {
		path = extractPath(strings.TrimPrefix(cmd, "test -d "))
	} else {
		path = extractPath(strings.TrimPrefix(strings.TrimSuffix(cmd, " ]"), "[ -d "))
	}

	if m.fs.IsDir(path) {
		return nil, nil, 0, nil
	}
	return nil, nil, 1, nil
}

// handleTestFile processes: test -f path or [ -f path ]
func (m *MockClient) handleTestFile(cmd string) ([]byte, []byte, int, error) {
	path := ""
	if strings.HasPrefix(cmd, "test -f ") {
		path = extractPath(strings.TrimPrefix(cmd, "test -f "))
	} else {
		path = extractPath(strings.TrimPrefix(strings.TrimSuffix(cmd, " ]"), "[ -f "))
	}

	if m.fs.IsFile(path) {
		return nil, nil, 0, nil
	}
	return nil, nil, 1, nil
}

// extractPath extracts the first path token from a command argument,
// unquoting it the way a shell would. Handles bare tokens, fully quoted
// tokens, and the mixed ~/'rest/of/path' form used for tilde-relative
// remote paths.
func extractPath(arg string) string {
	arg = strings.TrimSpace(arg)

	var b strings.Builder
	inSingle := false
	inDouble := false
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		switch {
		case inSingle:
			if c == '\'' {
				inSingle = false
			} else {
				b.WriteByte(c)
			}
		case inDouble:
			if c == '"' {
				inDouble = false
			} else {
				b.WriteByte(c)
			}
		case c == '\'':
			inSingle = true
		case c == '"':
			inDouble = true
		case c == ' ' || c == '\t':
			return b.String()
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Interface compliance check.
var _ sshutil.SSHClient = (*MockClient)(nil)
