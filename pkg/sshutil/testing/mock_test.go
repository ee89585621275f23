package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockFS_MkdirAll(t *testing.T) {
	fs := NewMockFS()

	// Should create nested dirs
	err := fs.MkdirAll("/a/b/c/d")
	require.NoError(t, err)

	assert.True(t, fs.IsDir("/a"))
	assert.True(t, fs.IsDir("/a/b"))
	assert.True(t, fs.IsDir("/a/b/c"))
	assert.True(t, fs.IsDir("/a/b/c/d"))
}

func TestMockFS_MkdirAll_TildePath(t *testing.T) {
	fs := NewMockFS()

	// Remote commands leave ~ unexpanded; the mock treats it as a literal path
	err := fs.MkdirAll("~/.ssh")
	require.NoError(t, err)

	assert.True(t, fs.IsDir("~/.ssh"))
}

func TestMockFS_WriteAndReadFile(t *testing.T) {
	fs := NewMockFS()

	// Write a file
	err := fs.WriteFile("/tmp/hello.txt", []byte("hello world"))
	require.NoError(t, err)

	// Read it back
	content, err := fs.ReadFile("/tmp/hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(content))

	// Check it exists as a file
	assert.True(t, fs.IsFile("/tmp/hello.txt"))
	assert.False(t, fs.IsDir("/tmp/hello.txt"))
}

func TestMockFS_ReadFile_NotFound(t *testing.T) {
	fs := NewMockFS()

	_, err := fs.ReadFile("/nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMockFS_Exists(t *testing.T) {
	fs := NewMockFS()

	assert.False(t, fs.Exists("/nonexistent"))

	fs.WriteFile("/tmp/file.txt", []byte("content"))
	assert.True(t, fs.Exists("/tmp/file.txt"))

	fs.MkdirAll("/tmp/dir")
	assert.True(t, fs.Exists("/tmp/dir"))
}

func TestMockFS_IsFile(t *testing.T) {
	fs := NewMockFS()

	fs.WriteFile("/tmp/file.txt", []byte("content"))
	fs.MkdirAll("/tmp/dir")

	assert.True(t, fs.IsFile("/tmp/file.txt"))
	assert.False(t, fs.IsFile("/tmp/dir"))
	assert.False(t, fs.IsFile("/nonexistent"))
}

func TestMockClient_Exec_MkdirP(t *testing.T) {
	client := NewMockClient("testhost")

	_, _, code, err := client.Exec(`mkdir -p /tmp/a/b/c`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	assert.True(t, client.GetFS().IsDir("/tmp/a/b/c"))
	assert.True(t, client.GetFS().IsDir("/tmp/a/b"))
	assert.True(t, client.GetFS().IsDir("/tmp/a"))
}

func TestMockClient_Exec_MkdirCompound(t *testing.T) {
	client := NewMockClient("testhost")

	// The directory-prep command chains chmod; only the mkdir matters here
	_, _, code, err := client.Exec(`mkdir -p ~/.ssh && chmod 700 ~/.ssh`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.True(t, client.GetFS().IsDir("~/.ssh"))
}

func TestMockClient_Exec_CatWrite(t *testing.T) {
	client := NewMockClient("testhost")

	cmd := `cat > ~/.ssh/authorized_keys << 'EOF'
ssh-ed25519 AAAA alice
ssh-rsa BBBB bob
EOF`
	_, _, code, err := client.Exec(cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	content, err := client.GetFS().ReadFile("~/.ssh/authorized_keys")
	require.NoError(t, err)
	assert.Equal(t, "ssh-ed25519 AAAA alice\nssh-rsa BBBB bob", string(content))
}

func TestMockClient_Exec_CatRead(t *testing.T) {
	client := NewMockClient("testhost")

	// Write a file first
	client.GetFS().WriteFile("/tmp/data.txt", []byte("test data"))

	// Read it via cat
	stdout, _, code, err := client.Exec(`cat /tmp/data.txt`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "test data", string(stdout))
}

func TestMockClient_Exec_CatRead_NotFound(t *testing.T) {
	client := NewMockClient("testhost")

	_, stderr, code, err := client.Exec(`cat /nonexistent`)
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, string(stderr), "No such file")
}

func TestMockClient_Exec_Cp(t *testing.T) {
	client := NewMockClient("testhost")
	client.GetFS().WriteFile("~/.ssh/authorized_keys", []byte("ssh-ed25519 AAAA alice"))

	_, _, code, err := client.Exec(`cp -p ~/.ssh/authorized_keys ~/.ssh/authorized_keys.bak.20260821120000`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	content, err := client.GetFS().ReadFile("~/.ssh/authorized_keys.bak.20260821120000")
	require.NoError(t, err)
	assert.Equal(t, "ssh-ed25519 AAAA alice", string(content))
}

func TestMockClient_Exec_Cp_MissingSource(t *testing.T) {
	client := NewMockClient("testhost")

	_, stderr, code, err := client.Exec(`cp -p /nope /nope.bak`)
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, string(stderr), "No such file")
}

func TestMockClient_Exec_Chmod(t *testing.T) {
	client := NewMockClient("testhost")

	_, _, code, err := client.Exec(`chmod 600 ~/.ssh/authorized_keys`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestMockClient_Exec_TestFile(t *testing.T) {
	client := NewMockClient("testhost")
	client.GetFS().WriteFile("/tmp/myfile.txt", []byte("content"))

	_, _, code, err := client.Exec(`test -f /tmp/myfile.txt`)
	require.NoError(t, err)
	assert.Equal(t, 0, code, "file should exist")

	_, _, code, err = client.Exec(`test -f /tmp/nonexistent.txt`)
	require.NoError(t, err)
	assert.Equal(t, 1, code, "file should not exist")
}

func TestMockClient_Exec_TestDir(t *testing.T) {
	client := NewMockClient("testhost")
	client.GetFS().MkdirAll("/tmp/mydir")

	_, _, code, err := client.Exec(`test -d /tmp/mydir`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	_, _, code, err = client.Exec(`[ -d /tmp/other ]`)
	require.NoError(t, err)
	assert.Equal(t, 1, code)
}

func TestMockClient_StripRedirects(t *testing.T) {
	client := NewMockClient("testhost")
	client.GetFS().WriteFile("/tmp/test.txt", []byte("data"))

	// Command with 2>/dev/null should still work
	stdout, _, code, err := client.Exec(`cat /tmp/test.txt 2>/dev/null`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "data", string(stdout))
}

func TestMockClient_CustomResponse(t *testing.T) {
	client := NewMockClient("testhost")

	// Set a custom response
	client.SetCommandResponse("custom-cmd", CommandResponse{
		Stdout:   []byte("custom output"),
		ExitCode: 42,
	})

	stdout, _, code, err := client.Exec("custom-cmd")
	require.NoError(t, err)
	assert.Equal(t, 42, code)
	assert.Equal(t, "custom output", string(stdout))
}

func TestMockClient_RegexPattern(t *testing.T) {
	client := NewMockClient("testhost")

	// Set a regex pattern response
	client.SetCommandResponse("echo .*", CommandResponse{
		Stdout:   []byte("matched"),
		ExitCode: 0,
	})

	stdout, _, code, err := client.Exec("echo hello world")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "matched", string(stdout))
}

func TestMockClient_CustomError(t *testing.T) {
	client := NewMockClient("testhost")

	// Set a custom error response
	client.SetCommandResponse("fail-cmd", CommandResponse{
		Error: assert.AnError,
	})

	_, _, _, err := client.Exec("fail-cmd")
	assert.Error(t, err)
}

func TestMockClient_Close(t *testing.T) {
	client := NewMockClient("testhost")

	// Should work before close
	_, _, _, err := client.Exec("echo test")
	require.NoError(t, err)

	// Close
	err = client.Close()
	require.NoError(t, err)

	// Should fail after close
	_, _, _, err = client.Exec("echo test")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestMockClient_GetHostAndAddress(t *testing.T) {
	client := NewMockClient("myserver")

	assert.Equal(t, "myserver", client.GetHost())
	assert.Equal(t, "myserver:22", client.GetAddress())
}

func TestMockClient_ExecutedCommands(t *testing.T) {
	client := NewMockClient("testhost")

	client.Exec("mkdir -p ~/.ssh && chmod 700 ~/.ssh")
	client.Exec("cat ~/.ssh/authorized_keys")

	got := client.ExecutedCommands()
	require.Len(t, got, 2)
	assert.Equal(t, "mkdir -p ~/.ssh && chmod 700 ~/.ssh", got[0])
	assert.Equal(t, "cat ~/.ssh/authorized_keys", got[1])
}

func TestMockClient_Exec_UnknownCommand(t *testing.T) {
	client := NewMockClient("testhost")

	// Unknown commands should return success by default
	_, _, code, err := client.Exec("unknown-command arg1 arg2")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestHelpers_WithFiles(t *testing.T) {
	client := NewMockClient("testhost")

	WithFiles(client, map[string]string{
		"/tmp/a.txt": "content a",
		"/tmp/b.txt": "content b",
	})

	a, err := client.GetFS().ReadFile("/tmp/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "content a", string(a))

	b, err := client.GetFS().ReadFile("/tmp/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "content b", string(b))
}

func TestHelpers_WithDirs(t *testing.T) {
	client := NewMockClient("testhost")

	WithDirs(client, []string{"/a/b", "/c/d/e"})

	assert.True(t, client.GetFS().IsDir("/a/b"))
	assert.True(t, client.GetFS().IsDir("/c/d/e"))
}

func TestExtractPath(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "double quoted",
			input:  `"/path/to/file"`,
			expect: "/path/to/file",
		},
		{
			name:   "single quoted",
			input:  `'/path/to/file'`,
			expect: "/path/to/file",
		},
		{
			name:   "unquoted",
			input:  "/path/to/file",
			expect: "/path/to/file",
		},
		{
			name:   "with trailing text",
			input:  "/path/to/file extra stuff",
			expect: "/path/to/file",
		},
		{
			name:   "tilde path",
			input:  "~/.ssh/authorized_keys",
			expect: "~/.ssh/authorized_keys",
		},
		{
			name:   "tilde with quoted remainder",
			input:  "~/'.ssh/authorized keys'",
			expect: "~/.ssh/authorized keys",
		},
		{
			name:   "quoted with trailing text",
			input:  "'/a path' && chmod 700 '/a path'",
			expect: "/a path",
		},
		{
			name:   "empty",
			input:  "",
			expect: "",
		},
		{
			name:   "whitespace only",
			input:  "   ",
			expect: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractPath(tt.input)
			assert.Equal(t, tt.expect, result)
		})
	}
}
