package keys

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/hostprep/internal/errors"
)

// LocalKey describes one key pair in the invoking user's ~/.ssh.
type LocalKey struct {
	Path       string // private key path
	Type       string // ed25519, rsa, ecdsa
	PublicPath string
	HasPublic  bool
}

// defaultKeyPaths returns the standard private key locations, preferred
// type first.
func defaultKeyPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".ssh", "id_ed25519"),
		filepath.Join(home, ".ssh", "id_ecdsa"),
		filepath.Join(home, ".ssh", "id_rsa"),
	}
}

// FindLocalKeys lists the key pairs present in the standard locations.
func FindLocalKeys() []LocalKey {
	var found []LocalKey
	for _, path := range defaultKeyPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		pubPath := path + ".pub"
		_, pubErr := os.Stat(pubPath)
		found = append(found, LocalKey{
			Path:       path,
			Type:       inferKeyType(path),
			PublicPath: pubPath,
			HasPublic:  pubErr == nil,
		})
	}
	return found
}

// PreferredLocalKey picks the best key pair to push: the first one in
// type-preference order with a readable public half.
func PreferredLocalKey() *LocalKey {
	local := FindLocalKeys()
	for i := range local {
		if local[i].HasPublic {
			return &local[i]
		}
	}
	return nil
}

// ReadPublicKey reads a public key file, trimmed to one line.
func ReadPublicKey(pubPath string) (string, error) {
	data, err := os.ReadFile(pubPath)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Couldn't read %s", pubPath),
			"Generate a key pair first with 'ssh-keygen -t ed25519'.")
	}
	return strings.TrimSpace(string(data)), nil
}

// GenerateKey creates a new key pair with ssh-keygen. Only used
// interactively, when a push would otherwise have nothing to send.
func GenerateKey(path, keyType string) error {
	if keyType == "" {
		keyType = "ed25519"
	}
	switch keyType {
	case "ed25519", "ecdsa", "rsa":
	default:
		return errors.New(errors.ErrSSH,
			fmt.Sprintf("Invalid key type: %s", keyType),
			"Supported types: ed25519 (recommended), ecdsa, rsa")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Couldn't create %s", filepath.Dir(path)), "")
	}
	if _, err := os.Stat(path); err == nil {
		return errors.New(errors.ErrSSH,
			fmt.Sprintf("Key already exists at %s", path),
			"Choose a different path or remove the existing key.")
	}

	args := []string{
		"-t", keyType,
		"-f", path,
		"-N", "",
		"-C", fmt.Sprintf("hostprep-generated-%s", keyType),
	}
	if keyType == "rsa" {
		args = append(args, "-b", "4096")
	}

	out, err := exec.Command("ssh-keygen", args...).CombinedOutput()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("ssh-keygen failed: %s", strings.TrimSpace(string(out))),
			"Check that openssh-client is installed.")
	}
	return nil
}

// inferKeyType reads the key type out of the conventional file name.
func inferKeyType(path string) string {
	base := filepath.Base(path)
	switch {
	case strings.Contains(base, "ed25519"):
		return "ed25519"
	case strings.Contains(base, "ecdsa"):
		return "ecdsa"
	case strings.Contains(base, "rsa"):
		return "rsa"
	}
	return "unknown"
}
