package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultCredentialFile returns the default credential file location,
// $XDG_CONFIG_HOME/workspace-mcp/credentials.json (or the OS equivalent).
func DefaultCredentialFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "workspace-mcp", "credentials.json")
}

// FileStore keeps the credential in a single JSON file, optionally sealed
// with AES-GCM. The file is written with 0600 permissions.
type FileStore struct {
	path string
	enc  *Encryptor
	mu   sync.Mutex
}

// NewFileStore creates a FileStore. A nil encryptor stores plaintext JSON.
func NewFileStore(path string, enc *Encryptor) *FileStore {
	if path == "" {
		path = DefaultCredentialFile()
	}
	return &FileStore{path: path, enc: enc}
}

// Path returns the credential file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load implements CredentialStore.
func (f *FileStore) Load(_ context.Context) (*Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}
	data, err = f.enc.Open(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credential file: %w", err)
	}
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to decode credential file: %w", err)
	}
	return &cred, nil
}

// Save implements CredentialStore. The file is replaced atomically.
func (f *FileStore) Save(_ context.Context, cred Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	data, err = f.enc.Seal(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt credential: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set credential file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close credential file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}

// Delete implements CredentialStore.
func (f *FileStore) Delete(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete credential file: %w", err)
	}
	return nil
}
