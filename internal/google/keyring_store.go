package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name credentials are stored under.
	KeyringService = "workspace-mcp"
	// KeyringUser is the account name credentials are stored under.
	KeyringUser = "google-oauth"
)

// KeyringStore keeps the credential as JSON in the OS keyring
// (Keychain, Secret Service or Windows Credential Manager).
type KeyringStore struct {
	service string
	user    string
}

// NewKeyringStore creates a KeyringStore. Empty names fall back to the defaults.
func NewKeyringStore(service, user string) *KeyringStore {
	if service == "" {
		service = KeyringService
	}
	if user == "" {
		user = KeyringUser
	}
	return &KeyringStore{service: service, user: user}
}

// Load implements CredentialStore.
func (k *KeyringStore) Load(_ context.Context) (*Credential, error) {
	secret, err := keyring.Get(k.service, k.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring: %w", err)
	}
	var cred Credential
	if err := json.Unmarshal([]byte(secret), &cred); err != nil {
		return nil, fmt.Errorf("failed to decode keyring credential: %w", err)
	}
	return &cred, nil
}

// Save implements CredentialStore.
func (k *KeyringStore) Save(_ context.Context, cred Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := keyring.Set(k.service, k.user, string(data)); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

// Delete implements CredentialStore.
func (k *KeyringStore) Delete(_ context.Context) error {
	err := keyring.Delete(k.service, k.user)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete keyring entry: %w", err)
	}
	return nil
}
