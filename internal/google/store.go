package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teemow/workspace-mcp/internal/logging"
)

// CredentialStore persists the single local OAuth2 credential record.
type CredentialStore interface {
	// Load returns the stored credential, or nil without error when none is stored.
	Load(ctx context.Context) (*Credential, error)

	// Save stores cred, replacing any previous record.
	Save(ctx context.Context, cred Credential) error

	// Delete removes the stored credential. Deleting a missing record is not an error.
	Delete(ctx context.Context) error
}

// MemoryStore is a volatile CredentialStore for tests and ephemeral sessions.
type MemoryStore struct {
	mu    sync.RWMutex
	cred  *Credential
	saves int
}

// NewMemoryStore creates a MemoryStore, optionally seeded with a credential.
func NewMemoryStore(initial *Credential) *MemoryStore {
	s := &MemoryStore{}
	if initial != nil {
		c := *initial
		s.cred = &c
	}
	return s
}

// Load returns a copy of the stored credential.
func (s *MemoryStore) Load(_ context.Context) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return nil, nil
	}
	c := *s.cred
	return &c, nil
}

// Save stores a copy of cred.
func (s *MemoryStore) Save(_ context.Context, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = &cred
	s.saves++
	return nil
}

// Delete clears the stored credential.
func (s *MemoryStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}

// Saves returns how many times Save has been called.
func (s *MemoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// FallbackStore layers a primary store (usually the OS keyring) over a
// fallback store (usually an encrypted file).
// Reads prefer the primary; a primary miss or failure consults the fallback.
// Writes go to the primary and fall back when it fails, dropping the
// outdated primary record.
type FallbackStore struct {
	primary  CredentialStore
	fallback CredentialStore
	logger   *slog.Logger
}

// NewFallbackStore creates a layered store. A nil primary routes every
// operation to the fallback.
func NewFallbackStore(primary, fallback CredentialStore, logger *slog.Logger) *FallbackStore {
	if fallback == nil {
		fallback = NewMemoryStore(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackStore{
		primary:  primary,
		fallback: fallback,
		logger:   logging.WithService(logger, "credential_store"),
	}
}

// Load implements CredentialStore. When both layers hold a record, the
// fallback wins only if its access token expires later.
func (f *FallbackStore) Load(ctx context.Context) (*Credential, error) {
	if f.primary == nil {
		return f.loadFallback(ctx)
	}
	cred, err := f.primary.Load(ctx)
	if err != nil {
		f.logger.Warn("primary credential store unavailable, using fallback", logging.Err(err))
		return f.loadFallback(ctx)
	}
	if cred == nil {
		return f.loadFallback(ctx)
	}

	newer, ferr := f.fallback.Load(ctx)
	if ferr != nil {
		f.logger.Debug("fallback credential store unreadable, using primary", logging.Err(ferr))
		return cred, nil
	}
	if newer != nil && newer.ExpiryDate > cred.ExpiryDate {
		f.logger.Info("fallback credential is newer than primary, using fallback")
		return newer, nil
	}
	return cred, nil
}

func (f *FallbackStore) loadFallback(ctx context.Context) (*Credential, error) {
	cred, err := f.fallback.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("fallback credential store: %w", err)
	}
	return cred, nil
}

// Save implements CredentialStore.
func (f *FallbackStore) Save(ctx context.Context, cred Credential) error {
	if f.primary != nil {
		err := f.primary.Save(ctx, cred)
		if err == nil {
			return nil
		}
		f.logger.Warn("failed to save credential to primary store, using fallback", logging.Err(err))
	}
	if err := f.fallback.Save(ctx, cred); err != nil {
		return fmt.Errorf("fallback credential store: %w", err)
	}
	if f.primary != nil {
		// The primary record is now older than the fallback one.
		if err := f.primary.Delete(ctx); err != nil {
			f.logger.Warn("failed to delete outdated credential from primary store", logging.Err(err))
		}
	}
	return nil
}

// Delete removes the credential from both layers.
func (f *FallbackStore) Delete(ctx context.Context) error {
	var errs []error
	if f.primary != nil {
		if err := f.primary.Delete(ctx); err != nil {
			errs = append(errs, fmt.Errorf("primary credential store: %w", err))
		}
	}
	if err := f.fallback.Delete(ctx); err != nil {
		errs = append(errs, fmt.Errorf("fallback credential store: %w", err))
	}
	return errors.Join(errs...)
}
