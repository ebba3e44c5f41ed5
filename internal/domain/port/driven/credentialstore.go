// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/textenhance/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by CredentialStore operations when
// TEXTENHANCE_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set TEXTENHANCE_SECRET_KEY")

// CredentialStore defines the driven port for encrypted key/value secret
// persistence. The adapter is responsible for encryption; this interface
// operates on plaintext values at the domain boundary.
type CredentialStore interface {
	// Set stores or replaces the value under key.
	Set(ctx context.Context, key, plaintext string) error

	// Get retrieves the plaintext value under key.
	// Returns ("", nil) if nothing is stored under key.
	Get(ctx context.Context, key string) (string, error)

	// Lookup returns the stored credential with its last update time.
	// Returns (nil, nil) if nothing is stored under key.
	Lookup(ctx context.Context, key string) (*model.Credential, error)

	// Delete removes the value under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
