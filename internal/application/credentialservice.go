package application

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/ericfisherdev/textenhance/internal/domain/model"
	"github.com/ericfisherdev/textenhance/internal/domain/port/driven"
)

// CredentialKey is the fixed storage key of the completion API secret.
const CredentialKey = "deepseek_api_key"

var apiKeyPattern = regexp.MustCompile(`^sk-[A-Za-z0-9]{32,}$`)

// ValidateAPIKey reports whether secret is non-empty and has the "sk-" prefix
// followed by at least 32 alphanumeric characters.
func ValidateAPIKey(secret string) bool {
	return secret != "" && apiKeyPattern.MatchString(secret)
}

// CredentialService owns the single API secret. It validates on save and
// degrades read failures to "not configured".
type CredentialService struct {
	store  driven.CredentialStore
	logger *slog.Logger
}

// NewCredentialService creates a CredentialService over store.
func NewCredentialService(store driven.CredentialStore, logger *slog.Logger) *CredentialService {
	return &CredentialService{store: store, logger: logger}
}

// Save validates secret and persists it, replacing any previous value. An
// invalid secret never reaches the store.
func (s *CredentialService) Save(ctx context.Context, secret string) error {
	if !ValidateAPIKey(secret) {
		return model.NewEnhanceError(model.ErrorInvalidFormat, msgInvalidFormat, nil)
	}

	if err := s.store.Set(ctx, CredentialKey, secret); err != nil {
		s.logger.Error("failed to save api key", "error", err)
		return model.NewEnhanceError(model.ErrorStorage, "Failed to save API key", err)
	}

	s.logger.Info("api key saved")
	return nil
}

// Load returns the stored secret. The second result is false when nothing is
// stored or the store cannot be read.
func (s *CredentialService) Load(ctx context.Context) (string, bool) {
	secret, err := s.store.Get(ctx, CredentialKey)
	if err != nil {
		s.logger.Warn("failed to retrieve api key", "error", err)
		return "", false
	}
	return secret, secret != ""
}

// Remove deletes the stored secret.
func (s *CredentialService) Remove(ctx context.Context) error {
	if err := s.store.Delete(ctx, CredentialKey); err != nil {
		s.logger.Error("failed to remove api key", "error", err)
		return model.NewEnhanceError(model.ErrorStorage, "Failed to remove API key", err)
	}

	s.logger.Info("api key removed")
	return nil
}

// IsConfigured reports whether a valid secret is stored.
func (s *CredentialService) IsConfigured(ctx context.Context) bool {
	secret, ok := s.Load(ctx)
	return ok && ValidateAPIKey(secret)
}

// MaskKey hides all but the last four characters of secret.
func MaskKey(secret string) string {
	if secret == "" {
		return ""
	}
	tail := secret
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return strings.Repeat("•", 16) + tail
}

// Masked returns the stored secret in masked form and whether one is stored.
func (s *CredentialService) Masked(ctx context.Context) (string, bool) {
	secret, ok := s.Load(ctx)
	if !ok {
		return "", false
	}
	return MaskKey(secret), true
}

// Status returns the masked secret and when it was last saved. ok is false
// when nothing is stored or the store cannot be read.
func (s *CredentialService) Status(ctx context.Context) (masked string, updatedAt time.Time, ok bool) {
	cred, err := s.store.Lookup(ctx, CredentialKey)
	if err != nil {
		s.logger.Warn("failed to look up api key", "error", err)
		return "", time.Time{}, false
	}
	if cred == nil || cred.Value == "" {
		return "", time.Time{}, false
	}
	return MaskKey(cred.Value), cred.UpdatedAt, true
}
