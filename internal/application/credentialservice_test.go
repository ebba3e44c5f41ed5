package application_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/textenhance/internal/application"
	"github.com/ericfisherdev/textenhance/internal/domain/model"
)

const validKey = "sk-0123456789abcdef0123456789abcdef"

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   bool
	}{
		{name: "32 alphanumerics", secret: validKey, want: true},
		{name: "longer key", secret: "sk-" + strings.Repeat("A1", 30), want: true},
		{name: "empty", secret: "", want: false},
		{name: "31 characters", secret: "sk-" + strings.Repeat("a", 31), want: false},
		{name: "wrong prefix", secret: "pk-" + strings.Repeat("a", 32), want: false},
		{name: "uppercase prefix", secret: "SK-" + strings.Repeat("a", 32), want: false},
		{name: "dash in body", secret: "sk-" + strings.Repeat("a", 32) + "-x", want: false},
		{name: "trailing space", secret: validKey + " ", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, application.ValidateAPIKey(tt.secret))
		})
	}
}

func TestCredentialService_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := newMockCredentialStore()
	svc := application.NewCredentialService(store, discardLogger())

	require.NoError(t, svc.Save(ctx, validKey))

	got, ok := svc.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, validKey, got)
	assert.Equal(t, validKey, store.values[application.CredentialKey])
	assert.True(t, svc.IsConfigured(ctx))
}

func TestCredentialService_SaveInvalidNeverReachesStore(t *testing.T) {
	ctx := context.Background()
	store := newMockCredentialStore()
	svc := application.NewCredentialService(store, discardLogger())

	err := svc.Save(ctx, "not-a-key")
	require.Error(t, err)
	assert.Equal(t, model.ErrorInvalidFormat, model.KindOf(err))
	assert.Equal(t, 0, store.sets)
	assert.False(t, svc.IsConfigured(ctx))
}

func TestCredentialService_SaveReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	svc := application.NewCredentialService(newMockCredentialStore(), discardLogger())

	second := "sk-" + strings.Repeat("b", 40)
	require.NoError(t, svc.Save(ctx, validKey))
	require.NoError(t, svc.Save(ctx, second))

	got, ok := svc.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, second, got)
}

func TestCredentialService_SaveStorageFailure(t *testing.T) {
	store := newMockCredentialStore()
	store.setErr = errStoreDown
	svc := application.NewCredentialService(store, discardLogger())

	err := svc.Save(context.Background(), validKey)
	require.Error(t, err)
	assert.Equal(t, model.ErrorStorage, model.KindOf(err))
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, "Failed to save API key", application.UserMessage(err))
}

func TestCredentialService_LoadAbsent(t *testing.T) {
	svc := application.NewCredentialService(newMockCredentialStore(), discardLogger())

	got, ok := svc.Load(context.Background())
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestCredentialService_LoadErrorIsAbsent(t *testing.T) {
	store := newMockCredentialStore()
	store.values[application.CredentialKey] = validKey
	store.getErr = errStoreDown
	svc := application.NewCredentialService(store, discardLogger())

	got, ok := svc.Load(context.Background())
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestCredentialService_Remove(t *testing.T) {
	ctx := context.Background()
	svc := application.NewCredentialService(newMockCredentialStore(), discardLogger())

	require.NoError(t, svc.Save(ctx, validKey))
	require.NoError(t, svc.Remove(ctx))

	_, ok := svc.Load(ctx)
	assert.False(t, ok)

	// Removing when nothing is stored still succeeds.
	require.NoError(t, svc.Remove(ctx))
}

func TestCredentialService_RemoveStorageFailure(t *testing.T) {
	store := newMockCredentialStore()
	store.delErr = errStoreDown
	svc := application.NewCredentialService(store, discardLogger())

	err := svc.Remove(context.Background())
	require.Error(t, err)
	assert.Equal(t, model.ErrorStorage, model.KindOf(err))
	assert.Equal(t, "Failed to remove API key", application.UserMessage(err))
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "", application.MaskKey(""))
	assert.Equal(t, "••••••••••••••••cdef", application.MaskKey(validKey))
	assert.Equal(t, "••••••••••••••••ab", application.MaskKey("ab"))
}

func TestCredentialService_Masked(t *testing.T) {
	ctx := context.Background()
	svc := application.NewCredentialService(newMockCredentialStore(), discardLogger())

	_, ok := svc.Masked(ctx)
	assert.False(t, ok)

	require.NoError(t, svc.Save(ctx, validKey))
	masked, ok := svc.Masked(ctx)
	require.True(t, ok)
	assert.Equal(t, "••••••••••••••••cdef", masked)
	assert.NotContains(t, masked, "sk-")
}

func TestCredentialService_Status(t *testing.T) {
	ctx := context.Background()
	store := newMockCredentialStore()
	store.updatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := application.NewCredentialService(store, discardLogger())

	_, _, ok := svc.Status(ctx)
	assert.False(t, ok)

	require.NoError(t, svc.Save(ctx, validKey))
	masked, updatedAt, ok := svc.Status(ctx)
	require.True(t, ok)
	assert.Equal(t, "••••••••••••••••cdef", masked)
	assert.Equal(t, store.updatedAt, updatedAt)

	store.getErr = errStoreDown
	_, _, ok = svc.Status(ctx)
	assert.False(t, ok)
}
