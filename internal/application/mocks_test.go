package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/textenhance/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mock implementations ---

type mockCredentialStore struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
	getErr error
	delErr error
	sets   int

	updatedAt time.Time
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{values: make(map[string]string)}
}

func (m *mockCredentialStore) Set(_ context.Context, key, plaintext string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = plaintext
	return nil
}

func (m *mockCredentialStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.values[key], nil
}

func (m *mockCredentialStore) Lookup(_ context.Context, key string) (*model.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	return &model.Credential{Key: key, Value: v, UpdatedAt: m.updatedAt}, nil
}

func (m *mockCredentialStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.values, key)
	return nil
}

type enhanceCall struct {
	Req    model.EnhancementRequest
	Secret string
}

type mockEnhancer struct {
	mu     sync.Mutex
	calls  []enhanceCall
	result string
	err    error
}

func (m *mockEnhancer) Enhance(_ context.Context, req model.EnhancementRequest, secret string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, enhanceCall{Req: req, Secret: secret})
	return m.result, m.err
}

type replaceCall struct {
	TabID int
	Text  string
}

type mockPageMessenger struct {
	mu         sync.Mutex
	opened     []int
	replaces   []replaceCall
	reached    int
	replaceOK  bool
	replaceErr error
	// block makes ReplaceText wait for ctx cancellation.
	block bool
}

func (m *mockPageMessenger) OpenPanel(_ context.Context, windowID int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened = append(m.opened, windowID)
	return m.reached
}

func (m *mockPageMessenger) ReplaceText(ctx context.Context, tabID int, text string) (bool, error) {
	m.mu.Lock()
	m.replaces = append(m.replaces, replaceCall{TabID: tabID, Text: text})
	block := m.block
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return false, ctx.Err()
	}
	return m.replaceOK, m.replaceErr
}

type notifyCall struct {
	WindowID int
	Text     string
}

type mockPanelNotifier struct {
	mu      sync.Mutex
	notices []notifyCall
}

func (m *mockPanelNotifier) NotifyTextSelected(_ context.Context, windowID int, text string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, notifyCall{WindowID: windowID, Text: text})
	return 0
}

var errStoreDown = errors.New("store down")
