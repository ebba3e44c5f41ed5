package deepseek

import (
	"context"
	"log/slog"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/textenhance/internal/domain/model"
)

// stubEnhancer returns err (or text) and counts calls.
type stubEnhancer struct {
	text  string
	err   error
	calls int
}

func (s *stubEnhancer) Enhance(_ context.Context, _ model.EnhancementRequest, _ string) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestBreakerEnhancer_PassesThroughSuccess(t *testing.T) {
	inner := &stubEnhancer{text: "ok"}
	b := NewBreakerEnhancer(inner, 2, slog.Default())

	got, err := b.Enhance(context.Background(), grammarRequest(), testSecret)

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, "closed", b.CircuitState())
}

func TestBreakerEnhancer_OpensAfterServerFailures(t *testing.T) {
	inner := &stubEnhancer{err: &model.EnhanceError{Kind: model.ErrorServer, Message: "boom", Status: 503}}
	b := NewBreakerEnhancer(inner, 2, slog.Default())
	ctx := context.Background()

	for range 2 {
		_, err := b.Enhance(ctx, grammarRequest(), testSecret)
		assert.Equal(t, model.ErrorServer, model.KindOf(err))
	}
	require.Equal(t, "open", b.CircuitState())

	_, err := b.Enhance(ctx, grammarRequest(), testSecret)

	ee := requireEnhanceError(t, err)
	assert.Equal(t, model.ErrorServer, ee.Kind)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, inner.calls, "open circuit must not reach the endpoint")
}

func TestBreakerEnhancer_ClientErrorsDoNotTrip(t *testing.T) {
	inner := &stubEnhancer{err: &model.EnhanceError{Kind: model.ErrorAuth, Message: "bad key", Status: 401}}
	b := NewBreakerEnhancer(inner, 2, slog.Default())

	for range 5 {
		_, err := b.Enhance(context.Background(), grammarRequest(), testSecret)
		assert.Equal(t, model.ErrorAuth, model.KindOf(err))
	}

	assert.Equal(t, "closed", b.CircuitState())
	assert.Equal(t, 5, inner.calls)
}

func TestBreakerEnhancer_CallerCancellationDoesNotTrip(t *testing.T) {
	inner := &stubEnhancer{err: model.NewEnhanceError(model.ErrorNetwork, "request cancelled", context.Canceled)}
	b := NewBreakerEnhancer(inner, 2, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for range 5 {
		_, err := b.Enhance(ctx, grammarRequest(), testSecret)
		ee := requireEnhanceError(t, err)
		assert.Equal(t, model.ErrorNetwork, ee.Kind)
		assert.ErrorIs(t, err, context.Canceled)
	}
	require.Equal(t, "closed", b.CircuitState())

	inner.err = nil
	inner.text = "ok"
	got, err := b.Enhance(context.Background(), grammarRequest(), testSecret)
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 6, inner.calls)
}

func TestBreakerEnhancer_EndpointTimeoutStillTrips(t *testing.T) {
	inner := &stubEnhancer{err: model.NewEnhanceError(model.ErrorNetwork, "timeout", context.DeadlineExceeded)}
	b := NewBreakerEnhancer(inner, 2, slog.Default())

	for range 2 {
		_, err := b.Enhance(context.Background(), grammarRequest(), testSecret)
		assert.Equal(t, model.ErrorNetwork, model.KindOf(err))
	}

	assert.Equal(t, "open", b.CircuitState())
}
