package deepseek

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/ericfisherdev/textenhance/internal/domain/model"
	"github.com/ericfisherdev/textenhance/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Enhancer = (*BreakerEnhancer)(nil)

const (
	defaultBreakerMaxFailures uint32 = 5
	defaultBreakerTimeout            = 30 * time.Second
	defaultBreakerInterval           = 60 * time.Second
)

// BreakerEnhancer wraps an Enhancer with a circuit breaker. Only server and
// transport failures count against the circuit; a rejected key or a bad
// request says nothing about endpoint health.
type BreakerEnhancer struct {
	inner   driven.Enhancer
	breaker *gobreaker.CircuitBreaker[string]
}

// NewBreakerEnhancer wraps inner. maxFailures consecutive unhealthy results
// open the circuit for 30s; zero selects the default of 5.
func NewBreakerEnhancer(inner driven.Enhancer, maxFailures uint32, logger *slog.Logger) *BreakerEnhancer {
	if maxFailures == 0 {
		maxFailures = defaultBreakerMaxFailures
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "deepseek",
		MaxRequests: 1,
		Interval:    defaultBreakerInterval,
		Timeout:     defaultBreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsExcluded: func(err error) bool {
			var ab *abandonedError
			return errors.As(err, &ab)
		},
		IsSuccessful: func(err error) bool {
			switch model.KindOf(err) {
			case model.ErrorServer, model.ErrorNetwork:
				return false
			default:
				return true
			}
		},
	})

	return &BreakerEnhancer{inner: inner, breaker: cb}
}

// Enhance implements driven.Enhancer.
func (b *BreakerEnhancer) Enhance(ctx context.Context, req model.EnhancementRequest, secret string) (string, error) {
	text, err := b.breaker.Execute(func() (string, error) {
		text, err := b.inner.Enhance(ctx, req, secret)
		if err != nil && ctx.Err() != nil {
			return "", &abandonedError{err: err}
		}
		return text, err
	})
	var ab *abandonedError
	if errors.As(err, &ab) {
		return "", ab.err
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", model.NewEnhanceError(model.ErrorServer, "completion endpoint temporarily unavailable", err)
	}
	return text, err
}

// CircuitState reports the circuit state as "closed", "half-open" or "open".
func (b *BreakerEnhancer) CircuitState() string {
	return b.breaker.State().String()
}

// abandonedError marks a failure caused by the caller giving up. The breaker
// ignores it since it says nothing about endpoint health.
type abandonedError struct {
	err error
}

func (e *abandonedError) Error() string { return e.err.Error() }

func (e *abandonedError) Unwrap() error { return e.err }
