package deepseek

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// defaultRetryAfter applies when a 429 carries no usable Retry-After header.
	defaultRetryAfter = 5 * time.Second

	// maxRetryAfter is the longest server-requested wait honoured. Longer
	// waits fail the request as rate limited instead.
	maxRetryAfter = 30 * time.Second

	// baseBackoff is the first transport-failure delay; it doubles per retry.
	baseBackoff = 1 * time.Second
)

// retryPolicy is a backoff.BackOff whose next delay depends on the failure
// just observed: a rate-limit reply dictates its own wait, a transport
// failure advances an exponential schedule.
type retryPolicy struct {
	exp  *backoff.ExponentialBackOff
	next time.Duration
	rate bool
}

func newRetryPolicy() *retryPolicy {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = baseBackoff
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxInterval = time.Minute
	exp.MaxElapsedTime = 0
	exp.Reset()
	return &retryPolicy{exp: exp}
}

// after records a server-requested wait for the next retry.
func (p *retryPolicy) after(d time.Duration) {
	p.rate = true
	p.next = d
}

// exponential selects the exponential schedule for the next retry.
func (p *retryPolicy) exponential() {
	p.rate = false
}

// NextBackOff implements backoff.BackOff.
func (p *retryPolicy) NextBackOff() time.Duration {
	if p.rate {
		return p.next
	}
	return p.exp.NextBackOff()
}

// Reset implements backoff.BackOff.
func (p *retryPolicy) Reset() {
	p.exp.Reset()
	p.rate = false
	p.next = 0
}

// parseRetryAfter reads a Retry-After header given either as delay-seconds
// or as an HTTP date. Missing or unparseable values yield defaultRetryAfter.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return defaultRetryAfter
	}

	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}

	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
		return 0
	}

	return defaultRetryAfter
}
