package validate

import (
	"time"

	"github.com/cenkalti/backoff"
)

// Policy is an explicit retry policy: initial delay, growth factor,
// interval cap and attempt bound. It is shared by the validation engine
// and the search loop instead of scattering sleeps through the
// pipeline.
type Policy struct {
	Initial     time.Duration
	Multiplier  float64
	MaxInterval time.Duration
	MaxAttempts uint64
}

// DefaultPolicy suits provider-side 429s: a few patient retries with
// growing gaps.
func DefaultPolicy() Policy {
	return Policy{
		Initial:     5 * time.Second,
		Multiplier:  2.0,
		MaxInterval: 2 * time.Minute,
		MaxAttempts: 3,
	}
}

// Retry runs op under the policy. op should return nil on success, a
// retryable error to back off, or backoff.Permanent to stop early.
func (p Policy) Retry(op func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.Initial
	eb.Multiplier = p.Multiplier
	eb.MaxInterval = p.MaxInterval
	eb.MaxElapsedTime = 0 // bounded by attempts, not wall clock
	return backoff.Retry(op, backoff.WithMaxRetries(eb, p.MaxAttempts))
}
