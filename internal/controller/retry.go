package controller

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goydb/goyreport/pkg/port"
)

const (
	DefaultRetryMax      = 3
	DefaultRetryInterval = 100 * time.Millisecond
)

// Retry configures how transient data store failures are retried.
type Retry struct {
	Max      uint64
	Interval time.Duration
}

// Do runs op until it succeeds, fails with a non transient error,
// or the retries are used up.
func (r Retry) Do(ctx context.Context, op func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = r.Interval
	if eb.InitialInterval <= 0 {
		eb.InitialInterval = DefaultRetryInterval
	}
	eb.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(eb, r.Max), ctx)
	return backoff.Retry(func() error {
		err := op()
		if err == nil || IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}, b)
}

type temporary interface {
	Temporary() bool
}

// IsTransient reports whether err may go away on retry.
func IsTransient(err error) bool {
	if errors.Is(err, port.ErrTransient) {
		return true
	}
	var t temporary
	return errors.As(err, &t) && t.Temporary()
}
