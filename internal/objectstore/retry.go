package objectstore

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"
)

// WithRetry wraps a Store so that transient I/O failures (anything
// other than ErrNotFound) are retried with exponential backoff. A
// definitive not-found is never retried.
type WithRetry struct {
	inner Store
	max   int
}

// Retrying returns a Store that retries each call up to maxAttempts
// times (including the first) on any error other than ErrNotFound.
func Retrying(inner Store, maxAttempts int) *WithRetry {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &WithRetry{inner: inner, max: maxAttempts}
}

func (r *WithRetry) run(ctx context.Context, op func() error) error {
	var bo backoff.BackOff = backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(r.max-1))
	bo = backoff.WithContext(bo, ctx)
	return backoff.Retry(func() error {
		err := op()
		if err == nil || errors.Is(err, ErrNotFound) {
			return backoff.Permanent(err)
		}
		return err
	}, bo)
}

func (r *WithRetry) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := r.run(ctx, func() error {
		var opErr error
		data, opErr = r.inner.Get(ctx, key)
		return opErr
	})
	return data, unwrapPermanent(err)
}

func (r *WithRetry) Put(ctx context.Context, key string, data []byte) error {
	return unwrapPermanent(r.run(ctx, func() error {
		return r.inner.Put(ctx, key, data)
	}))
}

func (r *WithRetry) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := r.run(ctx, func() error {
		var opErr error
		keys, opErr = r.inner.List(ctx, prefix)
		return opErr
	})
	return keys, unwrapPermanent(err)
}

func (r *WithRetry) Delete(ctx context.Context, key string) error {
	return unwrapPermanent(r.run(ctx, func() error {
		return r.inner.Delete(ctx, key)
	}))
}

func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}
