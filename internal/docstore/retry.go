package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	gax "github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type RetryPolicy struct {
	MaxAttempts int
	Initial     time.Duration
	Max         time.Duration
	Multiplier  float64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 4, Initial: 100 * time.Millisecond, Max: 2 * time.Second, Multiplier: 2}
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return true
	}
	return false
}

type boundedRetryer struct {
	backoff  gax.Backoff
	attempt  int
	attempts int
}

func (r *boundedRetryer) Retry(err error) (time.Duration, bool) {
	r.attempt++
	if r.attempt >= r.attempts || !IsTransient(err) {
		return 0, false
	}
	return r.backoff.Pause(), true
}

type retrying struct {
	next   Store
	policy RetryPolicy
}

// WithRetry wraps every call of next in exponential backoff with a bounded
// number of attempts. Create is retried as a Set under an id allocated once,
// so a retried create never produces two documents.
func WithRetry(next Store, p RetryPolicy) Store {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Multiplier < 1 {
		p.Multiplier = 2
	}
	return &retrying{next: next, policy: p}
}

func (r *retrying) invoke(ctx context.Context, fn func(ctx context.Context) error) error {
	return gax.Invoke(ctx, func(ctx context.Context, _ gax.CallSettings) error {
		return fn(ctx)
	}, gax.WithRetry(func() gax.Retryer {
		return &boundedRetryer{
			backoff:  gax.Backoff{Initial: r.policy.Initial, Max: r.policy.Max, Multiplier: r.policy.Multiplier},
			attempts: r.policy.MaxAttempts,
		}
	}))
}

func (r *retrying) List(ctx context.Context, collection string, filters ...Filter) ([]Doc, error) {
	var out []Doc
	err := r.invoke(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.next.List(ctx, collection, filters...)
		return err
	})
	return out, err
}

func (r *retrying) Get(ctx context.Context, collection, id string) (Doc, error) {
	var out Doc
	err := r.invoke(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.next.Get(ctx, collection, id)
		return err
	})
	return out, err
}

func (r *retrying) Create(ctx context.Context, collection string, data any) (string, error) {
	id := uuid.NewString()
	err := r.invoke(ctx, func(ctx context.Context) error {
		return r.next.Set(ctx, collection, id, data)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *retrying) Set(ctx context.Context, collection, id string, data any) error {
	return r.invoke(ctx, func(ctx context.Context) error {
		return r.next.Set(ctx, collection, id, data)
	})
}

func (r *retrying) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return r.invoke(ctx, func(ctx context.Context) error {
		return r.next.Update(ctx, collection, id, fields)
	})
}

func (r *retrying) Delete(ctx context.Context, collection, id string) error {
	return r.invoke(ctx, func(ctx context.Context) error {
		return r.next.Delete(ctx, collection, id)
	})
}

func (r *retrying) ArrayUnion(ctx context.Context, collection, id, field string, values ...any) error {
	return r.invoke(ctx, func(ctx context.Context) error {
		return r.next.ArrayUnion(ctx, collection, id, field, values...)
	})
}

func (r *retrying) ArrayRemove(ctx context.Context, collection, id, field string, values ...any) error {
	return r.invoke(ctx, func(ctx context.Context) error {
		return r.next.ArrayRemove(ctx, collection, id, field, values...)
	})
}
