package docstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// flaky fails the first n calls of Get and Set with err.
type flaky struct {
	*Memory
	n     int
	err   error
	calls int
}

func (f *flaky) fail() error {
	f.calls++
	if f.calls <= f.n {
		return f.err
	}
	return nil
}

func (f *flaky) Get(ctx context.Context, collection, id string) (Doc, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.Memory.Get(ctx, collection, id)
}

func (f *flaky) Set(ctx context.Context, collection, id string, data any) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.Memory.Set(ctx, collection, id, data)
}

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, Initial: time.Millisecond, Max: 2 * time.Millisecond, Multiplier: 2}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrTransient, true},
		{fmt.Errorf("wrapped: %w", ErrTransient), true},
		{status.Error(codes.Unavailable, "down"), true},
		{status.Error(codes.Aborted, "contention"), true},
		{status.Error(codes.PermissionDenied, "no"), false},
		{ErrNotFound, false},
		{context.Canceled, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IsTransient(tc.err), "%v", tc.err)
	}
}

func TestRetryRecoversFromTransientFailures(t *testing.T) {
	ctx := context.Background()
	base := &flaky{Memory: NewMemory(), n: 2, err: ErrTransient}
	require.NoError(t, base.Memory.Set(ctx, "items", "a", item{Name: "a"}))

	s := WithRetry(base, fastPolicy(4))
	d, err := s.Get(ctx, "items", "a")
	require.NoError(t, err)
	assert.Equal(t, "a", d.ID())
	assert.Equal(t, 3, base.calls)
}

func TestRetryStopsAfterMaxAttempts(t *testing.T) {
	base := &flaky{Memory: NewMemory(), n: 10, err: status.Error(codes.Unavailable, "down")}
	s := WithRetry(base, fastPolicy(3))

	_, err := s.Get(context.Background(), "items", "a")
	require.Error(t, err)
	assert.Equal(t, 3, base.calls)
}

func TestRetryDoesNotRetryPermanentErrors(t *testing.T) {
	base := &flaky{Memory: NewMemory(), n: 10, err: errors.New("bad document")}
	s := WithRetry(base, fastPolicy(5))

	_, err := s.Get(context.Background(), "items", "a")
	require.Error(t, err)
	assert.Equal(t, 1, base.calls)
}

func TestRetriedCreateWritesOneDocument(t *testing.T) {
	ctx := context.Background()
	base := &flaky{Memory: NewMemory(), n: 1, err: ErrTransient}
	s := WithRetry(base, fastPolicy(3))

	id, err := s.Create(ctx, "items", item{Name: "once"})
	require.NoError(t, err)

	docs, err := base.Memory.List(ctx, "items")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID())
}
