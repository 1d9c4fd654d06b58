package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Its-Zach/grandline/pkg/types"
)

// fakeStore is a scriptable ReadingStore used to exercise the breaker.
type fakeStore struct {
	err    error
	latest *types.Reading
	delay  time.Duration
	calls  int
}

func (f *fakeStore) InsertReading(ctx context.Context, r *types.Reading) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func (f *fakeStore) GetReading(ctx context.Context, id int64) (*types.Reading, error) {
	f.calls++
	return f.latestOrErr()
}

func (f *fakeStore) GetLatestReading(ctx context.Context) (*types.Reading, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.latestOrErr()
}

func (f *fakeStore) ListReadings(ctx context.Context, opts ListOptions) (*PaginatedResult[types.Reading], error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &PaginatedResult[types.Reading]{}, nil
}

func (f *fakeStore) UpdateReading(ctx context.Context, id, islandID, characterID int64) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func (f *fakeStore) DeleteReading(ctx context.Context, id int64) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func (f *fakeStore) CountReadings(ctx context.Context) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return 0, nil
}

func (f *fakeStore) ListIslands(ctx context.Context) ([]types.NamedEntity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []types.NamedEntity{{ID: 1, Name: "East Blue"}}, nil
}

func (f *fakeStore) ListCharacters(ctx context.Context) ([]types.NamedEntity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []types.NamedEntity{{ID: 1, Name: "Luffy"}}, nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) latestOrErr() (*types.Reading, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.latest == nil {
		return nil, ErrNotFound
	}
	return f.latest, nil
}

func TestBreakerStorePassthrough(t *testing.T) {
	inner := &fakeStore{latest: &types.Reading{ID: 7, IslandName: "East Blue", CharacterName: "Luffy"}}
	store := NewBreakerStore(inner, BreakerConfig{})

	got, err := store.GetLatestReading(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "closed", store.State())
}

func TestBreakerStoreOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &fakeStore{err: errors.New("connection refused")}
	store := NewBreakerStore(inner, BreakerConfig{MaxFailures: 3})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := store.GetLatestReading(ctx)
		assert.Error(t, err)
	}
	assert.Equal(t, "open", store.State())

	// With the circuit open, the inner store is no longer called and the
	// error wraps ErrUnavailable.
	callsBefore := inner.calls
	_, err := store.GetLatestReading(ctx)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, callsBefore, inner.calls)
}

func TestBreakerStoreNotFoundDoesNotTrip(t *testing.T) {
	inner := &fakeStore{} // empty reading set
	store := NewBreakerStore(inner, BreakerConfig{MaxFailures: 2})

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := store.GetLatestReading(ctx)
		assert.True(t, errors.Is(err, ErrNotFound))
	}
	assert.Equal(t, "closed", store.State())
}

func TestBreakerStoreCallTimeout(t *testing.T) {
	inner := &fakeStore{
		latest: &types.Reading{ID: 1},
		delay:  200 * time.Millisecond,
	}
	store := NewBreakerStore(inner, BreakerConfig{CallTimeout: 20 * time.Millisecond})

	_, err := store.GetLatestReading(context.Background())
	assert.True(t, errors.Is(err, ErrUnavailable))
}
