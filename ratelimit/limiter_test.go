package ratelimit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-playlist-server/ratelimit"
)

const testIdentity = "platform-user-42"

type limiterFixture struct {
	store   *ratelimit.InMemoryStore
	limiter *ratelimit.Limiter
	now     time.Time
}

func setupLimiter(t *testing.T, maxPerDay int, enabled bool) *limiterFixture {
	t.Helper()

	f := &limiterFixture{
		store: ratelimit.NewInMemoryStore(),
		now:   time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local),
	}

	limiter, err := ratelimit.NewLimiter(f.store, maxPerDay, enabled, []byte("test-hash-key"),
		ratelimit.WithNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)

	f.limiter = limiter
	return f
}

func TestNewLimiter_Validation(t *testing.T) {
	_, err := ratelimit.NewLimiter(nil, 3, true, nil)
	require.Error(t, err)

	_, err = ratelimit.NewLimiter(ratelimit.NewInMemoryStore(), 0, true, nil)
	require.Error(t, err)

	_, err = ratelimit.NewLimiter(ratelimit.NewInMemoryStore(), 3, true, make([]byte, 65))
	require.Error(t, err)
}

func TestLimiter_DailyMaxBoundary(t *testing.T) {
	f := setupLimiter(t, 3, true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.True(t, f.limiter.CanMakeRequest(ctx, testIdentity), "request %d should be allowed", i+1)
		f.limiter.RecordRequest(ctx, testIdentity)
	}

	require.False(t, f.limiter.CanMakeRequest(ctx, testIdentity), "4th request should be denied")

	// Recording stays best-effort even past the limit.
	f.limiter.RecordRequest(ctx, testIdentity)
	status := f.limiter.GetStatus(ctx, testIdentity)
	require.Equal(t, 4, status.RequestsToday)
	require.False(t, status.CanMakeRequest)
}

func TestLimiter_LazyDailyReset(t *testing.T) {
	f := setupLimiter(t, 3, true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f.limiter.RecordRequest(ctx, testIdentity)
	}
	require.False(t, f.limiter.CanMakeRequest(ctx, testIdentity))

	// Next calendar day: yesterday's maxed-out record no longer counts.
	f.now = f.now.Add(24 * time.Hour)
	require.True(t, f.limiter.CanMakeRequest(ctx, testIdentity))
	require.Equal(t, 0, f.limiter.GetStatus(ctx, testIdentity).RequestsToday)
}

func TestLimiter_CalendarDayNotRollingWindow(t *testing.T) {
	f := setupLimiter(t, 1, true)
	ctx := context.Background()

	// 23:59 and 00:01 are separate windows despite being 2 minutes apart.
	f.now = time.Date(2026, 3, 14, 23, 59, 0, 0, time.Local)
	f.limiter.RecordRequest(ctx, testIdentity)
	require.False(t, f.limiter.CanMakeRequest(ctx, testIdentity))

	f.now = time.Date(2026, 3, 15, 0, 1, 0, 0, time.Local)
	require.True(t, f.limiter.CanMakeRequest(ctx, testIdentity))
}

func TestLimiter_Disabled(t *testing.T) {
	f := setupLimiter(t, 1, false)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.True(t, f.limiter.CanMakeRequest(ctx, testIdentity))
		f.limiter.RecordRequest(ctx, testIdentity)
	}

	status := f.limiter.GetStatus(ctx, testIdentity)
	require.False(t, status.Enabled)
	require.True(t, status.CanMakeRequest)
	require.Equal(t, 0, status.RequestsToday)
}

func TestLimiter_ConcurrentRecordingLosesNoUpdates(t *testing.T) {
	f := setupLimiter(t, 1000, true)
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			f.limiter.RecordRequest(ctx, testIdentity)
		}()
	}
	wg.Wait()

	require.Equal(t, n, f.limiter.GetStatus(ctx, testIdentity).RequestsToday)
}

func TestLimiter_StatusProjection(t *testing.T) {
	f := setupLimiter(t, 3, true)
	ctx := context.Background()

	f.limiter.RecordRequest(ctx, testIdentity)
	status := f.limiter.GetStatus(ctx, testIdentity)

	require.Equal(t, 1, status.RequestsToday)
	require.Equal(t, 3, status.MaxPerDay)
	require.True(t, status.CanMakeRequest)
	require.True(t, status.Enabled)
	require.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local), status.ResetTime)
}

func TestLimiter_ResetAll(t *testing.T) {
	f := setupLimiter(t, 3, true)
	ctx := context.Background()

	f.limiter.RecordRequest(ctx, testIdentity)
	f.limiter.RecordRequest(ctx, "another-user")

	require.NoError(t, f.limiter.ResetAll(ctx))
	require.Equal(t, 0, f.limiter.GetStatus(ctx, testIdentity).RequestsToday)
	require.Equal(t, 0, f.limiter.GetStatus(ctx, "another-user").RequestsToday)
}

// failingStore simulates a broken backing store.
type failingStore struct{}

func (failingStore) Increment(ctx context.Context, hash, date string) error {
	return errors.New("store down")
}

func (failingStore) Get(ctx context.Context, hash, date string) (int, error) {
	return 0, errors.New("store down")
}

func (failingStore) DeleteAll(ctx context.Context) error {
	return errors.New("store down")
}

// Quota checks fail open by policy: enforcement never takes priority over
// availability when the backing store is unhealthy.
func TestLimiter_FailsOpenOnStoreErrors(t *testing.T) {
	limiter, err := ratelimit.NewLimiter(failingStore{}, 3, true, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.True(t, limiter.CanMakeRequest(ctx, testIdentity))

	// Recording swallows the failure; the caller never sees it.
	limiter.RecordRequest(ctx, testIdentity)

	status := limiter.GetStatus(ctx, testIdentity)
	require.Equal(t, 0, status.RequestsToday)
	require.True(t, status.CanMakeRequest)

	require.Error(t, limiter.ResetAll(ctx))
}
