package ratelimit

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/blake2b"
)

const dateLayout = "2006-01-02"

// Status is the read-only projection of an identity's quota for today.
type Status struct {
	RequestsToday  int       `json:"requests_made_today"`
	MaxPerDay      int       `json:"max_requests_per_day"`
	CanMakeRequest bool      `json:"can_make_request"`
	ResetTime      time.Time `json:"reset_time"`
	Enabled        bool      `json:"enabled"`
}

// Limiter enforces per-identity daily quotas. Windows are calendar days in
// server-local time, not rolling 24-hour periods: a request at 23:59 and
// another at 00:01 land in separate windows. Quota checks fail open and
// quota recording is best-effort - availability beats strict enforcement.
type Limiter struct {
	store     Store
	maxPerDay int
	enabled   bool
	hashKey   []byte
	nowTime   func() time.Time // injectable for testing
}

// LimiterOption defines a function type to modify the Limiter instance.
type LimiterOption func(*Limiter)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) LimiterOption {
	return func(l *Limiter) {
		l.nowTime = nowFunc
	}
}

// NewLimiter initializes a Limiter. hashKey keys the identity hash; it must
// be at most 64 bytes (BLAKE2b key limit).
func NewLimiter(store Store, maxPerDay int, enabled bool, hashKey []byte, options ...LimiterOption) (*Limiter, error) {
	if store == nil {
		return nil, errors.New("[NewLimiter] store is required")
	}
	if maxPerDay <= 0 {
		return nil, errors.New("[NewLimiter] maxPerDay must be positive")
	}
	if len(hashKey) > 64 {
		return nil, errors.New("[NewLimiter] hash key exceeds 64 bytes")
	}

	l := &Limiter{
		store:     store,
		maxPerDay: maxPerDay,
		enabled:   enabled,
		hashKey:   hashKey,
		nowTime:   time.Now,
	}

	for _, opt := range options {
		opt(l)
	}

	return l, nil
}

// CanMakeRequest reports whether the identity may make another generation
// request today. Storage failures are logged and treated as "allowed".
func (l *Limiter) CanMakeRequest(ctx context.Context, identity string) bool {
	if !l.enabled {
		return true
	}

	count, err := l.store.Get(ctx, l.hashIdentity(identity), l.today())
	if err != nil {
		log.Warn().Err(err).Msg("quota check failed, allowing request")
		return true
	}
	return count < l.maxPerDay
}

// RecordRequest bumps today's counter for the identity. Best-effort: the
// user-visible operation already happened, so a recording failure is
// logged and swallowed, never surfaced.
func (l *Limiter) RecordRequest(ctx context.Context, identity string) {
	if !l.enabled {
		return
	}

	if err := l.store.Increment(ctx, l.hashIdentity(identity), l.today()); err != nil {
		log.Warn().Err(err).Msg("failed to record quota usage")
	}
}

// GetStatus returns the quota projection for the identity. ResetTime is
// midnight at the start of the following server-local day.
func (l *Limiter) GetStatus(ctx context.Context, identity string) Status {
	now := l.nowTime()

	count := 0
	if l.enabled {
		var err error
		count, err = l.store.Get(ctx, l.hashIdentity(identity), now.Format(dateLayout))
		if err != nil {
			log.Warn().Err(err).Msg("quota status read failed")
			count = 0
		}
	}

	return Status{
		RequestsToday:  count,
		MaxPerDay:      l.maxPerDay,
		CanMakeRequest: !l.enabled || count < l.maxPerDay,
		ResetTime:      nextMidnight(now),
		Enabled:        l.enabled,
	}
}

// ResetAll purges every quota record. Ops/test tooling only.
func (l *Limiter) ResetAll(ctx context.Context) error {
	if err := l.store.DeleteAll(ctx); err != nil {
		return errors.Wrap(err, "[ResetAll] purge quota records")
	}
	return nil
}

// hashIdentity derives the non-reversible quota key for an identity. Keyed
// so stored hashes cannot be linked back to user ids without the key.
func (l *Limiter) hashIdentity(identity string) string {
	h, err := blake2b.New256(l.hashKey)
	if err != nil {
		// Key length is validated at construction; this cannot happen.
		panic(err)
	}
	h.Write([]byte(identity))
	return hex.EncodeToString(h.Sum(nil))
}

func (l *Limiter) today() string {
	return l.nowTime().Format(dateLayout)
}

func nextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
