package devices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-playlist-server/internal/apperrors"
)

// Device is one client install instance. The identifier is opaque and has
// no structural contract; it exists only so sessions and authorization
// states can be bound to the install that created them.
type Device struct {
	ID           string
	Platform     string
	AppVersion   string
	Fingerprint  string
	RegisteredAt time.Time
}

// Service mints and looks up device identifiers.
type Service struct {
	repo    Repo
	nowTime func() time.Time // injectable for testing
	newID   func() string
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(repo Repo, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[NewService] repo is required")
	}

	s := &Service{
		repo:    repo,
		nowTime: time.Now,
		newID:   func() string { return uuid.New().String() },
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// Register mints a new device identifier for a client install.
func (s *Service) Register(ctx context.Context, platform, appVersion, fingerprint string) (*Device, error) {
	if platform == "" {
		return nil, apperrors.WithKind(apperrors.ErrValidation, errors.New("platform is required"))
	}

	device := &Device{
		ID:           s.newID(),
		Platform:     platform,
		AppVersion:   appVersion,
		Fingerprint:  fingerprint,
		RegisteredAt: s.nowTime(),
	}
	if err := s.repo.Create(ctx, device); err != nil {
		return nil, errors.Wrap(err, "[Register] create device")
	}

	return device, nil
}

// Get looks up a device by identifier. Returns nil, nil when absent.
func (s *Service) Get(ctx context.Context, id string) (*Device, error) {
	if id == "" {
		return nil, nil
	}
	device, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "[Get] get device")
	}
	return device, nil
}
