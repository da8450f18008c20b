package devices_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-playlist-server/devices"
	"github.com/jrsteele09/go-playlist-server/internal/apperrors"
)

func TestRegister_MintsOpaqueID(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	service, err := devices.NewService(devices.NewInMemoryRepo(),
		devices.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	device, err := service.Register(context.Background(), "android", "1.4.2", "fp-1")
	require.NoError(t, err)
	require.NotEmpty(t, device.ID)
	require.Equal(t, "android", device.Platform)
	require.Equal(t, now, device.RegisteredAt)

	other, err := service.Register(context.Background(), "android", "1.4.2", "fp-2")
	require.NoError(t, err)
	require.NotEqual(t, device.ID, other.ID)
}

func TestRegister_RequiresPlatform(t *testing.T) {
	service, err := devices.NewService(devices.NewInMemoryRepo())
	require.NoError(t, err)

	_, err = service.Register(context.Background(), "", "1.0.0", "")
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGet_RoundTrip(t *testing.T) {
	service, err := devices.NewService(devices.NewInMemoryRepo())
	require.NoError(t, err)

	device, err := service.Register(context.Background(), "ios", "", "")
	require.NoError(t, err)

	found, err := service.Get(context.Background(), device.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, device.ID, found.ID)

	missing, err := service.Get(context.Background(), "no-such-device")
	require.NoError(t, err)
	require.Nil(t, missing)
}
