package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerdesk/config"
	"ledgerdesk/internal/domain"
	"ledgerdesk/internal/service"
	"ledgerdesk/internal/storage/memory"
)

func newAuth(t *testing.T) (*service.AuthService, *memory.Store) {
	t.Helper()
	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
			Issuer:        "ledgerdesk-test",
		},
	}
	store := memory.New()
	return service.NewAuthService(cfg, store.Admins(), quietLogger()), store
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	admin, access, refresh, err := svc.Register(ctx, "admin@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotZero(t, admin.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	logged, access, _, err := svc.Login(ctx, "admin@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, logged.ID)
	assert.NotEmpty(t, access)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "admin@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, _, err = svc.Register(ctx, "admin@example.com", "other-pass")
	assert.ErrorIs(t, err, domain.ErrAdminAlreadyExists)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "admin@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newAuth(t)
	_, _, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRefresh_RoundTrip(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	admin, _, refresh, err := svc.Register(ctx, "admin@example.com", "s3cret-pass")
	require.NoError(t, err)

	access, newRefresh, err := svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, newRefresh)
	_ = admin
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, _ := newAuth(t)
	_, _, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	admin, _, _, err := svc.Register(ctx, "admin@example.com", "old-password")
	require.NoError(t, err)

	// Wrong current password is rejected.
	err = svc.ChangePassword(ctx, admin.ID, "bogus", "new-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, admin.ID, "old-password", "new-password"))

	_, _, _, err = svc.Login(ctx, "admin@example.com", "old-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, _, err = svc.Login(ctx, "admin@example.com", "new-password")
	assert.NoError(t, err)
}
