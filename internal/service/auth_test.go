package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cookmate/backend/config"
	"github.com/cookmate/backend/internal/model"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewAuthService(db, config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	return svc, db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	pair, err := svc.Register("Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.NotZero(t, claims.UserID)

	pair, err = svc.Login("alice@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = svc.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Login("nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register("Alice", "alice@example.com", "short")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register("", "alice@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register("Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	_, err = svc.Register("Alice Again", "alice@example.com", "secret2")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newAuthService(t)

	pair, err := svc.Register("Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	next, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The presented token was revoked by the rotation.
	_, err = svc.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Refresh(next.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshExpired(t *testing.T) {
	svc, db := newAuthService(t)

	pair, err := svc.Register("Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, db.Model(&model.RefreshToken{}).
		Where("token = ?", pair.RefreshToken).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err = svc.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// The expired row was purged, not left behind.
	var count int64
	require.NoError(t, db.Model(&model.RefreshToken{}).
		Where("token = ?", pair.RefreshToken).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLogout(t *testing.T) {
	svc, _ := newAuthService(t)

	pair, err := svc.Register("Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(pair.RefreshToken))
	assert.ErrorIs(t, svc.Logout(pair.RefreshToken), ErrNotFound)
	_, err = svc.Refresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestValidateTokenRejectsForgery(t *testing.T) {
	svc, db := newAuthService(t)

	pair, err := svc.Register("Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	other := NewAuthService(db, config.AuthConfig{
		JWTSecret:       "different-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: time.Hour,
	})
	_, err = other.ValidateToken(pair.AccessToken)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
