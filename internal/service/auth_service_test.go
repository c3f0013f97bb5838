package service

import (
	"testing"
	"time"

	apperrors "adria/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	values map[string]string
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: make(map[string]string)}
}

func (f *fakeSettings) Get(key string) (string, error) { return f.values[key], nil }

func (f *fakeSettings) Set(key, value string) error {
	f.values[key] = value
	return nil
}

const testSecret = "test-signing-secret"

func parseClaims(t *testing.T, tokenStr string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestSeedAndAdminLogin(t *testing.T) {
	settings := newFakeSettings()
	svc := NewAuthService(settings, &fakeUsers{}, testSecret)

	require.NoError(t, svc.SeedAdminPassword("hunter2"))
	seededHash := settings.values[SettingAdminPasswordHash]
	require.NotEmpty(t, seededHash)

	// Re-seeding must not overwrite an existing hash.
	require.NoError(t, svc.SeedAdminPassword("other-password"))
	assert.Equal(t, seededHash, settings.values[SettingAdminPasswordHash])

	tokenStr, err := svc.AdminLogin("hunter2")
	require.NoError(t, err)

	claims := parseClaims(t, tokenStr)
	assert.Equal(t, "admin", claims["role"])
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	_, err = svc.AdminLogin("wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAdminLoginUnseeded(t *testing.T) {
	svc := NewAuthService(newFakeSettings(), &fakeUsers{}, testSecret)

	_, err := svc.AdminLogin("anything")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestUserLogin(t *testing.T) {
	svc := NewAuthService(newFakeSettings(), &fakeUsers{}, testSecret)

	resp, err := svc.UserLogin("Ada Lovelace", " Ada@Example.com ")
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", resp.Email)
	assert.Equal(t, "group-1", resp.GroupID)

	claims := parseClaims(t, resp.Token)
	assert.Equal(t, "user", claims["role"])
	assert.Equal(t, "ada@example.com", claims["email"])
	assert.Equal(t, "group-1", claims["group_id"])
}
