package auth

import (
	"testing"
	"time"

	"devlink_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-0123456789"

func testUser() *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: "user-1"},
		Email:     "dev@example.com",
		Role:      models.UserRoleDeveloper,
		Approved:  true,
		IsAdmin:   false,
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(testSecret, 15*time.Minute)
	require.NoError(t, err)

	token, err := svc.Generate(testUser())
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, models.UserRoleDeveloper, claims.Role)
	assert.True(t, claims.Approved)
	assert.False(t, claims.IsAdmin)
}

func TestTokenService_SnapshotReflectsUserAtIssueTime(t *testing.T) {
	svc, err := NewTokenService(testSecret, 15*time.Minute)
	require.NoError(t, err)

	user := testUser()
	user.IsAdmin = true
	token, err := svc.Generate(user)
	require.NoError(t, err)

	// Changing the model afterwards cannot change an already issued token.
	user.IsAdmin = false

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestTokenService_ExpiredTokenRejected(t *testing.T) {
	svc, err := NewTokenService(testSecret, 15*time.Minute)
	require.NoError(t, err)
	svc.ttl = -time.Minute

	token, err := svc.Generate(testUser())
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestTokenService_WrongSecretRejected(t *testing.T) {
	signer, err := NewTokenService(testSecret, 15*time.Minute)
	require.NoError(t, err)
	verifier, err := NewTokenService("a-completely-different-secret", 15*time.Minute)
	require.NoError(t, err)

	token, err := signer.Generate(testUser())
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err)
}

func TestTokenService_UnsignedAlgorithmRejected(t *testing.T) {
	svc, err := NewTokenService(testSecret, 15*time.Minute)
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestTokenService_MissingSubjectRejected(t *testing.T) {
	svc, err := NewTokenService(testSecret, 15*time.Minute)
	require.NoError(t, err)

	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := anonymous.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestNewTokenService_ShortSecretRejected(t *testing.T) {
	_, err := NewTokenService("short", 15*time.Minute)
	assert.Error(t, err)
}
