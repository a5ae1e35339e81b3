package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "access-secret-that-is-long-enough-123",
		RefreshSecret:          "refresh-secret-that-is-long-enough-456",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "marketplace-test",
		MaxRefreshCount:        2,
	})
}

func testSubject() Subject {
	return Subject{UserID: uuid.New(), Email: "buyer@example.com", Role: "customer"}
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestJWTService()
	sub := testSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sub.UserID.String(), claims.UserID)
	assert.Equal(t, "buyer@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, (15 * time.Minute).Seconds(), claims.RemainingTTL().Seconds(), 5)

	id, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, id)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.Role)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
}

func TestIssuedAtTime_KeepsSubSecondPrecision(t *testing.T) {
	svc := newTestJWTService()
	issued := time.Now().Truncate(time.Second).Add(123456789 * time.Nanosecond)
	svc.now = func() time.Time { return issued }

	pair, err := svc.GenerateTokenPair(testSubject())
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, issued.UnixNano(), claims.IssuedAtTime().UnixNano())

	legacy := &Claims{RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(issued)}}
	assert.Equal(t, issued.Truncate(time.Second).Unix(), legacy.IssuedAtTime().Unix())
	assert.True(t, (&Claims{}).IssuedAtTime().IsZero())
}

func TestValidate_WrongTokenType(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "shared-secret-that-is-long-enough-789",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "marketplace-test",
		MaxRefreshCount:        1,
	})
	pair, err := svc.GenerateTokenPair(testSubject())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidate_Expired(t *testing.T) {
	svc := newTestJWTService()
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }
	pair, err := svc.GenerateTokenPair(testSubject())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_Tampered(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(testSubject())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := newTestJWTService()
	other.accessSecret = []byte("a-completely-different-access-secret!")
	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_RejectsNoneAlgorithm(t *testing.T) {
	svc := newTestJWTService()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "marketplace-test", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           uuid.NewString(),
		Role:             "admin",
		TokenType:        TokenTypeAccess,
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	sub := testSubject()
	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)

	promoted := sub
	promoted.Role = "seller"
	next, err := svc.RefreshTokenPair(pair.RefreshToken, promoted)
	require.NoError(t, err)

	access, err := svc.ValidateAccessToken(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "seller", access.Role)

	refresh, err := svc.ValidateRefreshToken(next.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, refresh.RefreshCount)

	last, err := svc.RefreshTokenPair(next.RefreshToken, promoted)
	require.NoError(t, err)
	_, err = svc.RefreshTokenPair(last.RefreshToken, promoted)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestRefreshTokenPair_SubjectMismatch(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(testSubject())
	require.NoError(t, err)

	_, err = svc.RefreshTokenPair(pair.RefreshToken, testSubject())
	assert.ErrorIs(t, err, ErrInvalidClaims)
}
