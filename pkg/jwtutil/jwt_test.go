package jwtutil

import (
	"testing"
	"time"

	"homerent/internal/model"
	"homerent/pkg/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestConfig() {
	Initialize(&config.JWTConfig{
		SigningKey:      "test-signing-key",
		Issuer:          "homerent",
		ExpirationHours: 2,
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	initTestConfig()

	user := &model.User{ID: 7, Name: "Ana", Email: "ana@example.com"}
	token, err := GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Subject)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "homerent", claims.Issuer)

	subject, err := ParseSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", subject)
}

func TestParseSubjectMissingToken(t *testing.T) {
	initTestConfig()

	_, err := ParseSubject("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestParseSubjectTamperedToken(t *testing.T) {
	initTestConfig()

	token, err := GenerateToken(&model.User{ID: 1, Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	_, err = ParseSubject(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseSubjectWrongSigningKey(t *testing.T) {
	initTestConfig()
	token, err := GenerateToken(&model.User{ID: 1, Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	Initialize(&config.JWTConfig{SigningKey: "another-key", Issuer: "homerent", ExpirationHours: 2})
	defer initTestConfig()

	_, err = ParseSubject(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseSubjectWrongIssuer(t *testing.T) {
	initTestConfig()

	claims := UserClaims{
		UserID: 1,
		Name:   "Ana",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "ana@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = ParseSubject(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseSubjectExpiredToken(t *testing.T) {
	initTestConfig()

	claims := UserClaims{
		UserID: 1,
		Name:   "Ana",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "ana@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-3 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = ParseSubject(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiryMatchesConfiguredLifetime(t *testing.T) {
	initTestConfig()

	token, err := GenerateToken(&model.User{ID: 1, Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 2*time.Hour, lifetime)
}
