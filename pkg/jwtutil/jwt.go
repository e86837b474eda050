package jwtutil

import (
	"errors"
	"time"

	"homerent/internal/model"
	"homerent/pkg/config"

	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrMissingToken is returned when an empty token string is verified.
	ErrMissingToken = errors.New("token not found")
	// ErrInvalidToken is returned when signature, issuer or expiry checks fail.
	ErrInvalidToken = errors.New("invalid token")
)

var (
	secret     = []byte("homerentsecretkey")
	issuer     = "homerent"
	expiration = 2 * time.Hour
)

// Initialize configures the signing key, issuer and token lifetime.
func Initialize(cfg *config.JWTConfig) {
	if cfg.SigningKey != "" {
		secret = []byte(cfg.SigningKey)
	}
	if cfg.Issuer != "" {
		issuer = cfg.Issuer
	}
	if cfg.ExpirationHours > 0 {
		expiration = time.Duration(cfg.ExpirationHours) * time.Hour
	}
}

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	UserID uint   `json:"id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed token for the user. The subject is the
// user's email; id and name travel as custom claims.
func GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseSubject validates the token and returns its subject (the user's
// email). Empty tokens yield ErrMissingToken; any verification failure
// yields ErrInvalidToken.
func ParseSubject(tokenString string) (string, error) {
	claims, err := ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(issuer, true) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
