package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Tron16/SolarScheduler/internal/domain"
	"github.com/Tron16/SolarScheduler/internal/port"
	"github.com/golang-jwt/jwt/v5"
)

const sessionTokenBytes = 32 // 256 bits

// generateSessionToken returns a fresh opaque session token and the hash
// under which it is stored.
func generateSessionToken() (token, hash string, err error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	token = base64.RawURLEncoding.EncodeToString(buf)
	return token, hashSessionToken(token), nil
}

func hashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Purposes carried by signed single-use link tokens.
const (
	tokenPurposeVerifyEmail   = "verify_email"
	tokenPurposePasswordReset = "password_reset"
)

// linkClaims is the payload of email verification and password-reset tokens.
type linkClaims struct {
	Purpose string `json:"purpose"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates the signed single-use tokens embedded in
// verification and password-reset links.
type TokenIssuer struct {
	secret []byte
	issuer string
}

// NewTokenIssuer creates a token issuer with the given HS256 secret.
func NewTokenIssuer(secret, issuer string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer}
}

// Issue mints a token for the user with the given purpose and TTL.
func (t *TokenIssuer) issue(user *domain.User, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := linkClaims{
		Purpose: purpose,
		Email:   user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// validate parses a token and checks signature, expiry, issuer, and purpose.
// It returns the subject user ID.
func (t *TokenIssuer) validate(tokenStr, purpose string) (string, error) {
	var claims linkClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", port.ErrInvalidToken, err)
	}
	if claims.Purpose != purpose {
		return "", port.ErrInvalidToken
	}
	return claims.Subject, nil
}
