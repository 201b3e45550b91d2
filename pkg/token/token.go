package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim stamped on every token.
const Issuer = "carevault"

// MinKeyLen is the minimum decoded length of the signing key.
const MinKeyLen = 32

var (
	ErrKeyTooShort    = errors.New("token signing key must be at least 32 bytes")
	ErrMissingSubject = errors.New("token has no subject")
	ErrMissingUserID  = errors.New("token has no user id")
)

// Claims are the claims carried by a CareVault bearer token.
type Claims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// Signer issues and verifies bearer tokens with a shared HMAC key.
type Signer struct {
	key []byte
	ttl time.Duration
}

// NewSigner creates a Signer. The key is the raw (decoded) signing
// secret; ttl is the lifetime stamped on issued tokens.
func NewSigner(key []byte, ttl time.Duration) (*Signer, error) {
	if len(key) < MinKeyLen {
		return nil, ErrKeyTooShort
	}
	return &Signer{key: key, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given user. It returns the compact JWT
// and the expiry stamped into it.
func (s *Signer) Issue(userID uint, username string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a compact JWT. It rejects tokens signed
// with another method or key, expired tokens, and tokens missing the
// identity claims.
func (s *Signer) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.key, nil
		},
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	if claims.UserID == 0 {
		return nil, ErrMissingUserID
	}
	return claims, nil
}
