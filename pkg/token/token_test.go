package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) []byte {
	key := make([]byte, MinKeyLen)
	for i := range key {
		key[i] = b
	}
	return key
}

func TestNewSignerRejectsShortKey(t *testing.T) {
	_, err := NewSigner([]byte("too short"), time.Minute)
	assert.ErrorIs(t, err, ErrKeyTooShort)
}

func TestIssueAndVerify(t *testing.T) {
	signer, err := NewSigner(testKey(1), 8*time.Minute)
	require.NoError(t, err)

	now := time.Now()
	tokenString, expiresAt, err := signer.Issue(42, "alice", now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(8*time.Minute), expiresAt, time.Second)

	claims, err := signer.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	signer, err := NewSigner(testKey(1), time.Minute)
	require.NoError(t, err)
	other, err := NewSigner(testKey(2), time.Minute)
	require.NoError(t, err)

	tokenString, _, err := signer.Issue(1, "alice", time.Now())
	require.NoError(t, err)

	_, err = other.Verify(tokenString)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	signer, err := NewSigner(testKey(1), time.Minute)
	require.NoError(t, err)

	tokenString, _, err := signer.Issue(1, "alice", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = signer.Verify(tokenString)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	signer, err := NewSigner(testKey(1), time.Minute)
	require.NoError(t, err)

	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey(1))
	require.NoError(t, err)

	_, err = signer.Verify(tokenString)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	signer, err := NewSigner(testKey(1), time.Minute)
	require.NoError(t, err)

	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = signer.Verify(tokenString)
	assert.Error(t, err)
}

func TestVerifyRejectsMissingIdentity(t *testing.T) {
	signer, err := NewSigner(testKey(1), time.Minute)
	require.NoError(t, err)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey(1))
	require.NoError(t, err)

	_, err = signer.Verify(tokenString)
	assert.ErrorIs(t, err, ErrMissingUserID)
}
