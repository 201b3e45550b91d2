package identity

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/carevault/carevault/pkg/token"
)

func TestFromClaims(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	claims := &token.Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(8 * time.Minute)),
		},
	}

	id := FromClaims(claims)

	if id.UserID != 7 {
		t.Errorf("expected user id 7, got %d", id.UserID)
	}
	if id.Username != "alice" {
		t.Errorf("expected username alice, got %q", id.Username)
	}
	if !id.IssuedAt.Equal(issued) {
		t.Errorf("expected issued at %v, got %v", issued, id.IssuedAt)
	}
	if !id.ExpiresAt.Equal(issued.Add(8 * time.Minute)) {
		t.Errorf("unexpected expiry %v", id.ExpiresAt)
	}
}

func TestFromClaimsWithoutTimestamps(t *testing.T) {
	claims := &token.Claims{
		UserID:           3,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "bob"},
	}

	id := FromClaims(claims)
	if !id.IssuedAt.IsZero() || !id.ExpiresAt.IsZero() {
		t.Error("expected zero timestamps when claims omit them")
	}
}

func TestContextRoundTrip(t *testing.T) {
	id := (&Identity{UserID: 1, Username: "alice"}).WithRemoteIP(net.ParseIP("10.0.0.9"))

	ctx := Set(context.Background(), id)
	got, ok := Get(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if got != id {
		t.Error("expected the same identity back")
	}

	if _, ok := Get(context.Background()); ok {
		t.Error("expected no identity in empty context")
	}
}
