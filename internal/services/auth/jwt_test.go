package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, expiresAt, err := manager.GenerateAccessToken(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if expiresAt.Before(time.Now()) {
		t.Fatal("token must not be pre-expired")
	}

	identity, err := manager.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if identity.UserID != 42 {
		t.Fatalf("unexpected user id %d", identity.UserID)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	token, _, err := issuer.GenerateAccessToken(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := verifier.ParseAccessToken(token); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	manager.now = func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	}

	token, _, err := manager.GenerateAccessToken(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	fresh := NewJWTManager("test-secret", time.Hour)
	if _, err := fresh.ParseAccessToken(token); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	for _, raw := range []string{"", "  ", "not.a.token"} {
		if _, err := manager.ParseAccessToken(raw); err != ErrUnauthorized {
			t.Fatalf("expected ErrUnauthorized for %q, got %v", raw, err)
		}
	}
}
