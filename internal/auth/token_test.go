package auth

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-16-chars"

func TestTokenRoundTrip(t *testing.T) {
	tokens, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	signed, err := tokens.Generate("session-1", "user-1", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	sessionID, userID, err := tokens.Validate(signed)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if sessionID != "session-1" {
		t.Errorf("sessionID = %q, want %q", sessionID, "session-1")
	}
	if userID != "user-1" {
		t.Errorf("userID = %q, want %q", userID, "user-1")
	}
}

func TestTokenExpired(t *testing.T) {
	tokens, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	signed, err := tokens.Generate("session-1", "user-1", -time.Minute)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, _, err := tokens.Validate(signed); err == nil {
		t.Fatal("Validate() of expired token error = nil, want error")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	tokens, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	other, err := NewTokenService("another-secret-16-chars-long")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	signed, err := tokens.Generate("session-1", "user-1", time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, _, err := other.Validate(signed); err == nil {
		t.Fatal("Validate() with wrong secret error = nil, want error")
	}
}

func TestTokenGarbage(t *testing.T) {
	tokens, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	for _, tokenStr := range []string{"", "not.a.jwt", strings.Repeat("x", 200)} {
		if _, _, err := tokens.Validate(tokenStr); err == nil {
			t.Errorf("Validate(%q) error = nil, want error", tokenStr)
		}
	}
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	if _, err := NewTokenService("short"); err == nil {
		t.Fatal("NewTokenService() with short secret error = nil, want error")
	}
}
