package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("user-1", "jane@example.com", "customer", "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	claims, err := Parse(token, "secret")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if claims.Sub != "user-1" {
		t.Errorf("sub = %q, want user-1", claims.Sub)
	}
	if claims.Email != "jane@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Role != "customer" {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewAccessToken("user-1", "jane@example.com", "customer", "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	if _, err := Parse(token, "other-secret"); err == nil {
		t.Fatal("Parse accepted a token signed with a different secret")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := NewAccessToken("user-1", "jane@example.com", "customer", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	if _, err := Parse(token, "secret"); err == nil {
		t.Fatal("Parse accepted an expired token")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("not.a.jwt", "secret"); err == nil {
		t.Fatal("Parse accepted garbage input")
	}
}
