package security_test

import (
	"testing"
	"time"

	"github.com/medisched/backend/security"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	tp := security.NewTokenProvider(testSecret, time.Hour)

	tok, err := tp.Generate("alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !tp.Validate(tok) {
		t.Fatal("fresh token should validate")
	}
	sub, ok := tp.Subject(tok)
	if !ok {
		t.Fatal("subject extraction failed")
	}
	if sub != "alice" {
		t.Errorf("subject: got %q, want %q", sub, "alice")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	tp := security.NewTokenProvider(testSecret, time.Hour)
	other := security.NewTokenProvider("another-secret-that-is-long-enough!!", time.Hour)

	tok, err := tp.Generate("alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if other.Validate(tok) {
		t.Fatal("token signed with a different secret should not validate")
	}
	if _, ok := other.Subject(tok); ok {
		t.Fatal("subject should not be extractable with a different secret")
	}
}

func TestTokenGarbage(t *testing.T) {
	tp := security.NewTokenProvider(testSecret, time.Hour)

	for _, raw := range []string{"", "not.a.token", "a.b", "x"} {
		if tp.Validate(raw) {
			t.Errorf("garbage token %q validated", raw)
		}
	}
}

func TestTokenExpiry(t *testing.T) {
	tp := security.NewTokenProvider(testSecret, -time.Minute)

	tok, err := tp.Generate("alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if tp.Validate(tok) {
		t.Fatal("expired token should not validate")
	}
}

func TestTokenCorrupted(t *testing.T) {
	tp := security.NewTokenProvider(testSecret, time.Hour)

	tok, err := tp.Generate("alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	corrupted := tok[:len(tok)-2] + "zz"
	if tp.Validate(corrupted) {
		t.Fatal("corrupted token should not validate")
	}
}
