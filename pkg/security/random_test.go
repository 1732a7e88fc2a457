package security

import (
	"regexp"
	"testing"
)

func TestRandomHex(t *testing.T) {
	token, err := RandomHex(32)
	if err != nil {
		t.Fatalf("RandomHex: %v", err)
	}
	if !regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(token) {
		t.Fatalf("unexpected token %q", token)
	}
	other, _ := RandomHex(32)
	if other == token {
		t.Fatal("expected distinct tokens")
	}
	if _, err := RandomHex(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

func TestRandomDigits(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9]{4}$`)
	for i := 0; i < 50; i++ {
		digits, err := RandomDigits(4)
		if err != nil {
			t.Fatalf("RandomDigits: %v", err)
		}
		if !pattern.MatchString(digits) {
			t.Fatalf("unexpected digits %q", digits)
		}
	}
	if _, err := RandomDigits(0); err == nil {
		t.Fatal("expected error for zero digits")
	}
}

func TestGenerateTempPasswordLength(t *testing.T) {
	pw, err := GenerateTempPassword(12)
	if err != nil {
		t.Fatalf("GenerateTempPassword: %v", err)
	}
	if len(pw) != 12 {
		t.Fatalf("expected 12 characters, got %d", len(pw))
	}
}
