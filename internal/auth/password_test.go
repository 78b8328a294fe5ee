package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash must not equal the password")
	}
	if !hasher.Compare(hash, "correct horse battery") {
		t.Fatal("expected password to match")
	}
	if hasher.Compare(hash, "wrong password") {
		t.Fatal("expected mismatch")
	}
}

func TestNewBcryptHasherFallsBackToDefault(t *testing.T) {
	if got := NewBcryptHasher(99).Cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}

func TestParseRole(t *testing.T) {
	if role, ok := ParseRole("RECRUITER"); !ok || role != RoleRecruiter {
		t.Fatalf("expected recruiter, got %q %v", role, ok)
	}
	if _, ok := ParseRole("recruiter"); ok {
		t.Fatal("role matching must be exact")
	}
	if _, ok := ParseRole(""); ok {
		t.Fatal("empty role must be invalid")
	}
}
