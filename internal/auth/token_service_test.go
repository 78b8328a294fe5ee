package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"jobportal/internal/errcode"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestTokenService(t *testing.T, now func() time.Time) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testSecret, time.Hour, "jobportal-test", WithClock(now))
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return svc
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, time.Now)

	token, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	username, err := svc.Verify(token.Value)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if username != "alice" {
		t.Fatalf("expected alice, got %q", username)
	}
	if !token.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected expiry in the future, got %s", token.ExpiresAt)
	}
}

func TestTokenExpired(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	issuer := newTestTokenService(t, func() time.Time { return issuedAt })
	token, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	verifier := newTestTokenService(t, time.Now)
	if _, err := verifier.Verify(token.Value); !errors.Is(err, errcode.ErrExpiredToken) {
		t.Fatalf("expected ExpiredToken, got %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	other, err := NewTokenService([]byte("ffffffffffffffffffffffffffffffff"), time.Hour, "jobportal-test")
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	token, err := other.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc := newTestTokenService(t, time.Now)
	if _, err := svc.Verify(token.Value); !errors.Is(err, errcode.ErrInvalidToken) {
		t.Fatalf("expected InvalidToken, got %v", err)
	}
}

func TestTokenTamperedPayload(t *testing.T) {
	svc := newTestTokenService(t, time.Now)
	token, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	bob, err := svc.Issue("bob")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// splice bob's claims onto alice's signature
	a := strings.Split(token.Value, ".")
	b := strings.Split(bob.Value, ".")
	forged := strings.Join([]string{a[0], b[1], a[2]}, ".")

	if _, err := svc.Verify(forged); !errors.Is(err, errcode.ErrInvalidToken) {
		t.Fatalf("expected InvalidToken, got %v", err)
	}
}

func TestTokenRejectsUnsignedAlgorithm(t *testing.T) {
	claims := TokenClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "jobportal-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	svc := newTestTokenService(t, time.Now)
	if _, err := svc.Verify(raw); !errors.Is(err, errcode.ErrInvalidToken) {
		t.Fatalf("expected InvalidToken, got %v", err)
	}
}

func TestTokenMalformed(t *testing.T) {
	svc := newTestTokenService(t, time.Now)

	for _, raw := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		if _, err := svc.Verify(raw); !errors.Is(err, errcode.ErrMalformedToken) {
			t.Fatalf("%q: expected MalformedToken, got %v", raw, err)
		}
	}
}

func TestNewTokenServiceRejectsShortSecret(t *testing.T) {
	if _, err := NewTokenService([]byte("short"), time.Hour, ""); err == nil {
		t.Fatal("expected error for short secret")
	}
	if _, err := NewTokenService(testSecret, 0, ""); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}
