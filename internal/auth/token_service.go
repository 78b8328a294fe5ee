package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"jobportal/internal/errcode"
)

// MinSecretLength is the shortest accepted HS256 signing secret.
const MinSecretLength = 32

// TokenService issues and verifies signed, time-bound identity tokens.
// The signing secret is fixed for the lifetime of the process.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Token is an issued bearer credential.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenClaims carries the subject only; roles are re-read from the store on every request.
type TokenClaims struct {
	jwt.RegisteredClaims
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenService validates the secret and builds the service.
func NewTokenService(secret []byte, ttl time.Duration, issuer string, opts ...TokenOption) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d bytes", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	s := &TokenService{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token bound to username.
func (s *TokenService) Issue(username string) (Token, error) {
	if strings.TrimSpace(username) == "" {
		return Token{}, errors.New("username is required")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks signature and expiry and returns the bound username.
func (s *TokenService) Verify(raw string) (string, error) {
	if raw == "" || strings.Count(raw, ".") != 2 {
		return "", errcode.ErrMalformedToken
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, parserOpts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", errcode.ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", errcode.ErrExpiredToken
		default:
			return "", errcode.ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", errcode.ErrInvalidToken
	}

	return claims.Subject, nil
}
