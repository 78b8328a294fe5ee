package auth

import (
	"context"
	"strings"

	"jobportal/internal/errcode"
)

// CredentialStore is the read side of the user store needed to resolve identities.
type CredentialStore interface {
	Lookup(ctx context.Context, username string) (Account, bool, error)
}

// TokenVerifier checks a raw bearer token and returns the bound username.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// Resolver turns an Authorization header into a Principal.
type Resolver struct {
	tokens TokenVerifier
	users  CredentialStore
}

// NewResolver builds a Resolver.
func NewResolver(tokens TokenVerifier, users CredentialStore) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve returns Anonymous for a missing header or a non-Bearer scheme.
// A present Bearer credential must verify and refer to an existing user.
func (r *Resolver) Resolve(ctx context.Context, header string) (Principal, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Anonymous, nil
	}

	parts := strings.Fields(header)
	if !strings.EqualFold(parts[0], "Bearer") {
		return Anonymous, nil
	}
	if len(parts) != 2 {
		return Anonymous, errcode.ErrMalformedToken
	}

	return r.ResolveToken(ctx, parts[1])
}

// ResolveToken resolves a bare token, as delivered over the websocket handshake.
func (r *Resolver) ResolveToken(ctx context.Context, raw string) (Principal, error) {
	username, err := r.tokens.Verify(raw)
	if err != nil {
		return Anonymous, err
	}

	account, ok, err := r.users.Lookup(ctx, username)
	if err != nil {
		return Anonymous, errcode.Dependency("lookup principal", err)
	}
	if !ok {
		return Anonymous, errcode.ErrPrincipalNotFound
	}

	role, valid := ParseRole(account.Role)
	if !valid {
		return Anonymous, errcode.Dependency("lookup principal", errUnknownRole(account.Role))
	}

	return Principal{
		ID:       account.ID,
		Username: account.Username,
		Role:     role,
	}, nil
}

type errUnknownRole string

func (e errUnknownRole) Error() string { return "stored role " + string(e) + " is not recognised" }
