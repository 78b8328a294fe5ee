package auth

// Principal is the caller identity resolved for a single request.
// The zero value is the anonymous caller.
type Principal struct {
	ID       uint
	Username string
	Role     Role
}

// Anonymous is the principal of a request without a bearer credential.
var Anonymous = Principal{}

// Authenticated reports whether the principal carries a resolved identity.
func (p Principal) Authenticated() bool {
	return p.Username != ""
}

// Is reports whether p holds role.
func (p Principal) Is(role Role) bool {
	return p.Authenticated() && p.Role == role
}

// Account is the slice of a stored user that identity resolution needs.
type Account struct {
	ID       uint
	Username string
	Role     string
}
