package auth

// Role is the closed set of actor roles.
type Role string

const (
	RoleRecruiter Role = "RECRUITER"
	RoleJobSeeker Role = "JOB_SEEKER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleRecruiter, RoleJobSeeker:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// ParseRole converts a stored or submitted role name. Matching is exact.
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, role.Valid()
}

// Roles lists every known role.
func Roles() []Role {
	return []Role{RoleRecruiter, RoleJobSeeker}
}
