// Package policy holds the single authorization decision table consulted by
// every mutating job and application operation.
package policy

import (
	"sync/atomic"

	"jobportal/internal/auth"
	"jobportal/internal/errcode"
)

// Action names an operation subject to authorization.
type Action int

const (
	CreateJob Action = iota + 1
	UpdateJob
	DeleteJob
	ApplyToJob
	ViewJobApplications
	UpdateApplicationStatus
	ListOwnJobs
)

var actionNames = map[Action]string{
	CreateJob:               "CreateJob",
	UpdateJob:               "UpdateJob",
	DeleteJob:               "DeleteJob",
	ApplyToJob:              "ApplyToJob",
	ViewJobApplications:     "ViewJobApplications",
	UpdateApplicationStatus: "UpdateApplicationStatus",
	ListOwnJobs:             "ListOwnJobs",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// DenyReason explains a denied decision.
type DenyReason string

const (
	WrongRole            DenyReason = "WrongRole"
	NotOwner             DenyReason = "NotOwner"
	DuplicateApplication DenyReason = "DuplicateApplication"
)

// Resource carries the facts about the target needed for a decision.
// Owner is the username of the recruiter owning the job involved.
type Resource struct {
	Owner          string
	AlreadyApplied bool
}

// Decision is the outcome of Decide.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow is the permitting decision.
var Allow = Decision{Allowed: true}

func deny(reason DenyReason) Decision { return Decision{Reason: reason} }

type rule struct {
	role   auth.Role
	owner  bool
	unique bool
}

var rules = map[Action]rule{
	CreateJob:               {role: auth.RoleRecruiter},
	UpdateJob:               {role: auth.RoleRecruiter, owner: true},
	DeleteJob:               {role: auth.RoleRecruiter, owner: true},
	ApplyToJob:              {role: auth.RoleJobSeeker, unique: true},
	ViewJobApplications:     {role: auth.RoleRecruiter, owner: true},
	UpdateApplicationStatus: {role: auth.RoleRecruiter, owner: true},
	ListOwnJobs:             {role: auth.RoleRecruiter},
}

// Decide evaluates action for principal against res. It has no side effects.
func Decide(action Action, principal auth.Principal, res Resource) Decision {
	r, ok := rules[action]
	if !ok || !principal.Is(r.role) {
		return deny(WrongRole)
	}
	if r.owner && principal.Username != res.Owner {
		return deny(NotOwner)
	}
	if r.unique && res.AlreadyApplied {
		return deny(DuplicateApplication)
	}
	return Allow
}

// Err converts a decision into the matching taxonomy error, or nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case NotOwner:
		return errcode.ErrNotOwner
	case DuplicateApplication:
		return errcode.ErrDuplicateApplication
	default:
		return errcode.ErrWrongRole
	}
}

// Observer receives every denial produced by Authorize.
type Observer func(action Action, reason DenyReason)

var observer atomic.Pointer[Observer]

// SetObserver installs fn as the denial observer. A nil fn removes it.
func SetObserver(fn Observer) {
	if fn == nil {
		observer.Store(nil)
		return
	}
	observer.Store(&fn)
}

// Authorize is Decide followed by Err.
func Authorize(action Action, principal auth.Principal, res Resource) error {
	d := Decide(action, principal, res)
	if !d.Allowed {
		if fn := observer.Load(); fn != nil {
			(*fn)(action, d.Reason)
		}
	}
	return d.Err()
}
