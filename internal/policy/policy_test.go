package policy

import (
	"errors"
	"testing"

	"jobportal/internal/auth"
	"jobportal/internal/errcode"
)

var (
	recruiterA = auth.Principal{ID: 1, Username: "alice", Role: auth.RoleRecruiter}
	recruiterC = auth.Principal{ID: 3, Username: "carol", Role: auth.RoleRecruiter}
	seekerB    = auth.Principal{ID: 2, Username: "bob", Role: auth.RoleJobSeeker}
)

func TestDecide(t *testing.T) {
	owned := Resource{Owner: "alice"}

	cases := []struct {
		name   string
		action Action
		who    auth.Principal
		res    Resource
		want   Decision
	}{
		{"recruiter creates", CreateJob, recruiterA, Resource{}, Allow},
		{"seeker creates", CreateJob, seekerB, Resource{}, deny(WrongRole)},
		{"anonymous creates", CreateJob, auth.Anonymous, Resource{}, deny(WrongRole)},
		{"owner updates", UpdateJob, recruiterA, owned, Allow},
		{"non owner updates", UpdateJob, recruiterC, owned, deny(NotOwner)},
		{"seeker updates", UpdateJob, seekerB, Resource{Owner: "bob"}, deny(WrongRole)},
		{"owner deletes", DeleteJob, recruiterA, owned, Allow},
		{"non owner deletes", DeleteJob, recruiterC, owned, deny(NotOwner)},
		{"seeker applies", ApplyToJob, seekerB, owned, Allow},
		{"seeker applies twice", ApplyToJob, seekerB, Resource{Owner: "alice", AlreadyApplied: true}, deny(DuplicateApplication)},
		{"recruiter applies to own job", ApplyToJob, recruiterA, owned, deny(WrongRole)},
		{"recruiter applies to other job", ApplyToJob, recruiterC, owned, deny(WrongRole)},
		{"owner views applications", ViewJobApplications, recruiterA, owned, Allow},
		{"non owner views applications", ViewJobApplications, recruiterC, owned, deny(NotOwner)},
		{"seeker views applications", ViewJobApplications, seekerB, owned, deny(WrongRole)},
		{"owner updates status", UpdateApplicationStatus, recruiterA, owned, Allow},
		{"non owner updates status", UpdateApplicationStatus, recruiterC, owned, deny(NotOwner)},
		{"unknown action", Action(99), recruiterA, owned, deny(WrongRole)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(tc.action, tc.who, tc.res); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestOwnershipIsExact(t *testing.T) {
	got := Decide(UpdateJob, recruiterA, Resource{Owner: "Alice"})
	if got.Allowed {
		t.Fatal("ownership must be compared exactly")
	}
}

func TestAuthorizeErrors(t *testing.T) {
	if err := Authorize(CreateJob, recruiterA, Resource{}); err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if err := Authorize(ApplyToJob, recruiterA, Resource{}); !errors.Is(err, errcode.ErrWrongRole) {
		t.Fatalf("expected WrongRole, got %v", err)
	}
	if err := Authorize(DeleteJob, recruiterC, Resource{Owner: "alice"}); !errors.Is(err, errcode.ErrNotOwner) {
		t.Fatalf("expected NotOwner, got %v", err)
	}
	if err := Authorize(ApplyToJob, seekerB, Resource{AlreadyApplied: true}); !errors.Is(err, errcode.ErrDuplicateApplication) {
		t.Fatalf("expected DuplicateApplication, got %v", err)
	}
}

func TestAuthorizeNotifiesObserver(t *testing.T) {
	var denied []DenyReason
	SetObserver(func(_ Action, reason DenyReason) { denied = append(denied, reason) })
	t.Cleanup(func() { SetObserver(nil) })

	_ = Authorize(CreateJob, recruiterA, Resource{})
	_ = Authorize(UpdateJob, recruiterC, Resource{Owner: "alice"})
	_ = Authorize(CreateJob, seekerB, Resource{})

	if len(denied) != 2 || denied[0] != NotOwner || denied[1] != WrongRole {
		t.Fatalf("unexpected observed denials %v", denied)
	}
}
