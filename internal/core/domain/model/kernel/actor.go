package kernel

import (
	"fmt"
	"strings"

	"custody/internal/pkg/errs"
)

// Role is recorded with the actor on trace events. Void escalates it.
type Role string

const (
	RoleOperator   Role = "OPERATOR"
	RoleSupervisor Role = "SUPERVISOR"
	RoleManager    Role = "MANAGER"
	RoleSystem     Role = "SYSTEM"
)

// SystemUserID is the sentinel used by boundaries when no user id was supplied.
const SystemUserID = "system"

// Validate rejects roles outside OPERATOR, SUPERVISOR, MANAGER and SYSTEM.
func (r Role) Validate() error {
	switch r {
	case RoleOperator, RoleSupervisor, RoleManager, RoleSystem:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", string(r)))
	}
}

// Actor identifies who performed a transition.
type Actor struct {
	userID string
	role   Role
}

// NewActor creates an Actor for a non-blank userID and a known role.
//
// Example:
//
//	actor, err := kernel.NewActor("op-17", kernel.RoleOperator)
//	if err != nil {
//	    return err
//	}
func NewActor(userID string, role Role) (Actor, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Actor{}, errs.NewValueIsRequiredError("actor user id")
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{userID: userID, role: role}, nil
}

// SystemActor is the actor of jobs and of requests that carry no user id.
func SystemActor() Actor {
	return Actor{userID: SystemUserID, role: RoleSystem}
}

// UserID returns the id recorded as trace event actor.
func (a Actor) UserID() string {
	return a.userID
}

// Role returns the role recorded with the user id.
func (a Actor) Role() Role {
	return a.role
}

// WithRole returns the same user recorded under a different role.
func (a Actor) WithRole(role Role) Actor {
	return Actor{userID: a.userID, role: role}
}

// Validate fails for the zero Actor and for unknown roles.
func (a Actor) Validate() error {
	if a.userID == "" {
		return errs.NewValueIsRequiredError("actor user id")
	}
	return a.role.Validate()
}
