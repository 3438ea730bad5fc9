package workflow

import (
	"fmt"

	"github.com/yiconnect/backend/internal/app/models"
	"github.com/yiconnect/backend/internal/pkg/apperrors"
)

// Action names a transition on an entity family (approve, reject, withdraw...).
type Action string

// Rule declares one legal action: the statuses it may start from, the status
// it produces, and who may perform it. Roles is the set of roles authorized
// for the action; Owner additionally permits the record's owner (e.g. an
// applicant withdrawing their own application) regardless of role.
type Rule struct {
	From  []string
	To    string
	Roles []models.RoleType
	Owner bool
}

// Machine is the declarative permission table for one entity family,
// keyed by action. A single Apply call replaces per-action inlined role
// checks scattered across operations.
type Machine struct {
	Entity string
	Rules  map[Action]Rule
}

// Actor identifies who is attempting a transition.
type Actor struct {
	UserID  int64
	Role    models.RoleType
	IsOwner bool
}

// Apply validates that actor may perform action from the current status and
// returns the resulting status. The current status is never mutated here;
// callers persist the returned status only on success.
func (m *Machine) Apply(action Action, current string, actor Actor) (string, error) {
	rule, ok := m.Rules[action]
	if !ok {
		return "", apperrors.NewBadRequestError(fmt.Sprintf("unknown action %q for %s", action, m.Entity))
	}

	if !m.authorized(rule, actor) {
		return "", apperrors.NewForbiddenError(fmt.Sprintf("not authorized to %s a %s", action, m.Entity))
	}

	for _, from := range rule.From {
		if from == current {
			return rule.To, nil
		}
	}

	return "", apperrors.NewInvalidTransitionError(
		fmt.Sprintf("cannot %s a %s in state %s", action, m.Entity, current))
}

// Can reports whether action is legal from the current status, ignoring the
// actor. Used for read-side affordance hints.
func (m *Machine) Can(action Action, current string) bool {
	rule, ok := m.Rules[action]
	if !ok {
		return false
	}
	for _, from := range rule.From {
		if from == current {
			return true
		}
	}
	return false
}

func (m *Machine) authorized(rule Rule, actor Actor) bool {
	if rule.Owner && actor.IsOwner {
		return true
	}
	for _, role := range rule.Roles {
		if role == actor.Role {
			return true
		}
	}
	return false
}
