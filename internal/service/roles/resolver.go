package roles

import (
	"errors"
	"fmt"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
)

// ChooseSentinel is the placeholder choice offered when no role was detected.
const ChooseSentinel = "Elegir..."

// ErrRoleNotSelectable the role is outside the choices offered to the candidate.
var ErrRoleNotSelectable = errors.New("role not selectable")

// Status how a candidate's role was detected
type Status string

const (
	StatusManual    Status = "manual"
	StatusAutomatic Status = "automatic"
	StatusMultiple  Status = "multiple"
)

// Label returns the text shown to operators.
func (s Status) Label() string {
	switch s {
	case StatusAutomatic:
		return "Asignación automática"
	case StatusMultiple:
		return "Múltiples roles detectados"
	default:
		return "Asignación manual requerida"
	}
}

// Classify maps the number of matching roles to a status. The status is informational;
// every candidate still needs a concrete role before reduction.
func Classify(matchingRoles []string) Status {
	switch len(matchingRoles) {
	case 0:
		return StatusManual
	case 1:
		return StatusAutomatic
	default:
		return StatusMultiple
	}
}

// SelectableRoles returns the choices offered for c. With no detected role the whole
// catalog is offered behind the sentinel; otherwise only the detected roles are.
func SelectableRoles(c model.RoleCandidate) []string {
	if len(c.MatchingRoles) == 0 {
		out := make([]string, 0, len(model.Roles)+1)
		out = append(out, ChooseSentinel)
		return append(out, model.Roles...)
	}
	return append([]string(nil), c.MatchingRoles...)
}

// DefaultSelection returns the preselected choice for c.
func DefaultSelection(c model.RoleCandidate, a Assignments) string {
	if role, ok := a[c.UserID]; ok {
		return role
	}
	if len(c.MatchingRoles) == 0 {
		return ChooseSentinel
	}
	return c.MatchingRoles[0]
}

// Assignments maps user id to the chosen role.
type Assignments map[string]string

// Assign records role for c. The sentinel or an empty role clears the choice.
func (a Assignments) Assign(c model.RoleCandidate, role string) error {
	if role == "" || role == ChooseSentinel {
		a.Clear(c.UserID)
		return nil
	}
	for _, allowed := range SelectableRoles(c) {
		if allowed == role {
			a[c.UserID] = role
			return nil
		}
	}
	return fmt.Errorf("%w: %q for user %s", ErrRoleNotSelectable, role, c.UserID)
}

// Clear reverts userID to unassigned.
func (a Assignments) Clear(userID string) {
	delete(a, userID)
}

// Clone returns an independent copy.
func (a Assignments) Clone() Assignments {
	out := make(Assignments, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// AutoAssign seeds assignments for candidates with exactly one detected role.
func AutoAssign(candidates []model.RoleCandidate) Assignments {
	a := make(Assignments)
	for _, c := range candidates {
		if Classify(c.MatchingRoles) == StatusAutomatic {
			a[c.UserID] = c.MatchingRoles[0]
		}
	}
	return a
}

// Missing returns the ids of candidates without an assignment, in candidate order.
func Missing(candidates []model.RoleCandidate, a Assignments) []string {
	var out []string
	for _, c := range candidates {
		if _, ok := a[c.UserID]; !ok {
			out = append(out, c.UserID)
		}
	}
	return out
}

// IsComplete reports whether every candidate has an assignment.
func IsComplete(candidates []model.RoleCandidate, a Assignments) bool {
	return len(Missing(candidates, a)) == 0
}
