package roles

import (
	"fmt"
	"sort"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/hours"
)

// Reduce folds the assignments into per-role totals. It refuses to run while any
// candidate is unassigned.
func Reduce(candidates []model.RoleCandidate, a Assignments, totals *hours.Totals) (model.RoleHoursVector, error) {
	var v model.RoleHoursVector
	if missing := Missing(candidates, a); len(missing) > 0 {
		return v, &model.IncompleteError{Missing: missing}
	}
	ids := make([]string, 0, len(a))
	for userID := range a {
		ids = append(ids, userID)
	}
	sort.Strings(ids)
	for _, userID := range ids {
		role := a[userID]
		idx := model.RoleIndex(role)
		if idx < 0 {
			return model.RoleHoursVector{}, fmt.Errorf("user %s: unknown role %q", userID, role)
		}
		v[idx] += totals.Hours(userID)
	}
	for i := range v {
		v[i] = hours.Round2(v[i])
	}
	return v, nil
}
