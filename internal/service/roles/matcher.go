package roles

import (
	"strings"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/hours"
)

// Match cross-references every aggregated user against the group list. Users keep
// first-seen order and groups keep input order, so repeated calls return identical output.
func Match(totals *hours.Totals, groups []model.Group) []model.RoleCandidate {
	users := totals.Users()
	out := make([]model.RoleCandidate, 0, len(users))
	for _, u := range users {
		c := model.RoleCandidate{
			UserID:        u.UserID,
			DisplayName:   u.DisplayName,
			TotalHours:    u.TotalHours,
			CurrentGroups: []string{},
			MatchingRoles: []string{},
		}
		for _, g := range groups {
			if !hasMember(g, u.UserID) {
				continue
			}
			c.CurrentGroups = append(c.CurrentGroups, g.Name)
			if model.IsRole(g.Name) {
				c.MatchingRoles = append(c.MatchingRoles, g.Name)
			}
		}
		out = append(out, c)
	}
	return out
}

func hasMember(g model.Group, userID string) bool {
	for _, ref := range g.MemberRefs {
		if refersTo(ref, userID) {
			return true
		}
	}
	return false
}

// refersTo reports whether a member reference such as "/api/v3/users/42" ends with the
// user id. The suffix must start a path segment so "/users/142" does not match "42".
func refersTo(ref, userID string) bool {
	if userID == "" {
		return false
	}
	return ref == userID || strings.HasSuffix(ref, "/"+userID)
}
