package model

// Project is an OpenProject project.
type Project struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier,omitempty"`
	Name       string `json:"name"`
}

// TimeEntry a single booked time entry.
//
// UserID is empty when the entry's user reference could not be resolved.
type TimeEntry struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Duration string `json:"duration"` // ISO-8601, e.g. PT4H30M
	SpentOn  string `json:"spentOn"`  // YYYY-MM-DD
}

// Group an organizational group and the references of its members.
type Group struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	MemberRefs []string `json:"memberRefs"`
}

// UserHours aggregated hours of one user
type UserHours struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	TotalHours  float64 `json:"totalHours"`
}

// RoleCandidate a user with recorded hours awaiting role resolution.
type RoleCandidate struct {
	UserID        string   `json:"userId"`
	DisplayName   string   `json:"displayName"`
	TotalHours    float64  `json:"totalHours"`
	CurrentGroups []string `json:"currentGroups"`
	MatchingRoles []string `json:"matchingRoles"`
}
