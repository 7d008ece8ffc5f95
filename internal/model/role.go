package model

// Roles is the fixed role catalog. The order drives both the default suggested role and
// the column order of the generated report.
var Roles = []string{
	"Gerente Unidad Proyectos",
	"Lider Gestión-2 Proyectos",
	"Ingeniero Gestión-1 Proyectos",
	"Ingeniero Gestión-2 Proyectos",
	"Gerente Unidad Desarrollo",
	"Senior Técnico-1 Desarrollo",
	"Lider Gestión-1 Desarrollo",
	"Ingeniero Técnico-1 Desarrollo",
	"Gerente Unidad Ingeniería",
	"Senior Técnico-1 Ingeniería",
	"Gerente Unidad Telco",
	"Senior Técnico-1 Telco",
}

// RoleCount is the number of fixed roles.
const RoleCount = 12

// RoleHoursVector per-role hour totals, index-aligned with Roles.
type RoleHoursVector [RoleCount]float64

// Sum total hours across all roles
func (v RoleHoursVector) Sum() float64 {
	var total float64
	for _, h := range v {
		total += h
	}
	return total
}

// Map returns the vector keyed by role name.
func (v RoleHoursVector) Map() map[string]float64 {
	out := make(map[string]float64, RoleCount)
	for i, role := range Roles {
		out[role] = v[i]
	}
	return out
}

// RoleIndex returns the position of role in Roles, or -1.
func RoleIndex(role string) int {
	for i, r := range Roles {
		if r == role {
			return i
		}
	}
	return -1
}

// IsRole reports whether name is one of the known roles.
func IsRole(name string) bool {
	return RoleIndex(name) >= 0
}
