package hours

import (
	"math"
	"strings"
	"time"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
)

// UnknownUserName display name used when an entry carries none.
const UnknownUserName = "Desconocido"

// Totals per-user hour totals in first-seen order.
type Totals struct {
	order []string
	users map[string]*model.UserHours
}

// NewTotals returns an empty accumulator.
func NewTotals() *Totals {
	return &Totals{users: make(map[string]*model.UserHours)}
}

// Aggregate groups entries by user id and sums their parsed durations. Entries without
// a user id are skipped; the first display name seen for a user wins.
func Aggregate(entries []model.TimeEntry) *Totals {
	t := NewTotals()
	for _, e := range entries {
		t.Add(e)
	}
	return t
}

// Add folds one entry into the totals.
func (t *Totals) Add(e model.TimeEntry) {
	id := e.UserID
	if id == "" {
		return
	}
	duration := e.Duration
	if duration == "" {
		duration = DefaultDuration
	}
	u, ok := t.users[id]
	if !ok {
		name := strings.TrimSpace(e.UserName)
		if name == "" {
			name = UnknownUserName
		}
		u = &model.UserHours{UserID: id, DisplayName: name}
		t.users[id] = u
		t.order = append(t.order, id)
	}
	u.TotalHours += ParseDuration(duration)
}

// Users returns a copy of every record in first-seen order.
func (t *Totals) Users() []model.UserHours {
	if t == nil {
		return nil
	}
	out := make([]model.UserHours, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.users[id])
	}
	return out
}

// Lookup returns the record for id.
func (t *Totals) Lookup(id string) (model.UserHours, bool) {
	if t == nil {
		return model.UserHours{}, false
	}
	u, ok := t.users[id]
	if !ok {
		return model.UserHours{}, false
	}
	return *u, true
}

// Hours returns the total for id, 0 when unknown.
func (t *Totals) Hours(id string) float64 {
	u, _ := t.Lookup(id)
	return u.TotalHours
}

// Len number of distinct users
func (t *Totals) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Sum total hours across all users
func (t *Totals) Sum() float64 {
	var total float64
	if t == nil {
		return 0
	}
	for _, id := range t.order {
		total += t.users[id].TotalHours
	}
	return total
}

// SpanMonths estimates the project duration in months from the entries' spentOn dates,
// counting 30 days per month and rounding to one decimal. Unparseable dates are ignored.
func SpanMonths(entries []model.TimeEntry) float64 {
	var first, last time.Time
	for _, e := range entries {
		if e.SpentOn == "" {
			continue
		}
		d, err := time.Parse(time.DateOnly, e.SpentOn)
		if err != nil {
			continue
		}
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if last.IsZero() || d.After(last) {
			last = d
		}
	}
	if first.IsZero() {
		return 0
	}
	// time.Duration saturates near 292 years; count days from Unix seconds instead
	days := (last.Unix()-first.Unix())/86400 + 1
	return math.Round(float64(days)/30*10) / 10
}
