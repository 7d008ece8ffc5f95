package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/excel"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/hours"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/service/roles"
)

// ErrNoProject is returned by operations that need a loaded project.
var ErrNoProject = errors.New("no project loaded")

// ErrUnknownUser is returned when assigning a user that is not a candidate.
var ErrUnknownUser = errors.New("user is not a candidate")

// ErrNoCandidates the loaded project has no time entries with a resolvable user.
var ErrNoCandidates = errors.New("project has no users with recorded hours")

// DataSource is the OpenProject surface a session reads from.
type DataSource interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListTimeEntries(ctx context.Context, projectID string) ([]model.TimeEntry, error)
	ListGroups(ctx context.Context) ([]model.Group, error)
}

// Emitter produces the report workbook.
type Emitter interface {
	Emit(v model.RoleHoursVector, projectName string, durationMonths *float64) (*excel.Report, error)
}

// CandidateView a candidate with the choices offered to the operator.
type CandidateView struct {
	model.RoleCandidate
	Status       roles.Status `json:"status"`
	StatusLabel  string       `json:"statusLabel"`
	Choices      []string     `json:"choices"`
	Default      string       `json:"default"`
	AssignedRole string       `json:"assignedRole,omitempty"`
}

// Snapshot read-only view of a session.
type Snapshot struct {
	ID             string          `json:"sessionId"`
	Project        model.Project   `json:"project"`
	Loaded         bool            `json:"loaded"`
	LoadedAt       time.Time       `json:"loadedAt,omitempty"`
	DurationMonths float64         `json:"durationMonths"`
	TotalHours     float64         `json:"totalHours"`
	Complete       bool            `json:"complete"`
	Missing        []string        `json:"missing,omitempty"`
	Candidates     []CandidateView `json:"candidates"`
}

// Session owns every derived collection of one project-processing cycle.
type Session struct {
	id     string
	source DataSource
	log    zerolog.Logger

	mu             sync.Mutex
	project        model.Project
	loaded         bool
	loadedAt       time.Time
	totals         *hours.Totals
	candidates     []model.RoleCandidate
	assignments    roles.Assignments
	durationMonths float64
}

// New creates a session bound to src.
func New(id string, source DataSource, log zerolog.Logger) *Session {
	return &Session{
		id:          id,
		source:      source,
		log:         log.With().Str("session", id).Logger(),
		totals:      hours.NewTotals(),
		assignments: roles.Assignments{},
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Reset discards all derived state and recomputes it for project. The session lock is
// held for the whole cycle, so callers never observe a mix of old and new data. On a
// fetch failure the session stays empty.
func (s *Session) Reset(ctx context.Context, project model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.project = project
	s.clearLocked()

	var (
		entries []model.TimeEntry
		groups  []model.Group
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.source.ListTimeEntries(gctx, project.ID)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = s.source.ListGroups(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error().Err(err).Str("project", project.ID).Msg("load project failed")
		return fmt.Errorf("load project %s: %w", project.ID, err)
	}

	s.totals = hours.Aggregate(entries)
	s.candidates = roles.Match(s.totals, groups)
	s.assignments = roles.AutoAssign(s.candidates)
	s.durationMonths = hours.SpanMonths(entries)
	s.loaded = true
	s.loadedAt = time.Now()

	s.log.Info().
		Str("project", project.ID).
		Int("entries", len(entries)).
		Int("groups", len(groups)).
		Int("candidates", len(s.candidates)).
		Int("auto_assigned", len(s.assignments)).
		Msg("project loaded")
	return nil
}

func (s *Session) clearLocked() {
	s.loaded = false
	s.loadedAt = time.Time{}
	s.totals = hours.NewTotals()
	s.candidates = nil
	s.assignments = roles.Assignments{}
	s.durationMonths = 0
}

// Assign records role for userID; the sentinel or "" clears it.
func (s *Session) Assign(userID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNoProject
	}
	c, ok := s.candidateLocked(userID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}
	return s.assignments.Assign(c, role)
}

// Clear reverts userID to unassigned.
func (s *Session) Clear(userID string) error {
	return s.Assign(userID, "")
}

func (s *Session) candidateLocked(userID string) (model.RoleCandidate, bool) {
	for _, c := range s.candidates {
		if c.UserID == userID {
			return c, true
		}
	}
	return model.RoleCandidate{}, false
}

// Snapshot returns the current state with the resolver's view of every candidate.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]CandidateView, 0, len(s.candidates))
	for _, c := range s.candidates {
		status := roles.Classify(c.MatchingRoles)
		views = append(views, CandidateView{
			RoleCandidate: c,
			Status:        status,
			StatusLabel:   status.Label(),
			Choices:       roles.SelectableRoles(c),
			Default:       roles.DefaultSelection(c, s.assignments),
			AssignedRole:  s.assignments[c.UserID],
		})
	}
	missing := roles.Missing(s.candidates, s.assignments)
	return Snapshot{
		ID:             s.id,
		Project:        s.project,
		Loaded:         s.loaded,
		LoadedAt:       s.loadedAt,
		DurationMonths: s.durationMonths,
		TotalHours:     hours.Round2(s.totals.Sum()),
		Complete:       s.loaded && len(missing) == 0 && len(s.candidates) > 0,
		Missing:        missing,
		Candidates:     views,
	}
}

// RoleHours reduces the current assignments. It fails with an *model.IncompleteError
// while any candidate is unassigned.
func (s *Session) RoleHours() (model.RoleHoursVector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roleHoursLocked()
}

func (s *Session) roleHoursLocked() (model.RoleHoursVector, error) {
	if !s.loaded {
		return model.RoleHoursVector{}, ErrNoProject
	}
	return roles.Reduce(s.candidates, s.assignments, s.totals)
}

// Result of a report generation.
type Result struct {
	Project   model.Project
	RoleHours model.RoleHoursVector
	Report    *excel.Report
}

// GenerateReport reduces the assignments and emits the workbook.
func (s *Session) GenerateReport(e Emitter) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.roleHoursLocked()
	if err != nil {
		return nil, err
	}
	if len(s.candidates) == 0 {
		return nil, ErrNoCandidates
	}
	months := s.durationMonths
	report, err := e.Emit(v, s.project.Name, &months)
	if err != nil {
		s.log.Error().Err(err).Str("project", s.project.ID).Msg("report emission failed")
		return nil, err
	}
	s.log.Info().Str("project", s.project.ID).Str("file", report.FileName).Float64("hours", v.Sum()).Msg("report generated")
	return &Result{Project: s.project, RoleHours: v, Report: report}, nil
}
