package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/model"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// ErrProjectNotFound the project id is not known to the data source.
var ErrProjectNotFound = errors.New("project not found")

// Manager keeps one isolated Session per client.
type Manager struct {
	source DataSource
	log    zerolog.Logger
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

// NewManager sessions idle for longer than ttl are dropped; ttl <= 0 keeps them forever.
func NewManager(source DataSource, log zerolog.Logger, ttl time.Duration) *Manager {
	return &Manager{
		source:   source,
		log:      log,
		ttl:      ttl,
		sessions: make(map[string]*entry),
	}
}

// Create registers a new session.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.purgeExpiredLocked(time.Now())

	s := New(uuid.NewString(), m.source, m.log)
	m.sessions[s.ID()] = &entry{session: s, lastSeen: time.Now()}
	return s
}

// Get looks up a session by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.expired(e, time.Now()) {
		delete(m.sessions, id)
		return nil, ErrSessionNotFound
	}
	e.lastSeen = time.Now()
	return e.session, nil
}

// Delete drops a session.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Projects lists projects from the data source.
func (m *Manager) Projects(ctx context.Context) ([]model.Project, error) {
	return m.source.ListProjects(ctx)
}

// FindProject resolves projectID against the data source.
func (m *Manager) FindProject(ctx context.Context, projectID string) (model.Project, error) {
	projects, err := m.source.ListProjects(ctx)
	if err != nil {
		return model.Project{}, err
	}
	for _, p := range projects {
		if p.ID == projectID || (p.Identifier != "" && p.Identifier == projectID) {
			return p, nil
		}
	}
	return model.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
}

func (m *Manager) expired(e *entry, now time.Time) bool {
	return m.ttl > 0 && now.Sub(e.lastSeen) > m.ttl
}

func (m *Manager) purgeExpiredLocked(now time.Time) {
	for k, e := range m.sessions {
		if m.expired(e, now) {
			delete(m.sessions, k)
		}
	}
}
