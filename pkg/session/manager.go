package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when a session id is unknown.
var ErrNotFound = errors.New("session not found")

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "mozhi_sessions_active",
	Help: "Number of chat sessions currently held in memory",
})

// Summary is a point-in-time view of a session for listings.
type Summary struct {
	ID               string
	CreatedAt        time.Time
	LastActive       time.Time
	Turns            int
	TranslationCount int
}

// Manager tracks live sessions. Sessions share nothing but the translator.
type Manager struct {
	translator Translator
	logger     *logrus.Logger
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session registry.
func NewManager(translator Translator, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
	}
	return &Manager{
		translator: translator,
		logger:     logger,
		now:        time.Now,
		sessions:   make(map[string]*Session),
	}
}

// Create starts a new session with a random id.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.translator, m.logger, m.now)

	m.mu.Lock()
	m.sessions[s.id] = s
	total := len(m.sessions)
	m.mu.Unlock()

	activeSessions.Inc()
	m.logger.WithFields(logrus.Fields{
		"session_id":     s.id,
		"total_sessions": total,
	}).Info("Session created")
	return s
}

// Get looks a session up by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// GetOrCreate returns the session for id, or a fresh one when id is empty or
// unknown. The boolean reports whether a session was created.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s, err := m.Get(id); err == nil {
			return s, false
		}
	}
	return m.Create(), true
}

// Delete removes a session. Its log and memory go with it.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	activeSessions.Dec()
	m.logger.WithField("session_id", id).Info("Session deleted")
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// List returns summaries ordered by creation time.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	out := make([]Summary, 0, len(sessions))
	for _, s := range sessions {
		turns := s.Len()
		out = append(out, Summary{
			ID:               s.id,
			CreatedAt:        s.createdAt,
			LastActive:       s.LastActive(),
			Turns:            turns,
			TranslationCount: turns / 2,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// CleanupExpired removes sessions idle for longer than maxIdle and returns how
// many were removed.
func (m *Manager) CleanupExpired(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0

	for id, s := range m.sessions {
		lastActive := s.LastActive()
		if now.Sub(lastActive) > maxIdle {
			m.logger.WithFields(logrus.Fields{
				"session_id":  id,
				"last_active": lastActive,
				"turns":       s.Len(),
			}).Info("Removing expired session")
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		activeSessions.Sub(float64(removed))
		m.logger.WithFields(logrus.Fields{
			"removed":   removed,
			"remaining": len(m.sessions),
		}).Info("Cleaned up expired sessions")
	}
	return removed
}

// RunCleanup sweeps expired sessions every interval until ctx is done.
func (m *Manager) RunCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupExpired(maxIdle)
		case <-ctx.Done():
			return
		}
	}
}
