package editor

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/coursebuilder/core/course"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager keeps the open builder sessions, one Draft Tree each.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	maxIdle  time.Duration
}

func NewManager(opts Options, maxIdle time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		maxIdle:  maxIdle,
	}
}

// Open starts a session on the course and loads it.
func (m *Manager) Open(ctx context.Context, courseID course.ID) (*Session, error) {
	sess, err := NewSession(courseID, m.opts)
	if err != nil {
		return nil, err
	}
	if err := sess.Load(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.mu.Unlock()
	return sess, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes the sessions idle for longer than maxIdle and returns how many were closed.
// Sessions with a save or an upload pending are kept.
func (m *Manager) Sweep() int {
	if m.maxIdle <= 0 {
		return 0
	}
	deadline := nowFunc().Add(-m.maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	for id, sess := range m.sessions {
		if sess.idleSince(deadline) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
