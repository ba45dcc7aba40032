package server

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Fresh4774/aquin-offline-arcade/internal/config"
	"github.com/Fresh4774/aquin-offline-arcade/internal/protocol"
	"github.com/Fresh4774/aquin-offline-arcade/internal/store"
)

const maxSessions = 100

// Session is one running world with its viewers and controller
type Session struct {
	ID      string
	Created time.Time
	Runner  *Runner
}

// SessionManager handles creation, lookup and reaping of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      config.Config
	recorder *store.Recorder // nil = runs are not recorded
	created  uint32
}

// NewSessionManager creates a SessionManager. Every session gets a copy of
// cfg; successive sessions are seeded cfg.World.Seed, +1, +2...
func NewSessionManager(cfg config.Config, recorder *store.Recorder) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		recorder: recorder,
	}
}

// CreateSession creates and starts a new session. Returns nil if limit reached.
func (sm *SessionManager) CreateSession() *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	id := uuid.NewString()
	seed := sm.cfg.World.Seed + sm.created
	sm.created++
	runner := NewRunner(sm.cfg, seed)
	if sm.recorder != nil {
		runner.Subscribe(sm.recorder.Watch(id, runner.world))
	}
	sess := &Session{
		ID:      id,
		Created: time.Now(),
		Runner:  runner,
	}
	sm.sessions[id] = sess
	go runner.Run()
	log.Printf("session: created %s (seed %d)", id, seed)
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// RemoveSession stops and forgets a session
func (sm *SessionManager) RemoveSession(id string) {
	sm.mu.Lock()
	sess, ok := sm.sessions[id]
	delete(sm.sessions, id)
	sm.mu.Unlock()
	if ok {
		sess.Runner.Stop()
	}
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ListSessions returns info about all active sessions, oldest first
func (sm *SessionManager) ListSessions() []protocol.SessionInfo {
	sm.mu.RLock()
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		sessions = append(sessions, sess)
	}
	sm.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Created.Before(sessions[j].Created)
	})
	list := make([]protocol.SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		info := sess.Runner.Status()
		info.ID = sess.ID
		list = append(list, info)
	}
	return list
}

// Reap removes sessions that have had nobody attached for longer than
// maxIdle and returns how many were removed.
func (sm *SessionManager) Reap(now time.Time, maxIdle time.Duration) int {
	sm.mu.RLock()
	var idle []string
	for id, sess := range sm.sessions {
		if sess.Runner.Idle(now, maxIdle) {
			idle = append(idle, id)
		}
	}
	sm.mu.RUnlock()

	for _, id := range idle {
		sm.RemoveSession(id)
		log.Printf("session: reaped idle %s", id)
	}
	return len(idle)
}

// RunReaper reaps idle sessions every interval until stop is closed
func (sm *SessionManager) RunReaper(interval, maxIdle time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			sm.Reap(now, maxIdle)
		case <-stop:
			return
		}
	}
}

// Close stops every session
func (sm *SessionManager) Close() {
	sm.mu.Lock()
	sessions := sm.sessions
	sm.sessions = make(map[string]*Session)
	sm.mu.Unlock()
	for _, sess := range sessions {
		sess.Runner.Stop()
	}
}
