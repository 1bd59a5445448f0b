// Package session keys the operator's working state (loaded roster, last
// mapped client, last generated file) by a session ID so concurrent
// operators do not clobber each other.
package session

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/joseph-ayodele/w7-autofill/internal/llm"
	"github.com/joseph-ayodele/w7-autofill/internal/roster"
)

// DefaultID is used when a request carries no session identifier, which
// preserves the single-operator behavior of a shared current client.
const DefaultID = "default"

// Session is one operator's mutable working state.
type Session struct {
	id string

	mu         sync.Mutex
	table      *roster.Table
	clientName string
	mapped     llm.MappedData
	outputPath string
}

func (s *Session) ID() string { return s.id }

// SetRoster replaces the loaded table and clears downstream state.
func (s *Session) SetRoster(t *roster.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = t
	s.clientName = ""
	s.mapped = nil
}

func (s *Session) Roster() *roster.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// SetMapped records the mapping result for the most recently processed client.
func (s *Session) SetMapped(clientName string, mapped llm.MappedData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientName = clientName
	s.mapped = mapped
}

func (s *Session) Mapped() (clientName string, mapped llm.MappedData, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientName, s.mapped, s.mapped != nil
}

// SetOutput records the path of the latest generated file, deleting the
// previous one if a generate had already run.
func (s *Session) SetOutput(path string) {
	s.mu.Lock()
	prev := s.outputPath
	s.outputPath = path
	s.mu.Unlock()
	if prev != "" && prev != path {
		_ = os.Remove(prev)
	}
}

func (s *Session) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputPath
}

// Store holds all live sessions.
type Store struct {
	ttl    time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	lastSeen map[string]time.Time
}

func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		ttl:      ttl,
		logger:   logger,
		sessions: make(map[string]*Session),
		lastSeen: make(map[string]time.Time),
	}
}

// Get returns the session for id, creating it on first use.
func (s *Store) Get(id string) *Session {
	if id == "" {
		id = DefaultID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{id: id}
		s.sessions[id] = sess
		s.logger.Info("session.created", "session_id", id)
	}
	s.lastSeen[id] = time.Now()
	return sess
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle longer than the TTL and deletes any generated
// file they still own. Returns the number of evicted sessions.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	var expired []*Session
	for id, seen := range s.lastSeen {
		if now.Sub(seen) > s.ttl {
			expired = append(expired, s.sessions[id])
			delete(s.sessions, id)
			delete(s.lastSeen, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		if out := sess.Output(); out != "" {
			if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
				s.logger.Warn("session.evict.output_remove_error", "session_id", sess.id, "error", err)
			}
		}
		s.logger.Info("session.evicted", "session_id", sess.id)
	}
	return len(expired)
}

// Janitor sweeps on the given interval until ctx is done.
func (s *Store) Janitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.Sweep(now)
		}
	}
}
