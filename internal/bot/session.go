package bot

import (
	"sync"
	"time"

	"tireshop/internal/domain"
)

// Conversation steps, in the fixed order the add-product flow walks them.
const (
	StepName        = "waiting_name"
	StepPrice       = "waiting_price"
	StepImage       = "waiting_image"
	StepDescription = "waiting_description"
	StepSpecs       = "waiting_specs"
	StepConfirm     = "confirming"
)

// Session is one user's in-progress add-product conversation. A session
// exists iff the user is somewhere between /add and confirm/cancel.
type Session struct {
	UserID    int64
	Step      string
	Draft     domain.ProductDraft
	UpdatedAt time.Time
}

// SessionStore maps user ids to their conversation state. Sessions for
// different users are independent. Get hands out a private copy; Put is
// the only writer, so step handlers never share mutable state.
type SessionStore interface {
	Get(userID int64) (*Session, bool)
	Put(s *Session)
	Delete(userID int64)
	// PurgeIdle drops sessions untouched for longer than ttl and
	// reports how many were removed. ttl <= 0 purges nothing.
	PurgeIdle(ttl time.Duration) int
}

type MemorySessionStore struct {
	mu sync.RWMutex
	m  map[int64]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{m: make(map[int64]*Session)}
}

func (s *MemorySessionStore) Get(userID int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.m[userID]
	if !ok {
		return nil, false
	}
	cp := *sess
	cp.Draft.Specs = append([]string(nil), sess.Draft.Specs...)
	return &cp, true
}

func (s *MemorySessionStore) Put(sess *Session) {
	cp := *sess
	cp.Draft.Specs = append([]string(nil), sess.Draft.Specs...)
	cp.UpdatedAt = time.Now()
	s.mu.Lock()
	s.m[cp.UserID] = &cp
	s.mu.Unlock()
}

func (s *MemorySessionStore) Delete(userID int64) {
	s.mu.Lock()
	delete(s.m, userID)
	s.mu.Unlock()
}

func (s *MemorySessionStore) PurgeIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.m {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.m, id)
			n++
		}
	}
	return n
}

// StartPurgeLoop purges idle sessions on a timer until stop is closed.
// A ttl of zero disables the loop entirely.
func StartPurgeLoop(store SessionStore, ttl time.Duration, stop <-chan struct{}) {
	if ttl <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(ttl)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				store.PurgeIdle(ttl)
			case <-stop:
				return
			}
		}
	}()
}
