package selection

import (
	"sync"
	"time"

	"github.com/SchoolMenu/nutrition-sona/internal/logger"
	"github.com/SchoolMenu/nutrition-sona/internal/orders"
)

const (
	// DefaultIdleTimeout is how long an untouched store is kept.
	DefaultIdleTimeout = 2 * time.Hour

	pruneEvery = time.Minute
)

type session struct {
	store    *Store
	lastUsed time.Time
}

// Sessions keeps one Store per signed-in guardian, so each account edits a
// single active day at a time. Stores idle for longer than the idle timeout
// are dropped along with their pending picks.
type Sessions struct {
	mu        sync.Mutex
	stores    map[string]*session
	idle      time.Duration
	lastPrune time.Time
	now       func() time.Time

	reader orders.Reader
	saver  Saver
	log    *logger.Logger
}

func NewSessions(reader orders.Reader, saver Saver, log *logger.Logger) *Sessions {
	if log == nil {
		log = logger.Nop()
	}
	return &Sessions{
		stores: make(map[string]*session),
		idle:   DefaultIdleTimeout,
		now:    time.Now,
		reader: reader,
		saver:  saver,
		log:    log,
	}
}

// For returns the guardian's store, creating it on first use.
func (s *Sessions) For(guardianID, schoolCode string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastPrune) >= pruneEvery {
		s.pruneLocked(now)
		s.lastPrune = now
	}

	sess, ok := s.stores[guardianID]
	if !ok || sess.store.schoolCode != schoolCode {
		sess = &session{
			store: NewStore(s.reader, s.saver, schoolCode, s.log.With("guardian_id", guardianID)),
		}
		s.stores[guardianID] = sess
	}
	sess.lastUsed = now
	return sess.store
}

// Len reports how many guardian stores are held.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

// pruneLocked drops idle stores. A store in the middle of a save is kept.
func (s *Sessions) pruneLocked(now time.Time) {
	for guardianID, sess := range s.stores {
		if now.Sub(sess.lastUsed) < s.idle || sess.store.State() == StateSaving {
			continue
		}
		if childID, date, loaded := sess.store.Active(); loaded && sess.store.HasUnsavedChanges(date) {
			s.log.Info("expiring store with unsaved picks",
				"guardian_id", guardianID,
				"child_id", childID,
				"date", date.String(),
			)
		}
		delete(s.stores, guardianID)
	}
}
