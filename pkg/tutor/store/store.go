// Package store keeps active tutoring sessions in memory. Sessions are
// keyed by learner so a reconnecting learner resumes their conversation
// instead of starting over. Expired sessions are dropped lazily on read
// and by a periodic sweep.
package store

import (
	"context"
	"crypto/rand"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/andre-ai/tutor/pkg/tutor/types"
)

const (
	// DefaultTTL is how long an idle session stays resumable.
	DefaultTTL = 2 * time.Hour
	// DefaultMaxTurns caps a session's stored conversation. When the cap
	// is exceeded the system turn is kept and the oldest exchanges are
	// dropped.
	DefaultMaxTurns = 50
	// DefaultSweepInterval is how often the background sweep runs.
	DefaultSweepInterval = time.Hour
)

// Config tunes a Store. Zero values select the defaults above.
type Config struct {
	TTL      time.Duration
	MaxTurns int
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Store is a bounded in-memory session cache. All methods are safe for
// concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*types.Session
	ttl      time.Duration
	maxTurns int
	now      func() time.Time
}

// New creates a store with the given config.
func New(cfg Config) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{
		sessions: make(map[string]*types.Session),
		ttl:      cfg.TTL,
		maxTurns: cfg.MaxTurns,
		now:      cfg.Now,
	}
}

// KeyForProfile derives the store key for a learner. The key depends
// only on the profile, so the same learner always maps to the same
// session slot.
func KeyForProfile(p types.Profile) string {
	return strings.ToLower(strings.TrimSpace(p.Name))
}

// NewSessionID returns a fresh lexicographically sortable session ID.
func NewSessionID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// Get returns the session for key if it exists and has not expired.
// An expired session is removed on the spot and reported as absent.
func (s *Store) Get(key string) (*types.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(sess.LastUpdated) > s.ttl {
		delete(s.sessions, key)
		return nil, false
	}
	return sess, true
}

// Snapshot returns a private copy of the session for key, with its own
// conversation slice. The copy is safe to read while other goroutines
// append to the stored session. Expiry is handled like Get.
func (s *Store) Snapshot(key string) (*types.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(sess.LastUpdated) > s.ttl {
		delete(s.sessions, key)
		return nil, false
	}
	snap := *sess
	snap.Conversation = append([]types.Message(nil), sess.Conversation...)
	return &snap, true
}

// Put stores a session under key, replacing any previous session for
// that learner. LastUpdated is stamped with the current time.
func (s *Store) Put(key string, sess *types.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.LastUpdated = s.now()
	s.sessions[key] = sess
}

// AppendTurns appends messages to the session's conversation and
// refreshes its timestamp. When the conversation exceeds the cap, the
// first message is kept and the oldest of the rest are dropped.
// Appending to an absent key is a no-op returning false.
func (s *Store) AppendTurns(key string, msgs ...types.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		return false
	}
	sess.Conversation = append(sess.Conversation, msgs...)
	if n := len(sess.Conversation); n > s.maxTurns {
		trimmed := make([]types.Message, 0, s.maxTurns)
		trimmed = append(trimmed, sess.Conversation[0])
		trimmed = append(trimmed, sess.Conversation[n-(s.maxTurns-1):]...)
		sess.Conversation = trimmed
	}
	sess.LastUpdated = s.now()
	return true
}

// Delete removes the session for key, if present.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// Len reports the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes every expired session and returns how many were
// dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, sess := range s.sessions {
		if now.Sub(sess.LastUpdated) > s.ttl {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}

// StartSweep runs Sweep at the given interval until ctx is canceled.
// interval <= 0 selects DefaultSweepInterval.
func (s *Store) StartSweep(ctx context.Context, interval time.Duration, log *slog.Logger) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := s.Sweep(); removed > 0 && log != nil {
					log.Info("session sweep", "removed", removed, "remaining", s.Len())
				}
			}
		}
	}()
}
