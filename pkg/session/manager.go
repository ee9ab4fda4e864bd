package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/tinderbolt/internal/logging"
	"github.com/aretw0/tinderbolt/pkg/conversation"
	"github.com/aretw0/tinderbolt/pkg/domain"
	"github.com/aretw0/tinderbolt/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
// It must exceed the slowest exchange with the conversation service.
const DefaultLockTTL = 2 * time.Minute

// entry pairs a session with the mutex that serializes it.
type entry struct {
	mu    sync.Mutex
	state *State
	// last is the snapshot taken when the previous event finished. It is read without mu.
	last atomic.Pointer[domain.Snapshot]
}

func (e *entry) publish() {
	snap := e.state.Snapshot()
	e.last.Store(&snap)
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// Sessions are never evicted within the process lifetime.
type Manager struct {
	mu       sync.Mutex        // Guards the map only, never held during an event
	sessions map[int64]*entry // Keyed by user ID

	completer ports.Completer
	locker    ports.DistributedLocker // Optional distributed locker
	lockTTL   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithCompleter sets the conversation service handed to every new session's adapter.
func WithCompleter(c ports.Completer) Option {
	return func(m *Manager) {
		m.completer = c
	}
}

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new session Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[int64]*entry),
		lockTTL:  DefaultLockTTL,
		logger:   logging.NewNop(), // Default to no-op
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire returns the entry for userID, allocating an Idle session on first access.
func (m *Manager) acquire(userID, chatID int64) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.sessions[userID]
	if !exists {
		e = &entry{state: &State{
			UserID:       userID,
			ChatID:       chatID,
			Dialog:       domain.IdleDialog{},
			Conversation: conversation.New(m.completer),
			UpdatedAt:    m.now(),
		}}
		e.publish()
		m.sessions[userID] = e
		m.logger.Debug("session created", "user_id", userID)
	}
	return e
}

func (m *Manager) lookup(userID int64) (*entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[userID]
	return e, ok
}

// GetOrCreate returns the session of userID, creating it on first access.
// The returned State must only be read or mutated inside WithLock.
func (m *Manager) GetOrCreate(userID, chatID int64) *State {
	return m.acquire(userID, chatID).state
}

// WithLock executes fn while holding the user's session lock.
// The lock covers the whole event, including any blocking call to the conversation service;
// other users are never blocked by it.
func (m *Manager) WithLock(ctx context.Context, userID, chatID int64, fn func(context.Context, *State) error) error {
	e := m.acquire(userID, chatID)
	e.mu.Lock()
	defer e.mu.Unlock()

	// Distributed Locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, fmt.Sprintf("%d", userID), m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"user_id", userID,
					"err", err,
				)
			}
		}()
	}

	if chatID != 0 {
		e.state.ChatID = chatID
	}
	defer func() {
		e.state.UpdatedAt = m.now()
		e.publish()
	}()

	return fn(ctx, e.state)
}

// Get returns the session as it stood after the user's last completed event.
// It never waits for an event in flight.
// Returns domain.ErrSessionNotFound if the user never sent an event.
func (m *Manager) Get(userID int64) (domain.Snapshot, error) {
	e, ok := m.lookup(userID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return *e.last.Load(), nil
}

// List returns the IDs of all known users in ascending order.
func (m *Manager) List() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
