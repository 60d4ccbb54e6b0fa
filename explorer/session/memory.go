package session

import (
	"sync"
	"time"

	"github.com/m3rciful/cityexplorer/explorer/category"
)

type entry struct {
	mu   sync.Mutex
	sess Session
}

// MemoryStore is the in-process Store. Sessions are never evicted.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[int64]*entry
	now     func() time.Time
}

// Option customizes a MemoryStore.
type Option func(*MemoryStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	m := &MemoryStore{
		entries: make(map[int64]*entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) lookup(id int64) (*entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	return e, ok
}

func (m *MemoryStore) load(id int64) *entry {
	if e, ok := m.lookup(id); ok {
		return e
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		return e
	}
	e := &entry{sess: Session{
		ConversationID: id,
		Preferences:    map[string]string{},
		LastActivity:   m.now(),
	}}
	m.entries[id] = e
	return e
}

// GetOrCreate returns a copy of the session for id, creating it on first use.
func (m *MemoryStore) GetOrCreate(id int64) Session {
	e := m.load(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.clone()
}

// Get returns a copy of the session for id if one exists.
func (m *MemoryStore) Get(id int64) (Session, bool) {
	e, ok := m.lookup(id)
	if !ok {
		return Session{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.clone(), true
}

// Touch stamps LastActivity and returns a copy of the session.
func (m *MemoryStore) Touch(id int64) Session {
	return m.Update(id, func(*Session) {})
}

// Update applies fn under the session's lock and stamps LastActivity.
// ConversationID cannot be changed through fn.
func (m *MemoryStore) Update(id int64, fn func(*Session)) Session {
	e := m.load(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.sess)
	e.sess.ConversationID = id
	e.sess.LastActivity = m.now()
	return e.sess.clone()
}

// RecordActivity appends an activity, keeping only the newest HistoryLimit.
func (m *MemoryStore) RecordActivity(id int64, cat category.ID, query string, responseLength int) {
	e := m.load(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess.record(Activity{
		At:             m.now(),
		Category:       cat,
		Query:          query,
		ResponseLength: responseLength,
	})
}

// Stats walks every session. It holds each session lock only briefly.
func (m *MemoryStore) Stats(window time.Duration) Stats {
	m.mu.RLock()
	all := make([]*entry, 0, len(m.entries))
	for _, e := range m.entries {
		all = append(all, e)
	}
	m.mu.RUnlock()

	now := m.now()
	st := Stats{Total: len(all), CategoryUsage: make(map[category.ID]int)}
	for _, e := range all {
		e.mu.Lock()
		if now.Sub(e.sess.LastActivity) < window {
			st.Active++
		}
		for _, a := range e.sess.History {
			if a.Category.Valid() {
				st.CategoryUsage[a.Category]++
			}
		}
		e.mu.Unlock()
	}
	return st
}
