// Package session keeps per-conversation state for the lifetime of the process.
package session

import (
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/m3rciful/cityexplorer/explorer/category"
)

// HistoryLimit caps how many activities a session remembers.
const HistoryLimit = 10

// Activity is one answered question.
type Activity struct {
	At             time.Time
	Category       category.ID
	Query          string
	ResponseLength int
}

// Session is a snapshot of one conversation's state. Values returned by a
// Store are copies; mutate through Store.Update.
type Session struct {
	ConversationID int64
	// Category is the active topic; category.None means none chosen yet.
	Category category.ID
	// Location is the last city the user mentioned, if any.
	Location string
	// Preferences is reserved for user settings and passed through untouched.
	Preferences  map[string]string
	LastActivity time.Time
	// History holds at most HistoryLimit entries, oldest first.
	History []Activity
}

func (s Session) clone() Session {
	s.Preferences = maps.Clone(s.Preferences)
	s.History = slices.Clone(s.History)
	return s
}

func (s *Session) record(a Activity) {
	s.History = append(s.History, a)
	if over := len(s.History) - HistoryLimit; over > 0 {
		s.History = slices.Delete(s.History, 0, over)
	}
	s.LastActivity = a.At
}

// PopularCategories returns up to n categories from the history, most used
// first. Ties keep the order in which categories first appeared.
func (s Session) PopularCategories(n int) []category.ID {
	counts := make(map[category.ID]int)
	var order []category.ID
	for _, a := range s.History {
		if !a.Category.Valid() {
			continue
		}
		if counts[a.Category] == 0 {
			order = append(order, a.Category)
		}
		counts[a.Category]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if n >= 0 && len(order) > n {
		order = order[:n]
	}
	return order
}

// Stats summarizes every session in a store.
type Stats struct {
	Total int
	// Active counts sessions whose last activity falls inside the window.
	Active        int
	CategoryUsage map[category.ID]int
}

// TopCategory returns the most used category across all histories.
func (s Stats) TopCategory() (category.ID, bool) {
	best, bestN := category.None, 0
	for _, id := range category.All() {
		if n := s.CategoryUsage[id]; n > bestN {
			best, bestN = id, n
		}
	}
	return best, bestN > 0
}

// Store maps conversation ids to sessions. Implementations must be safe
// for concurrent use across different conversations.
type Store interface {
	// GetOrCreate returns the session for id, creating a default one.
	GetOrCreate(id int64) Session
	// Get returns the session for id without creating it.
	Get(id int64) (Session, bool)
	// Touch is GetOrCreate that also stamps LastActivity.
	Touch(id int64) Session
	// Update applies fn to the stored session, creating it first if needed,
	// and returns the result.
	Update(id int64, fn func(*Session)) Session
	// RecordActivity appends to the bounded history and stamps LastActivity.
	RecordActivity(id int64, cat category.ID, query string, responseLength int)
	// Stats summarizes all sessions, counting as active those seen within window.
	Stats(window time.Duration) Stats
}
