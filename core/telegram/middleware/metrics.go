package middleware

import (
	"context"
	"sync/atomic"

	tghelpers "github.com/m3rciful/cityexplorer/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

const countersKey = "metrics"

type countersCtxKey struct{}

// Counters tracks what was delivered while handling one update.
type Counters struct {
	messages atomic.Int32
	kb       atomic.Bool
}

// Add records one delivered message.
func (m *Counters) Add(hasKeyboard bool) {
	if m == nil {
		return
	}
	m.messages.Add(1)
	if hasKeyboard {
		m.kb.Store(true)
	}
}

// Snapshot returns the message count and whether any carried a keyboard.
func (m *Counters) Snapshot() (int, bool) {
	if m == nil {
		return 0, false
	}
	return int(m.messages.Load()), m.kb.Load()
}

// CountersFrom returns the counters attached to ctx, or nil.
func CountersFrom(ctx context.Context) *Counters {
	if ctx == nil {
		return nil
	}
	m, _ := ctx.Value(countersCtxKey{}).(*Counters)
	return m
}

// CountSent records a delivered message against the update in ctx, if any.
func CountSent(ctx context.Context, hasKeyboard bool) {
	CountersFrom(ctx).Add(hasKeyboard)
}

// MessageMetricsMiddleware attaches fresh Counters to both the telebot
// context and the stored request context.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		m := &Counters{}
		c.Set(countersKey, m)
		ctx := tghelpers.BuildContext(c)
		tghelpers.StoreContext(c, context.WithValue(ctx, countersCtxKey{}, m))
		return next(c)
	}
}

// GetCounters reads message count and keyboard presence flags from context.
func GetCounters(c tele.Context) (int, bool) {
	m, _ := c.Get(countersKey).(*Counters)
	return m.Snapshot()
}
