// Package helpers bridges telebot contexts to context.Context.
package helpers

import (
	"context"

	"github.com/m3rciful/cityexplorer/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Keys under which values are stored on a tele.Context.
const (
	KeyContext = "logger_ctx"
	KeyRID     = "rid"
)

// StoreContext attaches ctx to c for downstream handlers.
func StoreContext(c tele.Context, ctx context.Context) {
	if c == nil || ctx == nil {
		return
	}
	c.Set(KeyContext, ctx)
}

// ContextFrom returns the context stored on c, if any.
func ContextFrom(c tele.Context) (context.Context, bool) {
	if c == nil {
		return nil, false
	}
	ctx, ok := c.Get(KeyContext).(context.Context)
	return ctx, ok && ctx != nil
}

// ChatID returns the chat the update belongs to, or 0. Callback queries
// fall back to the chat of the message carrying the keyboard.
func ChatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if cb := c.Callback(); cb != nil && cb.Message != nil && cb.Message.Chat != nil {
		return cb.Message.Chat.ID
	}
	return 0
}

// UserID returns the sender's id, or 0.
func UserID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

// NewContext derives a fresh request context from the update: rid plus
// update, user and chat ids, with the "tg" component logger. The result is
// stored on c.
func NewContext(c tele.Context) context.Context {
	updateID, chatID, userID := c.Update().ID, ChatID(c), UserID(c)
	rid, _ := c.Get(KeyRID).(string)
	if rid == "" {
		rid = logger.BuildRID(updateID, chatID, userID)
		c.Set(KeyRID, rid)
	}

	ctx := logger.WithRID(context.Background(), rid)
	ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component("tg"))
	StoreContext(c, ctx)
	return ctx
}

// BuildContext returns the stored request context, creating it on first use.
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := ContextFrom(c); ok {
		return ctx
	}
	return NewContext(c)
}

// WithHandler tags the request context with the handler name.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler == "" || logger.HandlerFrom(ctx) == handler {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	StoreContext(c, ctx)
	return ctx
}
