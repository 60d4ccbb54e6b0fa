package dialog

import (
	"context"
	"log/slog"

	"github.com/m3rciful/cityexplorer/core/logger"
	"github.com/m3rciful/cityexplorer/explorer/category"
)

// EventKind names a point in the machine where observers are notified.
type EventKind uint8

const (
	// EventTransition fires when the active category changes.
	EventTransition EventKind = iota + 1
	EventAnswered
	EventMismatch
	EventRejected
	EventGenerationFailed
	EventDropped
	EventDeliveryFailed
	EventPanic
)

var eventNames = [...]string{
	EventTransition:       "state.transition",
	EventAnswered:         "query.answered",
	EventMismatch:         "query.mismatch",
	EventRejected:         "query.rejected",
	EventGenerationFailed: "generate.fail",
	EventDropped:          "update.dropped",
	EventDeliveryFailed:   "deliver.fail",
	EventPanic:            "panic",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) && eventNames[k] != "" {
		return eventNames[k]
	}
	return "unknown"
}

// Event describes something the machine did. Fields not relevant to Kind
// are zero.
type Event struct {
	Kind           EventKind
	ConversationID int64
	// Update is the inbound variant name: command, text, click or attachment.
	Update string
	// Trigger is the command name or action that caused a transition.
	Trigger  string
	From, To category.ID
	Category category.ID
	Query    string
	Location string
	// ResponseLength counts characters of the generated answer.
	ResponseLength int
	// Op is the outbound operation for delivery failures.
	Op     string
	Reason string
	Err    error
}

// Observer receives machine events. Implementations must not block for long
// and must be safe for concurrent use.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, ev Event) { f(ctx, ev) }

// MultiObserver fans events out in order.
type MultiObserver []Observer

// Observe forwards ev to every non-nil observer.
func (m MultiObserver) Observe(ctx context.Context, ev Event) {
	for _, o := range m {
		if o != nil {
			o.Observe(ctx, ev)
		}
	}
}

const queryLogLimit = 120

// LogObserver writes every event as a structured log line.
type LogObserver struct{}

// Observe logs ev under the dialog component.
func (LogObserver) Observe(ctx context.Context, ev Event) {
	level := slog.LevelInfo
	attrs := []slog.Attr{
		slog.Int64("chat_id", ev.ConversationID),
	}
	if ev.Update != "" {
		attrs = append(attrs, slog.String("update", ev.Update))
	}
	switch ev.Kind {
	case EventTransition:
		attrs = append(attrs,
			slog.String("from", ev.From.String()),
			slog.String("to", ev.To.String()),
			slog.String("action", ev.Trigger),
		)
	case EventAnswered:
		attrs = append(attrs,
			slog.String("category", ev.Category.String()),
			slog.Int("query_len", len([]rune(ev.Query))),
			slog.Int("response_len", ev.ResponseLength),
			slog.String("location", ev.Location),
		)
		if logger.ShouldSampleDebug() {
			logger.LogEvent(ctx, logger.Component("dialog"), slog.LevelDebug, "query.text",
				slog.Int64("chat_id", ev.ConversationID),
				slog.String("query", logger.SanitizeLimit(ev.Query, queryLogLimit)),
			)
		}
	case EventMismatch, EventRejected:
		attrs = append(attrs,
			slog.String("category", ev.Category.String()),
			slog.Int("query_len", len([]rune(ev.Query))),
			slog.String("reason", ev.Reason),
		)
	case EventGenerationFailed:
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("category", ev.Category.String()),
			logger.ErrAttr(ev.Err),
		)
	case EventDropped:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("reason", ev.Reason))
	case EventDeliveryFailed:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("action", ev.Op), logger.ErrAttr(ev.Err))
	case EventPanic:
		level = slog.LevelError
		attrs = append(attrs, slog.String("reason", logger.SanitizeLimit(ev.Reason, 512)))
	}
	logger.LogEvent(ctx, logger.Component("dialog"), level, ev.Kind.String(), attrs...)
}
