// Package journal appends answered questions to a SQL table for usage
// analytics. Sessions themselves are never persisted.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/cityexplorer/core/logger"
	"github.com/m3rciful/cityexplorer/explorer/dialog"
)

// Entry is one journal row.
type Entry struct {
	ID             string    `db:"id"`
	ConversationID int64     `db:"conversation_id"`
	Category       string    `db:"category"`
	Query          string    `db:"query"`
	ResponseLen    int       `db:"response_len"`
	Location       string    `db:"location"`
	CreatedAt      time.Time `db:"created_at"`
}

// CategoryCount is one row of CategoryUsage.
type CategoryCount struct {
	Category string `db:"category"`
	Uses     int    `db:"uses"`
}

// maxQueryLen bounds stored query text, in runes.
const maxQueryLen = 500

// Journal reads and writes the activity_journal table.
type Journal struct {
	db  *sqlx.DB
	now func() time.Time
}

// New wraps an open database handle.
func New(db *sqlx.DB) *Journal {
	return &Journal{db: db, now: time.Now}
}

// Append stores e, filling ID and CreatedAt when empty.
func (j *Journal) Append(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = j.now()
	}
	e.CreatedAt = e.CreatedAt.UTC()
	if r := []rune(e.Query); len(r) > maxQueryLen {
		e.Query = string(r[:maxQueryLen])
	}
	_, err := j.db.NamedExecContext(ctx, `
		INSERT INTO activity_journal (id, conversation_id, category, query, response_len, location, created_at)
		VALUES (:id, :conversation_id, :category, :query, :response_len, :location, :created_at)`, e)
	if err != nil {
		return fmt.Errorf("journal: append: %w", err)
	}
	return nil
}

// Recent returns up to limit entries for a conversation, newest first.
func (j *Journal) Recent(ctx context.Context, conversationID int64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []Entry
	q := j.db.Rebind(`
		SELECT id, conversation_id, category, query, response_len, location, created_at
		FROM activity_journal
		WHERE conversation_id = ?
		ORDER BY created_at DESC
		LIMIT ?`)
	if err := j.db.SelectContext(ctx, &out, q, conversationID, limit); err != nil {
		return nil, fmt.Errorf("journal: recent: %w", err)
	}
	return out, nil
}

var _ dialog.QuestionLog = (*Journal)(nil)

// RecentQuestions returns the query text of the newest entries for a
// conversation.
func (j *Journal) RecentQuestions(ctx context.Context, conversationID int64, limit int) ([]string, error) {
	entries, err := j.Recent(ctx, conversationID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Query)
	}
	return out, nil
}

// CategoryUsage counts entries per category since the given time, most
// used first.
func (j *Journal) CategoryUsage(ctx context.Context, since time.Time) ([]CategoryCount, error) {
	var out []CategoryCount
	q := j.db.Rebind(`
		SELECT category, COUNT(*) AS uses
		FROM activity_journal
		WHERE created_at >= ?
		GROUP BY category
		ORDER BY uses DESC, category`)
	if err := j.db.SelectContext(ctx, &out, q, since.UTC()); err != nil {
		return nil, fmt.Errorf("journal: category usage: %w", err)
	}
	return out, nil
}

// DefaultWriteTimeout bounds one background append.
const DefaultWriteTimeout = 3 * time.Second

// Recorder is a dialog.Observer that journals answered questions in the
// background so replies are not held up by the database.
type Recorder struct {
	j       *Journal
	timeout time.Duration
	wg      sync.WaitGroup
}

// Recorder returns an observer writing to j.
func (j *Journal) Recorder() *Recorder {
	return &Recorder{j: j, timeout: DefaultWriteTimeout}
}

var _ dialog.Observer = (*Recorder)(nil)

// Observe journals EventAnswered and ignores everything else.
func (r *Recorder) Observe(ctx context.Context, ev dialog.Event) {
	if ev.Kind != dialog.EventAnswered {
		return
	}
	e := Entry{
		ConversationID: ev.ConversationID,
		Category:       ev.Category.String(),
		Query:          strings.TrimSpace(ev.Query),
		ResponseLen:    ev.ResponseLength,
		Location:       ev.Location,
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		if err := r.j.Append(wctx, e); err != nil {
			logger.Warn(wctx, "journal", "append.fail",
				slog.Int64("chat_id", e.ConversationID),
				slog.String("category", e.Category),
				logger.ErrAttr(err),
			)
		}
	}()
}

// Wait blocks until pending writes finish.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
