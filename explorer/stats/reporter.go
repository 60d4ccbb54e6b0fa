// Package stats periodically logs a summary of live sessions and, when the
// activity journal is enabled, of journaled category usage.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"

	"github.com/m3rciful/cityexplorer/core/logger"
	"github.com/m3rciful/cityexplorer/explorer/category"
	"github.com/m3rciful/cityexplorer/explorer/journal"
	"github.com/m3rciful/cityexplorer/explorer/session"
)

// Source exposes aggregate session statistics.
type Source interface {
	Stats(window time.Duration) session.Stats
}

// UsageSource reports persisted category usage since a point in time.
type UsageSource interface {
	CategoryUsage(ctx context.Context, since time.Time) ([]journal.CategoryCount, error)
}

// Snapshot is one report.
type Snapshot struct {
	Sessions session.Stats
	Top      category.ID
	// Journal is nil when no UsageSource is configured or the query failed.
	Journal []journal.CategoryCount
}

// Reporter runs Report on a cron schedule.
type Reporter struct {
	src    Source
	usage  UsageSource
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	cron *rcron.Cron
}

// Option customizes a Reporter.
type Option func(*Reporter)

// WithUsage adds journal category usage over the same window to each report.
func WithUsage(u UsageSource) Option {
	return func(r *Reporter) { r.usage = u }
}

// New validates schedule and builds a reporter. An empty schedule yields a
// reporter whose Start does nothing; Report still works on demand.
func New(src Source, schedule string, window time.Duration, opts ...Option) (*Reporter, error) {
	if src == nil {
		return nil, fmt.Errorf("stats: nil source")
	}
	if window <= 0 {
		return nil, fmt.Errorf("stats: window must be positive")
	}
	r := &Reporter{src: src, window: window, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	if schedule == "" {
		return r, nil
	}
	c := rcron.New()
	if _, err := c.AddFunc(schedule, func() { r.Report(context.Background()) }); err != nil {
		return nil, fmt.Errorf("stats: invalid schedule %q: %w", schedule, err)
	}
	r.cron = c
	return r, nil
}

// Start begins the schedule.
func (r *Reporter) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron == nil {
		return
	}
	r.cron.Start()
	logger.Info(context.Background(), "stats", "reporter.start",
		slog.Int("entries", len(r.cron.Entries())))
}

// Stop halts the schedule and waits for a running report or ctx.
func (r *Reporter) Stop(ctx context.Context) error {
	r.mu.Lock()
	c := r.cron
	r.mu.Unlock()
	if c == nil {
		return nil
	}
	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Report gathers and logs one snapshot.
func (r *Reporter) Report(ctx context.Context) Snapshot {
	start := time.Now()
	snap := Snapshot{Sessions: r.src.Stats(r.window)}
	snap.Top, _ = snap.Sessions.TopCategory()

	attrs := []slog.Attr{
		slog.Int("sessions_total", snap.Sessions.Total),
		slog.Int("sessions_active", snap.Sessions.Active),
		slog.String("top_category", snap.Top.String()),
		slog.String("usage", formatUsage(snap.Sessions.CategoryUsage)),
	}

	if r.usage != nil {
		rows, err := r.usage.CategoryUsage(ctx, r.now().Add(-r.window))
		if err != nil {
			logger.Warn(ctx, "stats", "journal.fail", logger.ErrAttr(err))
		} else {
			snap.Journal = rows
			attrs = append(attrs, slog.String("journal_usage", formatJournal(rows)))
		}
	}

	attrs = append(attrs, slog.Duration("took", logger.RoundMS(logger.Took(start))))
	logger.Info(ctx, "stats", "report", attrs...)
	return snap
}

func formatUsage(usage map[category.ID]int) string {
	var parts []string
	for _, id := range category.All() {
		if n := usage[id]; n > 0 {
			parts = append(parts, id.String()+"="+strconv.Itoa(n))
		}
	}
	s, _ := logger.SummarizeStrings(parts, len(parts))
	return s
}

func formatJournal(rows []journal.CategoryCount) string {
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, row.Category+"="+strconv.Itoa(row.Uses))
	}
	s, _ := logger.SummarizeStrings(parts, len(parts))
	return s
}
