package stats

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/cityexplorer/explorer/category"
	"github.com/m3rciful/cityexplorer/explorer/journal"
	"github.com/m3rciful/cityexplorer/explorer/session"
)

type countingSource struct {
	calls  atomic.Int32
	window time.Duration
	stats  session.Stats
}

func (s *countingSource) Stats(window time.Duration) session.Stats {
	s.calls.Add(1)
	s.window = window
	return s.stats
}

type stubUsage struct {
	since time.Time
	rows  []journal.CategoryCount
	err   error
}

func (u *stubUsage) CategoryUsage(_ context.Context, since time.Time) ([]journal.CategoryCount, error) {
	u.since = since
	return u.rows, u.err
}

func TestNewValidates(t *testing.T) {
	_, err := New(nil, "", time.Hour)
	require.Error(t, err)

	_, err = New(&countingSource{}, "", 0)
	require.Error(t, err)

	_, err = New(&countingSource{}, "every now and then", time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")

	r, err := New(&countingSource{}, "@hourly", time.Hour)
	require.NoError(t, err)
	assert.NotNil(t, r.cron)
}

func TestReportFromMemoryStore(t *testing.T) {
	store := session.NewMemoryStore()
	store.RecordActivity(1, category.Food, "street food", 120)
	store.RecordActivity(1, category.Food, "biryani", 80)
	store.RecordActivity(2, category.Parks, "gardens", 60)

	r, err := New(store, "", 24*time.Hour)
	require.NoError(t, err)

	snap := r.Report(context.Background())
	assert.Equal(t, 2, snap.Sessions.Total)
	assert.Equal(t, 2, snap.Sessions.Active)
	assert.Equal(t, category.Food, snap.Top)
	assert.Nil(t, snap.Journal)
	assert.Equal(t, "food=2, parks=1", formatUsage(snap.Sessions.CategoryUsage))
}

func TestReportIncludesJournalUsage(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	usage := &stubUsage{rows: []journal.CategoryCount{{Category: "events", Uses: 4}}}
	r, err := New(&countingSource{}, "", 6*time.Hour, WithUsage(usage))
	require.NoError(t, err)
	r.now = func() time.Time { return now }

	snap := r.Report(context.Background())
	assert.Equal(t, usage.rows, snap.Journal)
	assert.Equal(t, now.Add(-6*time.Hour), usage.since)
	assert.Equal(t, category.None, snap.Top)
}

func TestReportSurvivesJournalFailure(t *testing.T) {
	src := &countingSource{stats: session.Stats{Total: 3}}
	r, err := New(src, "", time.Hour, WithUsage(&stubUsage{err: errors.New("db down")}))
	require.NoError(t, err)

	snap := r.Report(context.Background())
	assert.Equal(t, 3, snap.Sessions.Total)
	assert.Nil(t, snap.Journal)
	assert.Equal(t, time.Hour, src.window)
}

func TestScheduledReports(t *testing.T) {
	src := &countingSource{}
	r, err := New(src, "@every 1s", time.Hour)
	require.NoError(t, err)

	r.Start()
	assert.Eventually(t, func() bool { return src.calls.Load() > 0 }, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Stop(ctx))
}

func TestDisabledScheduleIsInert(t *testing.T) {
	src := &countingSource{}
	r, err := New(src, "", time.Hour)
	require.NoError(t, err)
	r.Start()
	require.NoError(t, r.Stop(context.Background()))
	assert.Zero(t, src.calls.Load())
}

func TestFormatJournal(t *testing.T) {
	assert.Equal(t, "food=3, parks=1", formatJournal([]journal.CategoryCount{
		{Category: "food", Uses: 3},
		{Category: "parks", Uses: 1},
	}))
	assert.Empty(t, formatJournal(nil))
}
