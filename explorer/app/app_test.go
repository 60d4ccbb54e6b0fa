package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
	_ "modernc.org/sqlite"

	"github.com/m3rciful/cityexplorer/core/bootstrap"
	coreconfig "github.com/m3rciful/cityexplorer/core/config"
	tg "github.com/m3rciful/cityexplorer/core/telegram"
	"github.com/m3rciful/cityexplorer/core/telegram/sender"
	"github.com/m3rciful/cityexplorer/explorer/category"
	"github.com/m3rciful/cityexplorer/explorer/transport"
)

type outbound struct {
	op     string
	chatID int64
	msgID  int
	text   string
}

type fakeAPI struct {
	mu   sync.Mutex
	out  []outbound
	acks []string
}

func (f *fakeAPI) SendHTML(chatID int64, text string, _ *tele.ReplyMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, outbound{op: "send", chatID: chatID, text: text})
	return nil
}

func (f *fakeAPI) EditHTML(chatID int64, messageID int, text string, _ *tele.ReplyMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, outbound{op: "edit", chatID: chatID, msgID: messageID, text: text})
	return nil
}

func (f *fakeAPI) AnswerCallback(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acks = append(f.acks, id)
	return nil
}

func (f *fakeAPI) Typing(int64) error { return nil }

func (f *fakeAPI) last() outbound {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out[len(f.out)-1]
}

type fixedGenerator struct {
	answer string
	err    error
}

func (g fixedGenerator) Generate(context.Context, string) (string, error) {
	return g.answer, g.err
}

func testConfig() *coreconfig.Config {
	return &coreconfig.Config{
		Generation: coreconfig.GenerationConfig{APIKey: "test-key", BaseURL: coreconfig.DefaultBaseURL, Model: coreconfig.DefaultModel},
		Stats:      coreconfig.StatsConfig{ActiveWindowHours: 24},
	}
}

type harness struct {
	app    *App
	api    *fakeAPI
	bot    *tele.Bot
	reg    *tg.Registry
	routes map[any]tele.HandlerFunc
}

func newHarness(t *testing.T, gen fixedGenerator) *harness {
	t.Helper()
	return newHarnessWith(t, gen, nil)
}

func newHarnessWith(t *testing.T, gen fixedGenerator, infra *bootstrap.Result) *harness {
	t.Helper()
	api := &fakeAPI{}
	a, err := New(testConfig(), infra,
		WithGenerator(gen),
		WithAPI(func(*tele.Bot) transport.API { return api }),
	)
	require.NoError(t, err)

	bot, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)
	disp := sender.NewDispatcher(sender.Options{Workers: 1})
	t.Cleanup(disp.Close)

	reg := tg.NewRegistry()
	routes, err := a.Routes(tg.Runtime{Bot: bot, Dispatcher: disp, Registry: reg})
	require.NoError(t, err)

	byEndpoint := make(map[any]tele.HandlerFunc, len(routes))
	for _, r := range routes {
		byEndpoint[r.Endpoint] = r.Handler
	}
	return &harness{app: a, api: api, bot: bot, reg: reg, routes: byEndpoint}
}

func (h *harness) text(t *testing.T, endpoint any, text string) {
	t.Helper()
	handler, ok := h.routes[endpoint]
	require.True(t, ok, "no route for %v", endpoint)
	c := h.bot.NewContext(tele.Update{Message: &tele.Message{Text: text, Chat: &tele.Chat{ID: 42}}})
	require.NoError(t, handler(c))
}

func (h *harness) click(t *testing.T, data string, messageID int) {
	t.Helper()
	c := h.bot.NewContext(tele.Update{Callback: &tele.Callback{
		ID:      "cb-" + data,
		Data:    data,
		Message: &tele.Message{ID: messageID, Chat: &tele.Chat{ID: 42}},
	}})
	require.NoError(t, h.routes[tele.OnCallback](c))
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)

	cfg := testConfig()
	cfg.Generation.APIKey = ""
	_, err = New(cfg, nil)
	require.Error(t, err)

	cfg = testConfig()
	cfg.Stats.Schedule = "not a schedule"
	_, err = New(cfg, nil, WithGenerator(fixedGenerator{}))
	require.Error(t, err)
}

func TestRoutesRegisterEverything(t *testing.T) {
	h := newHarness(t, fixedGenerator{answer: "ok"})

	for _, name := range []string{"/start", "/menu", "/help", "/settings", "/location", "/stats"} {
		_, ok := h.routes[name]
		assert.True(t, ok, name)
	}
	for _, ep := range []any{tele.OnText, tele.OnCallback, tele.OnEdited, tele.OnMedia, tele.OnLocation} {
		_, ok := h.routes[ep]
		assert.True(t, ok, ep)
	}
	assert.Contains(t, h.reg.ListCallbacks(), "cat_food")
	assert.Contains(t, h.reg.ListCallbacks(), "main_menu")
	assert.Len(t, h.reg.ListCommands(true), 6)
}

func TestConversationFlow(t *testing.T) {
	h := newHarness(t, fixedGenerator{answer: "## Food & Dining\n**Top spots**\n* Juhu Beach stalls"})

	h.text(t, "/start", "/start")
	assert.Contains(t, h.api.last().text, "Welcome to Smart City Explorer")

	h.click(t, "cat_food", 5)
	assert.Equal(t, "send", h.api.last().op)
	assert.Contains(t, h.api.last().text, "Food &amp; Dining")
	sess, ok := h.app.Store().Get(42)
	require.True(t, ok)
	assert.Equal(t, category.Food, sess.Category)

	h.text(t, tele.OnText, "Where is the best street food in bombay?")
	got := h.api.last().text
	assert.Contains(t, got, "• Juhu Beach stalls")
	assert.NotContains(t, got, "**")
	sess, _ = h.app.Store().Get(42)
	assert.Equal(t, "mumbai", sess.Location)
	assert.Len(t, sess.History, 1)

	h.click(t, "main_menu", 9)
	last := h.api.last()
	assert.Equal(t, "edit", last.op)
	assert.Equal(t, 9, last.msgID)
	sess, _ = h.app.Store().Get(42)
	assert.Equal(t, category.None, sess.Category)
}

func TestGenerationFailureKeepsCategory(t *testing.T) {
	h := newHarness(t, fixedGenerator{err: errors.New("quota exceeded")})

	h.click(t, "cat_food", 5)
	h.text(t, tele.OnText, "Which restaurant serves good dosa?")
	assert.Contains(t, h.api.last().text, "AI Service Temporarily Unavailable")

	sess, _ := h.app.Store().Get(42)
	assert.Equal(t, category.Food, sess.Category)
	assert.Empty(t, sess.History)
}

func TestUnknownInputs(t *testing.T) {
	h := newHarness(t, fixedGenerator{answer: "ok"})

	h.text(t, tele.OnText, "/teleport")
	assert.True(t, strings.Contains(h.api.last().text, "teleport"))

	h.click(t, "warp_drive", 3)
	assert.Equal(t, "send", h.api.last().op)
}

func TestNonTextMessagesGetHint(t *testing.T) {
	h := newHarness(t, fixedGenerator{answer: "ok"})

	chat := &tele.Chat{ID: 42}
	for _, tc := range []struct {
		endpoint any
		msg      *tele.Message
	}{
		{tele.OnMedia, &tele.Message{Chat: chat, Photo: &tele.Photo{}}},
		{tele.OnMedia, &tele.Message{Chat: chat, Sticker: &tele.Sticker{}}},
		{tele.OnLocation, &tele.Message{Chat: chat, Location: &tele.Location{}}},
	} {
		handler, ok := h.routes[tc.endpoint]
		require.True(t, ok)
		require.NoError(t, handler(h.bot.NewContext(tele.Update{Message: tc.msg})))
		last := h.api.last()
		assert.Equal(t, "send", last.op)
		assert.Equal(t, int64(42), last.chatID)
		assert.Contains(t, last.text, "I work with text messages")
	}
	assert.Len(t, h.api.out, 3)
}

const journalSchema = `
CREATE TABLE activity_journal (
	id              TEXT PRIMARY KEY,
	conversation_id INTEGER   NOT NULL,
	category        TEXT      NOT NULL,
	query           TEXT      NOT NULL,
	response_len    INTEGER   NOT NULL DEFAULT 0,
	location        TEXT      NOT NULL DEFAULT '',
	created_at      TIMESTAMP NOT NULL
)`

func TestStatsShowsJournaledQuestions(t *testing.T) {
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(journalSchema)
	require.NoError(t, err)

	h := newHarnessWith(t, fixedGenerator{answer: "Try the lake garden."}, &bootstrap.Result{DB: db})
	h.click(t, "cat_parks", 5)
	h.text(t, tele.OnText, "Which park is best for a morning walk?")
	h.app.recorder.Wait()

	h.text(t, "/stats", "/stats")
	got := h.api.last().text
	assert.Contains(t, got, "Saved questions")
	assert.Contains(t, got, "• Which park is best for a morning walk")
}

func TestGenerationHTTPClient(t *testing.T) {
	c := generationHTTPClient()
	assert.Zero(t, c.Timeout)
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, tr.Proxy)
	assert.NotNil(t, tr.DialContext)
	assert.Equal(t, 4, tr.MaxIdleConnsPerHost)
}

func TestRunOptionsLifecycle(t *testing.T) {
	a, err := New(testConfig(), nil, WithGenerator(fixedGenerator{}))
	require.NoError(t, err)

	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)
	assert.Len(t, opts.Middlewares, 3)
	assert.Equal(t, allowedUpdates, opts.AllowedUpdates)

	require.NoError(t, opts.OnStart(context.Background(), tg.Runtime{}))
	require.NoError(t, opts.OnStop(context.Background(), tg.Runtime{}))
	assert.NoError(t, a.Close())
}
