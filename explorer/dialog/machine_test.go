package dialog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/cityexplorer/explorer/category"
	"github.com/m3rciful/cityexplorer/explorer/reply"
	"github.com/m3rciful/cityexplorer/explorer/session"
)

const chatID int64 = 4242

type stubGenerator struct {
	mu      sync.Mutex
	prompts []string
	answer  string
	err     error
	panics  bool
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	if g.panics {
		panic("boom")
	}
	return g.answer, g.err
}

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type sent struct {
	op        string
	chatID    int64
	messageID int
	text      string
	kb        Keyboard
}

type recordingMessenger struct {
	mu      sync.Mutex
	out     []sent
	acks    []string
	typing  int
	sendErr error
	ackErr  error
}

func (r *recordingMessenger) Send(_ context.Context, id int64, text string, kb Keyboard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = append(r.out, sent{op: "send", chatID: id, text: text, kb: kb})
	return r.sendErr
}

func (r *recordingMessenger) Edit(_ context.Context, id int64, msgID int, text string, kb Keyboard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = append(r.out, sent{op: "edit", chatID: id, messageID: msgID, text: text, kb: kb})
	return r.sendErr
}

func (r *recordingMessenger) Acknowledge(_ context.Context, callbackID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acks = append(r.acks, callbackID)
	return r.ackErr
}

func (r *recordingMessenger) Typing(context.Context, int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.typing++
	return nil
}

type recordingObserver struct {
	mu     sync.Mutex
	events []Event
}

func (o *recordingObserver) Observe(_ context.Context, ev Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, ev)
}

func (o *recordingObserver) kinds() []EventKind {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]EventKind, 0, len(o.events))
	for _, ev := range o.events {
		out = append(out, ev.Kind)
	}
	return out
}

type fixture struct {
	m     *Machine
	store *session.MemoryStore
	gen   *stubGenerator
	msgr  *recordingMessenger
	obs   *recordingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: session.NewMemoryStore(),
		gen:   &stubGenerator{answer: "Try X."},
		msgr:  &recordingMessenger{},
		obs:   &recordingObserver{},
	}
	m, err := New(Options{Store: f.store, Generator: f.gen, Messenger: f.msgr, Observer: f.obs})
	require.NoError(t, err)
	f.m = m
	return f
}

func (f *fixture) setCategory(id category.ID) {
	f.store.Update(chatID, func(s *session.Session) { s.Category = id })
}

func (f *fixture) category(t *testing.T) category.ID {
	t.Helper()
	s, ok := f.store.Get(chatID)
	require.True(t, ok)
	return s.Category
}

func requireSend(t *testing.T, out Outbound) SendMessage {
	t.Helper()
	msg, ok := out.(SendMessage)
	require.Truef(t, ok, "want SendMessage, got %T", out)
	require.Equal(t, chatID, msg.ConversationID)
	return msg
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{Generator: &stubGenerator{}, Messenger: &recordingMessenger{}})
	require.Error(t, err)
	_, err = New(Options{Store: session.NewMemoryStore(), Messenger: &recordingMessenger{}})
	require.Error(t, err)
	_, err = New(Options{Store: session.NewMemoryStore(), Generator: &stubGenerator{}})
	require.Error(t, err)
}

func TestStartOnNewConversation(t *testing.T) {
	f := newFixture(t)
	_, exists := f.store.Get(chatID)
	require.False(t, exists)

	msg := requireSend(t, f.m.Process(context.Background(), Command{ConversationID: chatID, Name: CmdStart}))

	assert.Equal(t, welcomeText, msg.Text)
	assert.Equal(t, MainMenu(), msg.Keyboard)
	assert.Equal(t, category.None, f.category(t))
	require.Len(t, f.msgr.out, 1)
}

func TestStartAndMenuResetCategory(t *testing.T) {
	for _, name := range []string{CmdStart, CmdMenu} {
		f := newFixture(t)
		f.setCategory(category.Hotels)
		f.m.Process(context.Background(), Command{ConversationID: chatID, Name: name})
		assert.Equal(t, category.None, f.category(t), name)
		assert.Contains(t, f.obs.kinds(), EventTransition, name)
	}
}

func TestFreeTextWithoutCategoryNeverGenerates(t *testing.T) {
	f := newFixture(t)
	for _, text := range []string{"best restaurants in delhi", "hello", "metro to the airport?"} {
		msg := requireSend(t, f.m.Process(context.Background(), FreeText{ConversationID: chatID, Text: text}))
		assert.Equal(t, chooseCategoryText, msg.Text)
		assert.Equal(t, MainMenu(), msg.Keyboard)
	}
	assert.Zero(t, f.gen.calls())
	assert.Zero(t, f.msgr.typing)
}

func TestCategoryClickFromAnyState(t *testing.T) {
	food := category.MustLookup(category.Food)
	for _, prior := range []category.ID{category.None, category.Transport, category.Food, category.Weather} {
		f := newFixture(t)
		f.setCategory(prior)

		msg := requireSend(t, f.m.Process(context.Background(), MenuClick{
			ConversationID: chatID, MessageID: 7, CallbackID: "cb", Data: "cat_food",
		}))

		assert.Equal(t, category.Food, f.category(t))
		assert.Contains(t, msg.Text, food.Description)
		assert.Equal(t, BackToMenu(), msg.Keyboard)
	}
}

func TestAnsweredQuestion(t *testing.T) {
	f := newFixture(t)
	f.setCategory(category.Food)

	msg := requireSend(t, f.m.Process(context.Background(), FreeText{ConversationID: chatID, Text: "best resturants in dilli"}))

	require.Equal(t, 1, f.gen.calls())
	prompt := f.gen.prompts[0]
	assert.Contains(t, prompt, "restaurants")
	assert.Contains(t, prompt, "delhi")
	assert.Contains(t, prompt, "food expert")
	assert.True(t, strings.HasSuffix(msg.Text, reply.FollowUpFooter))
	assert.True(t, strings.HasPrefix(msg.Text, "<b>🍽️ Food &amp; Dining</b>"))
	assert.Equal(t, 1, f.msgr.typing)

	s, _ := f.store.Get(chatID)
	assert.Equal(t, category.Food, s.Category)
	assert.Equal(t, "delhi", s.Location)
	require.Len(t, s.History, 1)
	assert.Equal(t, category.Food, s.History[0].Category)
	assert.Equal(t, len("Try X."), s.History[0].ResponseLength)
	assert.Contains(t, f.obs.kinds(), EventAnswered)
}

func TestLocationCarriesIntoLaterPrompts(t *testing.T) {
	f := newFixture(t)
	f.setCategory(category.Transport)
	f.m.Process(context.Background(), FreeText{ConversationID: chatID, Text: "metro in bombay"})
	f.m.Process(context.Background(), FreeText{ConversationID: chatID, Text: "night bus routes"})

	require.Equal(t, 2, f.gen.calls())
	assert.Contains(t, f.gen.prompts[1], "for mumbai")
}

func TestCategoryMismatch(t *testing.T) {
	f := newFixture(t)
	f.setCategory(category.Transport)
	transport := category.MustLookup(category.Transport)

	msg := requireSend(t, f.m.Process(context.Background(), FreeText{ConversationID: chatID, Text: "nice weather today"}))

	assert.Zero(t, f.gen.calls())
	assert.Contains(t, msg.Text, "Category Mismatch")
	assert.Contains(t, msg.Text, "Transportation")
	assert.Contains(t, msg.Text, transport.Scope)
	assert.Contains(t, msg.Text, "nice weather today")
	assert.Contains(t, msg.Text, "🌤️ Weather")
	assert.Equal(t, category.Transport, f.category(t))
	assert.Contains(t, f.obs.kinds(), EventMismatch)
}

func TestMismatchEscapesQuestion(t *testing.T) {
	f := newFixture(t)
	f.setCategory(category.Parks)
	msg := requireSend(t, f.m.Process(context.Background(), FreeText{ConversationID: chatID, Text: "<b>where</b> & when"}))
	assert.Contains(t, msg.Text, "&lt;b&gt;where&lt;/b&gt; &amp; when")
}

func TestEmergencyFromAnyState(t *testing.T) {
	for _, prior := range []category.ID{category.None, category.Food, category.Currency} {
		f := newFixture(t)
		f.setCategory(prior)
		msg := requireSend(t, f.m.Process(context.Background(), MenuClick{ConversationID: chatID, CallbackID: "cb", Data: "util_emergency"}))
		assert.Equal(t, EmergencyText, msg.Text)
		assert.Equal(t, prior, f.category(t))
	}
}

func TestGenerationFailure(t *testing.T) {
	for name, gen := range map[string]*stubGenerator{
		"error": {err: errors.New("quota exceeded")},
		"panic": {panics: true},
		"empty": {answer: "   "},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.gen = gen
			f.m.gen = gen
			f.setCategory(category.Hotels)

			var out Outbound
			require.NotPanics(t, func() {
				out = f.m.Process(context.Background(), FreeText{ConversationID: chatID, Text: "cheap hotel near the station"})
			})
			msg := requireSend(t, out)
			assert.Contains(t, msg.Text, "AI Service Temporarily Unavailable")
			assert.Contains(t, msg.Text, "Accommodation")
			assert.Equal(t, category.Hotels, f.category(t))
			assert.Contains(t, f.obs.kinds(), EventGenerationFailed)

			s, _ := f.store.Get(chatID)
			assert.Empty(t, s.History)
		})
	}
}

func TestInputValidation(t *testing.T) {
	f := newFixture(t)
	f.setCategory(category.Food)
	msg := requireSend(t, f.m.Process(context.Background(), FreeText{ConversationID: chatID, Text: "hi"}))
	assert.Contains(t, msg.Text, "too short")

	msg = requireSend(t, f.m.Process(context.Background(), FreeText{ConversationID: chatID, Text: strings.Repeat("food ", 101)}))
	assert.Contains(t, msg.Text, "quite long")

	msg = requireSend(t, f.m.Process(context.Background(), FreeText{ConversationID: chatID, Text: "food 🍕🍕🍕🍕🍕🍕"}))
	assert.Contains(t, msg.Text, "more words")

	assert.Zero(t, f.gen.calls())
	assert.Equal(t, category.Food, f.category(t))
}

func TestMainMenuClickEditsMessage(t *testing.T) {
	f := newFixture(t)
	f.setCategory(category.Shopping)

	out := f.m.Process(context.Background(), MenuClick{ConversationID: chatID, MessageID: 99, CallbackID: "cb", Data: "main_menu"})
	edit, ok := out.(EditMessage)
	require.True(t, ok)
	assert.Equal(t, 99, edit.MessageID)
	assert.Equal(t, mainMenuText, edit.Text)
	assert.Equal(t, MainMenu(), edit.Keyboard)
	assert.Equal(t, category.None, f.category(t))
	require.Len(t, f.msgr.out, 1)
	assert.Equal(t, "edit", f.msgr.out[0].op)
}

func TestUtilityClicks(t *testing.T) {
	cases := []struct {
		data string
		want category.ID
	}{
		{"util_weather", category.Weather},
		{"util_currency", category.Currency},
		{"util_translate", category.Translate},
	}
	for _, tc := range cases {
		f := newFixture(t)
		f.setCategory(category.Food)
		requireSend(t, f.m.Process(context.Background(), MenuClick{ConversationID: chatID, CallbackID: "cb", Data: tc.data}))
		assert.Equal(t, tc.want, f.category(t), tc.data)
	}

	f := newFixture(t)
	f.setCategory(category.Food)
	msg := requireSend(t, f.m.Process(context.Background(), MenuClick{ConversationID: chatID, CallbackID: "cb", Data: "util_location"}))
	assert.Equal(t, locationText, msg.Text)
	assert.Equal(t, category.Food, f.category(t))
}

func TestWeatherQuestionIsAnswered(t *testing.T) {
	f := newFixture(t)
	f.m.Process(context.Background(), MenuClick{ConversationID: chatID, CallbackID: "cb", Data: "util_weather"})
	msg := requireSend(t, f.m.Process(context.Background(), FreeText{ConversationID: chatID, Text: "weather in mumbai"}))
	require.Equal(t, 1, f.gen.calls())
	assert.True(t, strings.HasPrefix(msg.Text, "<b>🌤️ Weather</b>"))
}

func TestMenuAndHelpClicks(t *testing.T) {
	f := newFixture(t)
	f.setCategory(category.Events)

	msg := requireSend(t, f.m.Process(context.Background(), MenuClick{ConversationID: chatID, CallbackID: "cb", Data: "utilities"}))
	assert.Equal(t, utilitiesText, msg.Text)
	assert.Equal(t, UtilitiesMenu(), msg.Keyboard)

	msg = requireSend(t, f.m.Process(context.Background(), MenuClick{ConversationID: chatID, CallbackID: "cb", Data: "help"}))
	assert.Contains(t, msg.Text, "Current Mode: Events &amp; Entertainment")
	assert.Contains(t, msg.Text, category.MustLookup(category.Events).Scope)

	msg = requireSend(t, f.m.Process(context.Background(), MenuClick{ConversationID: chatID, CallbackID: "cb", Data: "settings"}))
	assert.Equal(t, settingsText, msg.Text)
	assert.Equal(t, category.Events, f.category(t))
}

func TestUnknownActionAndCommand(t *testing.T) {
	f := newFixture(t)
	f.setCategory(category.Parks)

	for _, data := range []string{"cat_unknown", "util_teleport", "bogus", ""} {
		msg := requireSend(t, f.m.Process(context.Background(), MenuClick{ConversationID: chatID, CallbackID: "cb", Data: data}))
		assert.Equal(t, unknownActionText, msg.Text, data)
		assert.Equal(t, MainMenu(), msg.Keyboard)
	}

	msg := requireSend(t, f.m.Process(context.Background(), FromText(chatID, "/teleport now")))
	assert.Contains(t, msg.Text, "Unknown command: /teleport")
	assert.Equal(t, MainMenu(), msg.Keyboard)
	assert.Equal(t, category.Parks, f.category(t))
}

func TestCommandPlaceholdersAndHelp(t *testing.T) {
	f := newFixture(t)

	msg := requireSend(t, f.m.Process(context.Background(), FromText(chatID, "/settings")))
	assert.Equal(t, settingsText, msg.Text)
	msg = requireSend(t, f.m.Process(context.Background(), FromText(chatID, "/LOCATION@CityExplorerBot")))
	assert.Equal(t, locationText, msg.Text)

	msg = requireSend(t, f.m.Process(context.Background(), FromText(chatID, "/help")))
	assert.NotContains(t, msg.Text, "Current Mode")

	f.setCategory(category.Historical)
	msg = requireSend(t, f.m.Process(context.Background(), FromText(chatID, "/help")))
	assert.Contains(t, msg.Text, "Current Mode: Historical Places")
	assert.Equal(t, category.Historical, f.category(t))
}

func TestStatsCommand(t *testing.T) {
	f := newFixture(t)
	f.setCategory(category.Food)
	f.m.Process(context.Background(), FreeText{ConversationID: chatID, Text: "street food in pune"})
	f.store.Touch(chatID + 1)

	msg := requireSend(t, f.m.Process(context.Background(), FromText(chatID, "/stats")))
	assert.Contains(t, msg.Text, "Recent questions answered: 1")
	assert.Contains(t, msg.Text, "Food &amp; Dining")
	assert.Contains(t, msg.Text, "Last city: Pune")
	assert.Contains(t, msg.Text, "Explorers: 2")
	assert.Contains(t, msg.Text, "Active in the last 24 hours: 2")
}

type fakeQuestionLog struct {
	questions []string
	err       error
	limit     int
}

func (l *fakeQuestionLog) RecentQuestions(_ context.Context, _ int64, limit int) ([]string, error) {
	l.limit = limit
	return l.questions, l.err
}

func TestStatsListsSavedQuestions(t *testing.T) {
	log := &fakeQuestionLog{questions: []string{"metro <pass>", "street food"}}
	m, err := New(Options{
		Store:     session.NewMemoryStore(),
		Generator: &stubGenerator{},
		Messenger: &recordingMessenger{},
		Questions: log,
	})
	require.NoError(t, err)

	msg := requireSend(t, m.Process(context.Background(), Command{ConversationID: chatID, Name: CmdStats}))
	assert.Equal(t, statsSavedQuestions, log.limit)
	assert.Contains(t, msg.Text, "Saved questions")
	assert.Contains(t, msg.Text, "• metro &lt;pass&gt;\n• street food")

	log.err = errors.New("database is closed")
	msg = requireSend(t, m.Process(context.Background(), Command{ConversationID: chatID, Name: CmdStats}))
	assert.Contains(t, msg.Text, "Your Explorer Stats")
	assert.NotContains(t, msg.Text, "Saved questions")
}

func TestCallbacksAreAcknowledged(t *testing.T) {
	f := newFixture(t)
	f.msgr.ackErr = errors.New("query is too old")

	out := f.m.Process(context.Background(), MenuClick{ConversationID: chatID, CallbackID: "cb-1", Data: "noop"})
	assert.Equal(t, NoOp{Reason: "cosmetic"}, out)
	f.m.Process(context.Background(), MenuClick{ConversationID: chatID, CallbackID: "cb-2", Data: "cat_parks"})

	assert.Equal(t, []string{"cb-1", "cb-2"}, f.msgr.acks)
	assert.Contains(t, f.obs.kinds(), EventDeliveryFailed)
	assert.Equal(t, category.Parks, f.category(t))
}

func TestMalformedUpdatesAreDropped(t *testing.T) {
	f := newFixture(t)
	for _, upd := range []Update{
		nil,
		FreeText{Text: "hello there"},
		FreeText{ConversationID: chatID, Text: "   "},
		Command{Name: CmdStart},
		MenuClick{Data: "main_menu"},
	} {
		out := f.m.Process(context.Background(), upd)
		_, ok := out.(NoOp)
		assert.Truef(t, ok, "%#v", upd)
	}
	assert.Empty(t, f.msgr.out)
	_, exists := f.store.Get(chatID)
	assert.False(t, exists)
	for _, k := range f.obs.kinds() {
		assert.Equal(t, EventDropped, k)
	}
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.msgr.sendErr = errors.New("Forbidden: bot was blocked by the user (403)")

	out := f.m.Process(context.Background(), Command{ConversationID: chatID, Name: CmdMenu})
	requireSend(t, out)
	assert.Contains(t, f.obs.kinds(), EventDeliveryFailed)
}

type panickingStore struct{ session.Store }

func (panickingStore) Touch(int64) session.Session { panic("store exploded") }

func TestProcessRecoversPanics(t *testing.T) {
	obs := &recordingObserver{}
	m, err := New(Options{
		Store:     panickingStore{session.NewMemoryStore()},
		Generator: &stubGenerator{},
		Messenger: &recordingMessenger{},
		Observer:  obs,
	})
	require.NoError(t, err)

	var out Outbound
	require.NotPanics(t, func() {
		out = m.Process(context.Background(), Command{ConversationID: chatID, Name: CmdHelp})
	})
	msg := requireSend(t, out)
	assert.Contains(t, msg.Text, "Something went wrong")
	assert.Equal(t, MainMenu(), msg.Keyboard)
	assert.Equal(t, []EventKind{EventPanic}, obs.kinds())
}

type panickingMessenger struct{ recordingMessenger }

func (*panickingMessenger) Send(context.Context, int64, string, Keyboard) error {
	panic("transport exploded")
}

func TestProcessSurvivesPanickingApology(t *testing.T) {
	obs := &recordingObserver{}
	m, err := New(Options{
		Store:     session.NewMemoryStore(),
		Generator: &stubGenerator{},
		Messenger: &panickingMessenger{},
		Observer:  obs,
	})
	require.NoError(t, err)

	var out Outbound
	require.NotPanics(t, func() {
		out = m.Process(context.Background(), Command{ConversationID: chatID, Name: CmdHelp})
	})
	assert.Equal(t, NoOp{Reason: "panic"}, out)
	assert.Equal(t, []EventKind{EventPanic}, obs.kinds())
}

func TestAttachmentGetsTextOnlyHint(t *testing.T) {
	f := newFixture(t)
	f.setCategory(category.Food)

	for _, media := range []string{"photo", "sticker", "voice", "location"} {
		msg := requireSend(t, f.m.Process(context.Background(), Attachment{ConversationID: chatID, Media: media}))
		assert.Contains(t, msg.Text, "I work with text messages")
		assert.Equal(t, MainMenu(), msg.Keyboard)
	}
	assert.Zero(t, f.gen.calls())
	assert.Equal(t, category.Food, f.category(t))
	assert.Len(t, f.msgr.out, 4)
}

func TestNumericQuestionsReachGenerator(t *testing.T) {
	for _, tc := range []struct {
		cat  category.ID
		text string
	}{
		{category.Transport, "bus 42 at 10:30"},
		{category.Currency, "50000 INR to USD?"},
		{category.Transport, "metro 7:45 pm"},
	} {
		t.Run(tc.text, func(t *testing.T) {
			f := newFixture(t)
			f.setCategory(tc.cat)
			msg := requireSend(t, f.m.Process(context.Background(), FreeText{ConversationID: chatID, Text: tc.text}))
			assert.Equal(t, 1, f.gen.calls())
			assert.NotContains(t, msg.Text, "more words")
		})
	}
}

func TestMultiObserver(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	var calls int
	multi := MultiObserver{a, nil, b, ObserverFunc(func(context.Context, Event) { calls++ })}
	multi.Observe(context.Background(), Event{Kind: EventAnswered})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
	assert.Equal(t, 1, calls)
}
