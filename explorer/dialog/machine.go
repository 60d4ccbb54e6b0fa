package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m3rciful/cityexplorer/core/logger"
	"github.com/m3rciful/cityexplorer/explorer/category"
	"github.com/m3rciful/cityexplorer/explorer/intent"
	"github.com/m3rciful/cityexplorer/explorer/reply"
	"github.com/m3rciful/cityexplorer/explorer/session"
	"github.com/m3rciful/cityexplorer/explorer/textnorm"
)

// Generator produces text for a fully assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Messenger delivers outbound actions to the chat platform. Text is HTML.
type Messenger interface {
	Send(ctx context.Context, conversationID int64, text string, kb Keyboard) error
	Edit(ctx context.Context, conversationID int64, messageID int, text string, kb Keyboard) error
	// Acknowledge answers a button press so the client stops its spinner.
	Acknowledge(ctx context.Context, callbackID string) error
	// Typing shows a typing indicator.
	Typing(ctx context.Context, conversationID int64) error
}

// Command names understood by the machine.
const (
	CmdStart    = "start"
	CmdMenu     = "menu"
	CmdHelp     = "help"
	CmdSettings = "settings"
	CmdLocation = "location"
	CmdStats    = "stats"
)

// DefaultActiveWindow bounds "active" sessions in /stats.
const DefaultActiveWindow = 24 * time.Hour

// statsSavedQuestions bounds the saved questions listed by /stats.
const statsSavedQuestions = 3

// QuestionLog returns questions stored beyond the session, newest first.
type QuestionLog interface {
	RecentQuestions(ctx context.Context, conversationID int64, limit int) ([]string, error)
}

// Options wires a Machine. Store, Generator and Messenger are required.
type Options struct {
	Store     session.Store
	Generator Generator
	Messenger Messenger
	Observer  Observer
	// Questions, when set, adds saved questions to /stats.
	Questions QuestionLog
	// ActiveWindow defaults to DefaultActiveWindow.
	ActiveWindow time.Duration
}

// Machine is the conversation state machine. It is safe for concurrent use
// across conversations; updates for one conversation are expected in order.
type Machine struct {
	store  session.Store
	gen    Generator
	msgr   Messenger
	obs    Observer
	log    QuestionLog
	window time.Duration
}

// New validates opts and builds a Machine.
func New(opts Options) (*Machine, error) {
	switch {
	case opts.Store == nil:
		return nil, errors.New("dialog: nil session store")
	case opts.Generator == nil:
		return nil, errors.New("dialog: nil generator")
	case opts.Messenger == nil:
		return nil, errors.New("dialog: nil messenger")
	}
	obs := opts.Observer
	if obs == nil {
		obs = LogObserver{}
	}
	window := opts.ActiveWindow
	if window <= 0 {
		window = DefaultActiveWindow
	}
	return &Machine{
		store:  opts.Store,
		gen:    opts.Generator,
		msgr:   opts.Messenger,
		obs:    obs,
		log:    opts.Questions,
		window: window,
	}, nil
}

// Process acknowledges button presses, decides, and delivers the result.
// It never panics and never returns an error: failures are reported to the
// observer and the conversation carries on. After a panic the user gets a
// short apology with the main menu.
func (m *Machine) Process(ctx context.Context, upd Update) (out Outbound) {
	defer func() {
		if r := recover(); r != nil {
			id := conversationOf(upd)
			m.obs.Observe(ctx, Event{
				Kind:           EventPanic,
				ConversationID: id,
				Reason:         fmt.Sprintf("%v\n%s", r, debug.Stack()),
			})
			out = m.apologize(ctx, id)
		}
	}()

	if click, ok := upd.(MenuClick); ok && click.CallbackID != "" {
		if err := m.msgr.Acknowledge(ctx, click.CallbackID); err != nil {
			m.deliveryFailed(ctx, click.ConversationID, "acknowledge", err)
		}
	}

	out = m.Decide(ctx, upd)
	m.deliver(ctx, out)
	return out
}

// Decide applies upd to its session and returns the reply. It may call the
// generator and send a typing indicator, but delivers nothing else.
func (m *Machine) Decide(ctx context.Context, upd Update) Outbound {
	if reason := malformed(upd); reason != "" {
		m.obs.Observe(ctx, Event{Kind: EventDropped, ConversationID: conversationOf(upd), Reason: reason})
		return NoOp{Reason: reason}
	}
	switch u := upd.(type) {
	case Command:
		return m.onCommand(ctx, u)
	case FreeText:
		return m.onText(ctx, u)
	case MenuClick:
		return m.onClick(ctx, u)
	case Attachment:
		return send(u.ConversationID, textOnlyText, MainMenu())
	}
	return NoOp{Reason: "unsupported"}
}

func malformed(upd Update) string {
	if upd == nil {
		return "nil_update"
	}
	if upd.conversation() == 0 {
		return "no_conversation"
	}
	if t, ok := upd.(FreeText); ok && strings.TrimSpace(t.Text) == "" {
		return "empty_text"
	}
	return ""
}

func conversationOf(upd Update) int64 {
	if upd == nil {
		return 0
	}
	return upd.conversation()
}

func (m *Machine) onCommand(ctx context.Context, u Command) Outbound {
	id := u.ConversationID
	sess := m.store.Touch(id)
	switch u.Name {
	case CmdStart:
		m.setCategory(ctx, u, sess, category.None, "/"+CmdStart)
		return send(id, welcomeText, MainMenu())
	case CmdMenu:
		m.setCategory(ctx, u, sess, category.None, "/"+CmdMenu)
		return send(id, mainMenuText, MainMenu())
	case CmdHelp:
		return send(id, helpText(sess.Category), BackToMenu())
	case CmdSettings:
		return send(id, settingsText, BackToMenu())
	case CmdLocation:
		return send(id, locationText, BackToMenu())
	case CmdStats:
		text := statsText(sess, m.store.Stats(m.window), m.window)
		return send(id, text+savedQuestionsText(m.savedQuestions(ctx, id)), BackToMenu())
	}
	return send(id, unknownCommandText(u.Name), MainMenu())
}

func (m *Machine) onClick(ctx context.Context, u MenuClick) Outbound {
	id := u.ConversationID
	sess := m.store.Touch(id)
	act := ParseAction(u.Data)
	switch act.Kind {
	case ActionMainMenu:
		m.setCategory(ctx, u, sess, category.None, act.Name())
		if u.MessageID == 0 {
			return send(id, mainMenuText, MainMenu())
		}
		return EditMessage{ConversationID: id, MessageID: u.MessageID, Text: mainMenuText, Keyboard: MainMenu()}
	case ActionCategory:
		m.setCategory(ctx, u, sess, act.Category, act.Name())
		return send(id, categoryIntroText(category.MustLookup(act.Category)), BackToMenu())
	case ActionUtilities:
		return send(id, utilitiesText, UtilitiesMenu())
	case ActionHelp:
		return send(id, helpText(sess.Category), BackToMenu())
	case ActionSettings:
		return send(id, settingsText, BackToMenu())
	case ActionUtility:
		return m.onUtility(ctx, u, sess, act)
	case ActionNoop:
		return NoOp{Reason: "cosmetic"}
	}
	return send(id, unknownActionText, MainMenu())
}

func (m *Machine) onUtility(ctx context.Context, u MenuClick, sess session.Session, act Action) Outbound {
	id := u.ConversationID
	switch act.Utility {
	case UtilityWeather, UtilityCurrency, UtilityTranslate:
		cat, _ := act.Utility.Category()
		m.setCategory(ctx, u, sess, cat, act.Name())
		return send(id, utilityPrompts[act.Utility], BackToMenu())
	case UtilityEmergency:
		return send(id, EmergencyText, BackToMenu())
	case UtilityLocation:
		return send(id, locationText, BackToMenu())
	}
	return send(id, unknownActionText, MainMenu())
}

func (m *Machine) onText(ctx context.Context, u FreeText) Outbound {
	id := u.ConversationID
	sess := m.store.Touch(id)
	cat := sess.Category
	if !cat.Valid() {
		return send(id, chooseCategoryText, MainMenu())
	}
	c := category.MustLookup(cat)

	if p := textnorm.Inspect(u.Text); p != textnorm.OK {
		m.obs.Observe(ctx, Event{
			Kind: EventRejected, ConversationID: id, Update: u.kind(),
			Category: cat, Query: u.Text, Reason: problemName(p),
		})
		return send(id, inputProblems[p], BackToMenu())
	}

	query := textnorm.Normalize(u.Text)
	location := sess.Location
	if city, ok := textnorm.DetectCity(query); ok && city != location {
		m.store.Update(id, func(s *session.Session) { s.Location = city })
		location = city
	}

	if !intent.Matches(query, cat) {
		suggestion, ok := intent.Suggest(query, cat)
		if !ok || suggestion == intent.UnclearMessage {
			suggestion = ""
		}
		m.obs.Observe(ctx, Event{
			Kind: EventMismatch, ConversationID: id, Update: u.kind(),
			Category: cat, Query: query, Reason: "no_keyword",
		})
		return send(id, mismatchText(c, u.Text, suggestion), BackToMenu())
	}

	if err := m.msgr.Typing(ctx, id); err != nil {
		m.deliveryFailed(ctx, id, "typing", err)
	}

	answer, err := m.generate(ctx, c.Prompt(query, location))
	if err != nil {
		m.obs.Observe(ctx, Event{
			Kind: EventGenerationFailed, ConversationID: id, Update: u.kind(),
			Category: cat, Query: query, Err: err,
		})
		return send(id, reply.GenerationFailure(cat), BackToMenu())
	}

	n := utf8.RuneCountInString(answer)
	m.store.RecordActivity(id, cat, query, n)
	m.obs.Observe(ctx, Event{
		Kind: EventAnswered, ConversationID: id, Update: u.kind(),
		Category: cat, Query: query, Location: location, ResponseLength: n,
	})
	return send(id, reply.Compose(answer, cat), BackToMenu())
}

// generate turns a generator panic into an error so the user still gets
// the fallback reply.
func (m *Machine) generate(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dialog: generator panic: %v", r)
		}
	}()
	text, err = m.gen.Generate(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("dialog: empty generation")
	}
	return text, err
}

// savedQuestions reads the question log. A failing log only costs the
// /stats section.
func (m *Machine) savedQuestions(ctx context.Context, id int64) []string {
	if m.log == nil {
		return nil
	}
	qs, err := m.log.RecentQuestions(ctx, id, statsSavedQuestions)
	if err != nil {
		logger.Warn(ctx, "dialog", "question_log.fail",
			slog.Int64("chat_id", id),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return nil
	}
	return qs
}

func (m *Machine) setCategory(ctx context.Context, upd Update, sess session.Session, to category.ID, trigger string) {
	from := sess.Category
	m.store.Update(sess.ConversationID, func(s *session.Session) { s.Category = to })
	if from == to {
		return
	}
	m.obs.Observe(ctx, Event{
		Kind: EventTransition, ConversationID: sess.ConversationID, Update: upd.kind(),
		Trigger: trigger, From: from, To: to,
	})
}

func (m *Machine) deliver(ctx context.Context, out Outbound) {
	switch o := out.(type) {
	case SendMessage:
		if err := m.msgr.Send(ctx, o.ConversationID, o.Text, o.Keyboard); err != nil {
			m.deliveryFailed(ctx, o.ConversationID, "send", err)
		}
	case EditMessage:
		if err := m.msgr.Edit(ctx, o.ConversationID, o.MessageID, o.Text, o.Keyboard); err != nil {
			m.deliveryFailed(ctx, o.ConversationID, "edit", err)
		}
	}
}

// apologize sends the fault reply. A second panic while sending is
// swallowed so Process still returns.
func (m *Machine) apologize(ctx context.Context, id int64) (out Outbound) {
	if id == 0 {
		return NoOp{Reason: "panic"}
	}
	defer func() {
		if r := recover(); r != nil {
			out = NoOp{Reason: "panic"}
		}
	}()
	out = send(id, faultText, MainMenu())
	m.deliver(ctx, out)
	return out
}

func (m *Machine) deliveryFailed(ctx context.Context, id int64, op string, err error) {
	m.obs.Observe(ctx, Event{Kind: EventDeliveryFailed, ConversationID: id, Op: op, Err: err})
}

func problemName(p textnorm.Problem) string {
	switch p {
	case textnorm.TooShort:
		return "too_short"
	case textnorm.TooLong:
		return "too_long"
	case textnorm.TooFewLetters:
		return "too_few_letters"
	}
	return "ok"
}
