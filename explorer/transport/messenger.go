// Package transport connects the dialog machine to Telegram through
// telebot: it turns telebot contexts into dialog updates and delivers
// outbound actions through the sender dispatcher.
package transport

import (
	"context"
	"strconv"

	"github.com/m3rciful/cityexplorer/core/telegram/keyboard"
	"github.com/m3rciful/cityexplorer/core/telegram/middleware"
	"github.com/m3rciful/cityexplorer/core/telegram/sender"
	"github.com/m3rciful/cityexplorer/explorer/dialog"

	tele "gopkg.in/telebot.v4"
)

// API is the slice of the Bot API the messenger needs.
type API interface {
	SendHTML(chatID int64, text string, markup *tele.ReplyMarkup) error
	EditHTML(chatID int64, messageID int, text string, markup *tele.ReplyMarkup) error
	AnswerCallback(callbackID string) error
	Typing(chatID int64) error
}

// BotAPI implements API on a telebot bot.
type BotAPI struct {
	Bot *tele.Bot
}

func htmlOptions(markup *tele.ReplyMarkup) *tele.SendOptions {
	return &tele.SendOptions{ParseMode: tele.ModeHTML, ReplyMarkup: markup}
}

// SendHTML posts a new message.
func (a BotAPI) SendHTML(chatID int64, text string, markup *tele.ReplyMarkup) error {
	_, err := a.Bot.Send(tele.ChatID(chatID), text, htmlOptions(markup))
	return err
}

// EditHTML replaces text and keyboard of a message the bot sent earlier.
func (a BotAPI) EditHTML(chatID int64, messageID int, text string, markup *tele.ReplyMarkup) error {
	msg := tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
	_, err := a.Bot.Edit(msg, text, htmlOptions(markup))
	return err
}

// AnswerCallback stops the client's loading indicator on a button.
func (a BotAPI) AnswerCallback(callbackID string) error {
	return a.Bot.Respond(&tele.Callback{ID: callbackID})
}

// Typing shows the typing chat action.
func (a BotAPI) Typing(chatID int64) error {
	return a.Bot.Notify(tele.ChatID(chatID), tele.Typing)
}

// Messenger implements dialog.Messenger. Messages and edits are delivered
// synchronously and exactly once; acknowledgements and typing indicators
// are queued.
type Messenger struct {
	api  API
	disp *sender.Dispatcher
}

var _ dialog.Messenger = (*Messenger)(nil)

// NewMessenger builds a messenger over api.
func NewMessenger(api API, disp *sender.Dispatcher) *Messenger {
	return &Messenger{api: api, disp: disp}
}

// Send posts text with an optional inline keyboard.
func (m *Messenger) Send(ctx context.Context, conversationID int64, text string, kb dialog.Keyboard) error {
	markup := Markup(kb)
	err := m.disp.Do(ctx, "send", func(context.Context) error {
		return m.api.SendHTML(conversationID, text, markup)
	})
	if err == nil {
		middleware.CountSent(ctx, markup != nil)
	}
	return err
}

// Edit rewrites an earlier message.
func (m *Messenger) Edit(ctx context.Context, conversationID int64, messageID int, text string, kb dialog.Keyboard) error {
	markup := Markup(kb)
	err := m.disp.Do(ctx, "edit", func(context.Context) error {
		return m.api.EditHTML(conversationID, messageID, text, markup)
	})
	if err == nil {
		middleware.CountSent(ctx, markup != nil)
	}
	return err
}

// Acknowledge answers a callback query in the background.
func (m *Messenger) Acknowledge(ctx context.Context, callbackID string) error {
	return m.disp.Enqueue(ctx, "ack", func(context.Context) error {
		return m.api.AnswerCallback(callbackID)
	})
}

// Typing sends the typing indicator in the background.
func (m *Messenger) Typing(ctx context.Context, conversationID int64) error {
	return m.disp.Enqueue(ctx, "typing", func(context.Context) error {
		return m.api.Typing(conversationID)
	})
}

// Markup converts a dialog keyboard into raw-data inline buttons. An empty
// keyboard yields nil so no markup is attached.
func Markup(kb dialog.Keyboard) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(kb))
	for _, r := range kb {
		row := make([]keyboard.InlineBtn, 0, len(r))
		for _, b := range r {
			row = append(row, keyboard.InlineBtn{Text: b.Label, Data: b.Action.Data()})
		}
		rows = append(rows, row)
	}
	return keyboard.Inline(rows...)
}
