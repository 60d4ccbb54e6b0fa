package transport

import (
	"context"

	"github.com/m3rciful/cityexplorer/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/cityexplorer/core/telegram/helpers"
	"github.com/m3rciful/cityexplorer/explorer/dialog"

	tele "gopkg.in/telebot.v4"
)

// Processor handles one dialog update end to end.
type Processor interface {
	Process(ctx context.Context, upd dialog.Update) dialog.Outbound
}

// Handlers adapts telebot updates to a Processor. Every handler returns
// nil: failures are the processor's to report.
type Handlers struct {
	proc Processor
}

// NewHandlers wraps proc.
func NewHandlers(proc Processor) Handlers {
	return Handlers{proc: proc}
}

// Message handles commands and free text alike.
func (h Handlers) Message(c tele.Context) error {
	h.proc.Process(tghelpers.BuildContext(c), MessageUpdate(c))
	return nil
}

// Callback handles inline button presses.
func (h Handlers) Callback(c tele.Context) error {
	h.proc.Process(tghelpers.BuildContext(c), CallbackUpdate(c))
	return nil
}

// Attachment handles messages that carry no text.
func (h Handlers) Attachment(c tele.Context) error {
	h.proc.Process(tghelpers.BuildContext(c), AttachmentUpdate(c))
	return nil
}

// MessageUpdate converts a text message into a Command or FreeText.
func MessageUpdate(c tele.Context) dialog.Update {
	return dialog.FromText(tghelpers.ChatID(c), c.Text())
}

// CallbackUpdate converts a callback query into a MenuClick.
func CallbackUpdate(c tele.Context) dialog.Update {
	click := dialog.MenuClick{
		ConversationID: tghelpers.ChatID(c),
		Data:           callbacks.Data(c),
	}
	if cb := c.Callback(); cb != nil {
		click.CallbackID = cb.ID
		if cb.Message != nil {
			click.MessageID = cb.Message.ID
		}
	}
	return click
}

// AttachmentUpdate converts a message without text into an Attachment.
func AttachmentUpdate(c tele.Context) dialog.Update {
	return dialog.Attachment{ConversationID: tghelpers.ChatID(c), Media: mediaKind(c.Message())}
}

func mediaKind(m *tele.Message) string {
	switch {
	case m == nil:
		return ""
	case m.Photo != nil:
		return "photo"
	case m.Sticker != nil:
		return "sticker"
	case m.Voice != nil:
		return "voice"
	case m.Audio != nil:
		return "audio"
	case m.Video != nil, m.VideoNote != nil, m.Animation != nil:
		return "video"
	case m.Document != nil:
		return "document"
	case m.Location != nil, m.Venue != nil:
		return "location"
	case m.Contact != nil:
		return "contact"
	}
	return "other"
}
