// Package keyboard builds Telegram inline keyboards.
package keyboard

import (
	"context"
	"log/slog"

	"github.com/m3rciful/cityexplorer/core/logger"

	tele "gopkg.in/telebot.v4"
)

// MaxDataLen is Telegram's limit on callback data, in bytes.
const MaxDataLen = 64

// InlineBtn is one inline button. With Unique empty, Data reaches Telegram
// verbatim; otherwise telebot encodes it as "\f<unique>|<data>".
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

func (b InlineBtn) wireLen() int {
	if b.Unique == "" {
		return len(b.Data)
	}
	return len(b.Unique) + len(b.Data) + 2
}

// Inline builds an inline keyboard row by row. Buttons whose callback data
// Telegram would reject are dropped, as are empty rows. It returns nil
// when no button remains.
func Inline(rows ...[]InlineBtn) *tele.ReplyMarkup {
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		out := make([]tele.InlineButton, 0, len(row))
		for _, btn := range row {
			if n := btn.wireLen(); n > MaxDataLen {
				logger.Warn(context.Background(), "tg", "keyboard.drop",
					slog.String("text", btn.Text),
					slog.Int("data_len", n),
				)
				continue
			}
			out = append(out, tele.InlineButton{Unique: btn.Unique, Text: btn.Text, Data: btn.Data})
		}
		if len(out) > 0 {
			inline = append(inline, out)
		}
	}
	if len(inline) == 0 {
		return nil
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}
