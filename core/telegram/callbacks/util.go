// Package callbacks decodes inline button callback data.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Parse splits callback data into a routing key and a payload. Buttons
// created with a unique id arrive as "\f<unique>|<payload>"; raw buttons
// arrive as-is and the whole string is the key.
func Parse(cb *tele.Callback) (key, payload string) {
	if cb == nil {
		return "", ""
	}
	raw := strings.TrimSpace(cb.Data)
	if !strings.HasPrefix(raw, "\f") {
		return raw, ""
	}
	raw = strings.TrimPrefix(raw, "\f")
	key, payload, _ = strings.Cut(raw, "|")
	return strings.TrimSpace(key), payload
}

// Key returns the routing key of the context's callback, preferring the
// unique id telebot already extracted.
func Key(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return cb.Unique
	}
	k, _ := Parse(cb)
	return k
}

// Data returns the opaque action string a button carried: the payload for
// unique buttons, the raw data otherwise.
func Data(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return cb.Data
	}
	key, payload := Parse(cb)
	if payload != "" {
		return payload
	}
	return key
}
