package router

import (
	"strings"
	"time"

	tg "github.com/m3rciful/cityexplorer/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the OnText handler. Text that names a registered
// command in a form telebot did not route (different case, foreign bot
// mention) is dispatched to that command; everything else goes to the
// registry's text fallback.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil {
			if name, ok := commandWord(text); ok {
				if key, cmd, found := reg.LookupCommand(name); found && cmd.Handler != nil {
					return handleWithSummary(c, "command."+normalizeHandlerName(key), start, "", func() error {
						return cmd.Handler(c)
					})
				}
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "text", start, "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", nil)
		return nil
	}

	return []tg.Route{{Endpoint: tele.OnText, Handler: handler}}
}

// EditedRoute ignores edited messages after logging them.
func EditedRoute() tg.Route {
	return tg.Route{
		Endpoint: tele.OnEdited,
		Handler: func(c tele.Context) error {
			logHandlerSummary(c, "edited", time.Now(), "skip", nil)
			return nil
		},
	}
}

// nonTextEndpoints are the message kinds without text that the bot still
// answers. OnMedia covers photos, stickers, voice notes and other files.
var nonTextEndpoints = []string{tele.OnMedia, tele.OnLocation, tele.OnContact, tele.OnVenue, tele.OnDice}

// NonTextRoutes sends every message without text to h.
func NonTextRoutes(h tele.HandlerFunc) []tg.Route {
	if h == nil {
		return nil
	}
	handler := func(c tele.Context) error {
		return handleWithSummary(c, "non_text", time.Now(), "", func() error {
			return h(c)
		})
	}
	routes := make([]tg.Route, 0, len(nonTextEndpoints))
	for _, ep := range nonTextEndpoints {
		routes = append(routes, tg.Route{Endpoint: ep, Handler: handler})
	}
	return routes
}

// commandWord extracts "/name" from text, lowercased and without a bot
// mention.
func commandWord(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	word, _, _ := strings.Cut(text, " ")
	word, _, _ = strings.Cut(word, "@")
	word = strings.ToLower(word)
	if word == "/" {
		return "", false
	}
	return word, true
}
