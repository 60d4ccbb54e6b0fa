package router

import (
	"log/slog"
	"time"

	tg "github.com/m3rciful/cityexplorer/core/telegram"
	"github.com/m3rciful/cityexplorer/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises callback handling.
type CallbackOptions struct {
	// NotFound runs when neither a registered handler nor the registry
	// fallback exists.
	NotFound tele.HandlerFunc
	// AutoRespond answers the callback query before the handler runs. Leave
	// it off when handlers acknowledge clicks themselves.
	AutoRespond bool
}

// CallbackRoute returns a handler that routes callbacks through the registry.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		key := callbacks.Key(c)
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		if opts.AutoRespond {
			_ = c.Respond()
		}

		var h tele.HandlerFunc
		if reg != nil {
			h, _ = reg.GetCallback(key)
		}
		if h == nil {
			if reg != nil {
				h = reg.CallbackNotFound()
			}
			if h == nil {
				h = opts.NotFound
			}
			extras = append(extras, slog.String("reason", "not_found"))
		}
		if h == nil {
			logHandlerSummary(c, name, start, "skip", nil, extras...)
			return nil
		}

		return handleWithSummary(c, name, start, "", func() error {
			return h(c)
		}, extras...)
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: handler}
}
