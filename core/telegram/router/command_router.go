package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/cityexplorer/core/logger"
	tg "github.com/m3rciful/cityexplorer/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes binds every registered command and alias to its handler.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}

	cmds := reg.Commands()
	routes := make([]tg.Route, 0, len(cmds))
	for name, def := range cmds {
		handler := commandHandler(name, def.Handler)
		routes = append(routes, tg.Route{Endpoint: name, Handler: handler})
		for _, alias := range def.Aliases {
			routes = append(routes, tg.Route{Endpoint: "/" + normalizeHandlerName(alias), Handler: handler})
		}
	}

	logger.LogEvent(context.Background(), logger.Component("tg.wire"), slog.LevelInfo, "complete",
		slog.Int("commands", len(cmds)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)

	return routes
}

func commandHandler(name string, h tele.HandlerFunc) tele.HandlerFunc {
	handlerName := "command." + normalizeHandlerName(name)
	return func(c tele.Context) error {
		return handleWithSummary(c, handlerName, time.Now(), "", func() error {
			return h(c)
		})
	}
}
