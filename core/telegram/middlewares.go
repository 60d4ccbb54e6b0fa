package telegram

import (
	"github.com/m3rciful/cityexplorer/core/telegram/middleware"
)

// DefaultMiddlewares builds the shared middleware chain: panic recovery
// outermost, then request context and receipt logging, then delivery
// counters for handler summaries.
func DefaultMiddlewares() []Middleware {
	return []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	}
}
