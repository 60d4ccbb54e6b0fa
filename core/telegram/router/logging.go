// Package router binds registry entries to telebot endpoints and writes one
// summary line per handled update.
package router

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/cityexplorer/core/logger"
	tghelpers "github.com/m3rciful/cityexplorer/core/telegram/helpers"
	"github.com/m3rciful/cityexplorer/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

const statusSkip = "skip"

// handleWithSummary runs fn under handlerName and logs the outcome. It
// always returns nil so telebot never treats an update as failed.
func handleWithSummary(c tele.Context, handlerName string, start time.Time, status string, fn func() error, extras ...slog.Attr) error {
	tghelpers.WithHandler(c, handlerName)
	logHandlerSummary(c, handlerName, start, status, fn(), extras...)
	return nil
}

// logHandlerSummary writes "handler.handled". An empty status is derived
// from err; skipped updates log at debug.
func logHandlerSummary(c tele.Context, handlerName string, start time.Time, status string, err error, extras ...slog.Attr) {
	ctx := tghelpers.WithHandler(c, handlerName)
	if status == "" {
		status = "ok"
		if err != nil {
			status = "fail"
		}
	}
	msgs, kb := middleware.GetCounters(c)

	attrs := make([]slog.Attr, 0, 7+len(extras))
	attrs = append(attrs,
		logger.StatusAttr(status),
		slog.String("handler", handlerName),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
		)
	}
	attrs = append(attrs, extras...)

	level := slog.LevelInfo
	if status == statusSkip {
		level = slog.LevelDebug
	}
	logger.LogEvent(ctx, logger.Component("tg"), level, "handler.handled", attrs...)
}

// normalizeHandlerName turns "/Foo Bar" into "foo_bar".
func normalizeHandlerName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if name == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// deriveErrorCode prefers an explicit Code() anywhere in the chain and
// falls back to the upper-cased error type name.
func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var coder interface{ Code() string }
	if errors.As(err, &coder) {
		if code := strings.TrimSpace(coder.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	name := strings.TrimLeft(fmt.Sprintf("%T", err), "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "UNKNOWN_ERROR"
	}
	return strings.ToUpper(name)
}
