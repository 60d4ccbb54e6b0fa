// Package telegram runs a telebot bot: poller and HTTP client setup,
// middleware and route registration, command publishing and lifecycle
// hooks.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/cityexplorer/core/config"
	"github.com/m3rciful/cityexplorer/core/logger"
	tghelpers "github.com/m3rciful/cityexplorer/core/telegram/helpers"
	tgsender "github.com/m3rciful/cityexplorer/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of RunTelegram.
type RunOptions struct {
	Config   *coreconfig.Config
	Registry *Registry

	DispatcherOptions tgsender.Options
	Dispatcher        *tgsender.Dispatcher

	Middlewares []Middleware
	// Routes builds handlers once the bot and dispatcher exist.
	Routes func(rt Runtime) ([]Route, error)

	AllowedUpdates        []string
	DisableWebhookCleanup bool

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime exposes runtime components to route builders and lifecycle hooks.
type Runtime struct {
	Bot        *tele.Bot
	Dispatcher *tgsender.Dispatcher
	Registry   *Registry
}

// RunTelegram composes and runs a Telegram bot until the provided context is done.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return fmt.Errorf("telegram: nil config provided")
	}
	cfg := opts.Config
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	poller := BuildPoller(PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		AllowedUpdates:         opts.AllowedUpdates,
		Webhook: WebhookOptions{
			Listen: cfg.Webhook.Listen,
			Port:   cfg.Webhook.Port,
			URL:    cfg.Webhook.URL,
		},
	})

	start := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		Token:   cfg.Telegram.Token,
		Poller:  poller,
		Client:  BuildHTTPClient(),
		OnError: botErrorHandler(ctx, cfg.Telegram.Token),
	})
	if err != nil {
		return fmt.Errorf("telegram: bot initialization failed: %s", redactToken(err.Error(), cfg.Telegram.Token))
	}
	logMode(ctx, poller, time.Since(start))
	if _, polling := poller.(*tele.LongPoller); polling && !opts.DisableWebhookCleanup {
		removeWebhook(ctx, bot, cfg.Telegram.Token)
	}

	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		dispatcher = tgsender.NewDispatcher(opts.DispatcherOptions)
	}
	defer dispatcher.Close()

	rt := Runtime{Bot: bot, Dispatcher: dispatcher, Registry: reg}
	if err := wire(bot, rt, opts); err != nil {
		return err
	}

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			return err
		}
	}
	runErr := serve(ctx, bot)

	if opts.OnStop != nil {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := opts.OnStop(stopCtx, rt); err != nil {
			return err
		}
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// wire installs middlewares before any handler, then routes, then
// publishes the command menu.
func wire(bot *tele.Bot, rt Runtime, opts RunOptions) error {
	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	if opts.Routes != nil {
		routes, err := opts.Routes(rt)
		if err != nil {
			return fmt.Errorf("telegram: routes: %w", err)
		}
		for _, route := range routes {
			if route.Endpoint != nil && route.Handler != nil {
				bot.Handle(route.Endpoint, route.Handler)
			}
		}
	}
	InitBotCommands(bot, rt.Registry)
	return nil
}

// serve blocks until the bot stops on its own or ctx is done.
func serve(ctx context.Context, bot *tele.Bot) error {
	done := make(chan struct{})
	go func() {
		bot.Start()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
	}
	// Stop is a no-op until Start has set up its stop channel.
	for {
		bot.Stop()
		select {
		case <-done:
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func botErrorHandler(ctx context.Context, token string) func(error, tele.Context) {
	return func(err error, c tele.Context) {
		errCtx := ctx
		if c != nil {
			errCtx = tghelpers.BuildContext(c)
		}
		logger.Error(errCtx, "tg", "bot.error",
			logger.StatusAttr("fail"),
			slog.String("err", redactToken(err.Error(), token)),
		)
	}
}

func logMode(ctx context.Context, poller tele.Poller, took time.Duration) {
	attrs := []slog.Attr{slog.Duration("duration", logger.RoundMS(took))}
	switch p := poller.(type) {
	case *tele.Webhook:
		attrs = append(attrs,
			slog.String("mode", coreconfig.RunModeWebhook),
			slog.String("listen", p.Listen),
			slog.String("public_url", p.Endpoint.PublicURL),
		)
	case *tele.LongPoller:
		attrs = append(attrs,
			slog.String("mode", coreconfig.RunModeLongpoll),
			slog.Int("timeout_seconds", int(p.Timeout/time.Second)),
		)
	}
	logger.Info(ctx, "tg", "mode", attrs...)
}

// removeWebhook clears a webhook left over from an earlier deployment so
// long polling receives updates. Pending updates are kept.
func removeWebhook(ctx context.Context, bot *tele.Bot, token string) {
	if err := bot.RemoveWebhook(false); err != nil {
		logger.Warn(ctx, "tg", "delete_webhook",
			logger.StatusAttr("fail"),
			slog.String("err", redactToken(err.Error(), token)),
		)
		return
	}
	logger.Info(ctx, "tg", "delete_webhook", logger.StatusAttr("ok"))
}

func redactToken(msg, token string) string {
	if token == "" {
		return msg
	}
	return strings.ReplaceAll(msg, token, "<redacted>")
}
