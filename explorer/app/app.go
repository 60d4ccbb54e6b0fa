// Package app assembles the city explorer bot from configuration and
// bootstrapped infrastructure.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/cityexplorer/core/bootstrap"
	coreconfig "github.com/m3rciful/cityexplorer/core/config"
	"github.com/m3rciful/cityexplorer/core/logger"
	tg "github.com/m3rciful/cityexplorer/core/telegram"
	"github.com/m3rciful/cityexplorer/core/telegram/commands"
	"github.com/m3rciful/cityexplorer/core/telegram/router"
	"github.com/m3rciful/cityexplorer/explorer/dialog"
	"github.com/m3rciful/cityexplorer/explorer/genai"
	"github.com/m3rciful/cityexplorer/explorer/journal"
	"github.com/m3rciful/cityexplorer/explorer/session"
	"github.com/m3rciful/cityexplorer/explorer/stats"
	"github.com/m3rciful/cityexplorer/explorer/transport"

	tele "gopkg.in/telebot.v4"
)

// allowedUpdates limits Telegram deliveries to what the bot handles.
var allowedUpdates = []string{"message", "edited_message", "callback_query"}

var commandSet = []struct{ name, description string }{
	{dialog.CmdStart, "Start the bot and show the main menu"},
	{dialog.CmdMenu, "Choose a category"},
	{dialog.CmdHelp, "How to use the bot"},
	{dialog.CmdSettings, "Bot settings"},
	{dialog.CmdLocation, "Set your city"},
	{dialog.CmdStats, "Your usage statistics"},
}

// App owns the long-lived domain services.
type App struct {
	cfg      *coreconfig.Config
	infra    *bootstrap.Result
	store    *session.MemoryStore
	gen      dialog.Generator
	journal  *journal.Journal
	recorder *journal.Recorder
	reporter *stats.Reporter
	api      func(*tele.Bot) transport.API
}

// Option customizes an App.
type Option func(*App)

// WithGenerator replaces the configured generation client.
func WithGenerator(g dialog.Generator) Option {
	return func(a *App) { a.gen = g }
}

// WithAPI replaces the Bot API used for delivery.
func WithAPI(fn func(*tele.Bot) transport.API) Option {
	return func(a *App) { a.api = fn }
}

// New builds the application services. infra may be nil when no database
// is in use.
func New(cfg *coreconfig.Config, infra *bootstrap.Result, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	a := &App{
		cfg:   cfg,
		infra: infra,
		store: session.NewMemoryStore(),
		api:   func(b *tele.Bot) transport.API { return transport.BotAPI{Bot: b} },
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.gen == nil {
		client, err := genai.New(cfg.Generation, genai.WithHTTPClient(generationHTTPClient()))
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		a.gen = client
		logger.Info(context.Background(), "app", "genai.ready",
			slog.String("model", client.Model()),
			slog.String("base_url", cfg.Generation.BaseURL),
		)
	}

	var statsOpts []stats.Option
	if infra != nil && infra.DB != nil {
		j := journal.New(infra.DB)
		a.journal = j
		a.recorder = j.Recorder()
		statsOpts = append(statsOpts, stats.WithUsage(j))
	}

	reporter, err := stats.New(a.store, cfg.Stats.Schedule, a.activeWindow(), statsOpts...)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	a.reporter = reporter
	return a, nil
}

// generationHTTPClient keeps a small warm pool to the generation endpoint.
// Per-call deadlines come from generation.timeout_seconds.
func generationHTTPClient() *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	return &http.Client{Transport: &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 2 * time.Minute,
	}}
}

func (a *App) activeWindow() time.Duration {
	hours := a.cfg.Stats.ActiveWindowHours
	if hours <= 0 {
		hours = coreconfig.DefaultActiveWindow
	}
	return time.Duration(hours) * time.Hour
}

// Store exposes the session store.
func (a *App) Store() session.Store { return a.store }

// Machine builds a state machine delivering through messenger.
func (a *App) Machine(messenger dialog.Messenger) (*dialog.Machine, error) {
	opts := dialog.Options{
		Store:        a.store,
		Generator:    a.gen,
		Messenger:    messenger,
		Observer:     dialog.LogObserver{},
		ActiveWindow: a.activeWindow(),
	}
	if a.journal != nil {
		opts.Observer = dialog.MultiObserver{dialog.LogObserver{}, a.recorder}
		opts.Questions = a.journal
	}
	return dialog.New(opts)
}

// Register binds every command and menu action to h.
func Register(reg *tg.Registry, h transport.Handlers) error {
	for _, c := range commandSet {
		if err := reg.RegisterCommand("/"+c.name, commands.Command{
			Handler:     h.Message,
			Description: c.description,
		}); err != nil {
			return err
		}
	}
	for _, data := range dialog.KnownActions() {
		if err := reg.RegisterCallback(data, h.Callback); err != nil {
			return err
		}
	}
	// the machine answers unknown actions itself
	reg.SetCallbackNotFound(h.Callback)
	reg.SetTextFallback(h.Message)
	return nil
}

// Routes builds every telebot route once the bot exists.
func (a *App) Routes(rt tg.Runtime) ([]tg.Route, error) {
	messenger := transport.NewMessenger(a.api(rt.Bot), rt.Dispatcher)
	machine, err := a.Machine(messenger)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	h := transport.NewHandlers(machine)
	if err := Register(rt.Registry, h); err != nil {
		return nil, fmt.Errorf("app: register: %w", err)
	}

	routes := router.CommandRoutes(rt.Registry)
	routes = append(routes, router.TextRoutes(rt.Registry, router.TextOptions{})...)
	routes = append(routes, router.NonTextRoutes(h.Attachment)...)
	routes = append(routes,
		router.CallbackRoute(rt.Registry, router.CallbackOptions{}),
		router.EditedRoute(),
	)
	return routes, nil
}

// TelegramRunOptions describes how to run the bot.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	return tg.RunOptions{
		Config:         a.cfg,
		Registry:       tg.NewRegistry(),
		Middlewares:    tg.DefaultMiddlewares(),
		Routes:         a.Routes,
		AllowedUpdates: allowedUpdates,
		OnStart: func(context.Context, tg.Runtime) error {
			a.reporter.Start()
			return nil
		},
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			err := a.reporter.Stop(ctx)
			if a.recorder != nil {
				a.recorder.Wait()
			}
			a.reporter.Report(ctx)
			return err
		},
	}, nil
}

// Close releases bootstrapped infrastructure.
func (a *App) Close() error {
	return a.infra.Close()
}
