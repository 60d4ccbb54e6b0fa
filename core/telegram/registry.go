package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/m3rciful/cityexplorer/core/logger"
	"github.com/m3rciful/cityexplorer/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrInvalidRegistration rejects an empty name, key or handler.
	ErrInvalidRegistration = errors.New("telegram: invalid registration")
	// ErrDuplicate rejects a second registration under the same name.
	ErrDuplicate = errors.New("telegram: already registered")
)

// Registry maps slash commands and callback keys to handlers. Commands are
// keyed by their lowercased "/name"; aliases resolve to that key.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]commands.Command
	aliases   map[string]string
	callbacks map[string]tele.HandlerFunc

	callbackNotFound tele.HandlerFunc
	textFallback     tele.HandlerFunc
}

// NewRegistry creates an empty Registry. Unknown callbacks are answered
// with a short notice until SetCallbackNotFound replaces it.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]commands.Command),
		aliases:   make(map[string]string),
		callbacks: make(map[string]tele.HandlerFunc),
		callbackNotFound: func(c tele.Context) error {
			_ = c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
			return nil
		},
	}
}

func wireLog(level slog.Level, event string, attrs ...slog.Attr) {
	logger.LogEvent(context.Background(), logger.Component("tg.wire"), level, event, attrs...)
}

// commandKey lowercases name and ensures the leading slash.
func commandKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return name
}

// RegisterCommand adds a command. name must start with "/" and is matched
// case-insensitively, as are the command's aliases.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	switch {
	case r == nil || cmd.Handler == nil || cmd.Description == "":
		wireLog(slog.LevelWarn, "register.command.skip", slog.String("name", name), slog.String("reason", "invalid"))
		return fmt.Errorf("%w: command %q", ErrInvalidRegistration, name)
	case !strings.HasPrefix(name, "/") || len(name) < 2:
		wireLog(slog.LevelWarn, "register.command.skip", slog.String("name", name), slog.String("reason", "no_slash_prefix"))
		return fmt.Errorf("%w: command %q must start with /", ErrInvalidRegistration, name)
	}

	key := commandKey(name)
	aliasKeys := make([]string, 0, len(cmd.Aliases))
	for _, a := range cmd.Aliases {
		aliasKeys = append(aliasKeys, commandKey(a))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range append([]string{key}, aliasKeys...) {
		if r.taken(k) {
			wireLog(slog.LevelWarn, "register.command.duplicate", slog.String("name", k))
			return fmt.Errorf("%w: command %s", ErrDuplicate, k)
		}
	}
	r.commands[key] = cmd
	for _, k := range aliasKeys {
		r.aliases[k] = key
	}
	return nil
}

func (r *Registry) taken(key string) bool {
	_, cmd := r.commands[key]
	_, alias := r.aliases[key]
	return cmd || alias
}

// ListCommands returns commands sorted by name for the Telegram command
// menu. Hidden commands are left out when visibleOnly is set.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]tele.Command, 0, len(r.commands))
	for _, key := range slices.Sorted(maps.Keys(r.commands)) {
		meta := r.commands[key]
		if visibleOnly && meta.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: strings.TrimPrefix(key, "/"), Description: meta.Description})
	}
	return list
}

// LookupCommand resolves a command or alias, with or without the slash,
// and returns the canonical key.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	key := commandKey(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	cmd, ok := r.commands[key]
	if !ok {
		return "", commands.Command{}, false
	}
	return key, cmd, true
}

// Commands returns a copy of the registered commands by canonical key.
func (r *Registry) Commands() map[string]commands.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.commands)
}

// RegisterCallback maps a callback key to handler.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	if r == nil || key == "" || handler == nil {
		wireLog(slog.LevelWarn, "register.callback.skip",
			slog.String("key", key),
			slog.Bool("handler_nil", handler == nil),
		)
		return fmt.Errorf("%w: callback %q", ErrInvalidRegistration, key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		wireLog(slog.LevelWarn, "register.callback.duplicate", slog.String("key", key))
		return fmt.Errorf("%w: callback %s", ErrDuplicate, key)
	}
	r.callbacks[key] = handler
	return nil
}

// GetCallback returns the handler for key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// ListCallbacks returns the registered keys, sorted.
func (r *Registry) ListCallbacks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.callbacks))
}

// SetCallbackNotFound replaces the handler for unknown callback keys.
// A nil h keeps the current one.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h == nil {
		return
	}
	r.mu.Lock()
	r.callbackNotFound = h
	r.mu.Unlock()
}

// CallbackNotFound returns the handler for unknown callback keys.
func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.callbackNotFound
}

// SetTextFallback sets the handler for text that matches no command.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.mu.Lock()
	r.textFallback = h
	r.mu.Unlock()
}

// TextFallback returns the handler for text that matches no command.
func (r *Registry) TextFallback() tele.HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.textFallback
}

// InitBotCommands publishes the visible commands in the Telegram command menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	cmds := reg.ListCommands(true)
	if len(cmds) == 0 {
		return
	}
	if err := bot.SetCommands(cmds); err != nil {
		wireLog(slog.LevelError, "register.commands.set_failed", logger.ErrAttr(err))
		return
	}
	wireLog(slog.LevelInfo, "register.commands.set", slog.Int("commands", len(cmds)))
}
