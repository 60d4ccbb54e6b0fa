package router

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/cityexplorer/core/telegram"
	"github.com/m3rciful/cityexplorer/core/telegram/commands"
)

func newContext(t *testing.T, upd tele.Update) tele.Context {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)
	return b.NewContext(upd)
}

func textContext(t *testing.T, text string) tele.Context {
	return newContext(t, tele.Update{Message: &tele.Message{Text: text, Chat: &tele.Chat{ID: 1}}})
}

func TestCommandRoutesIncludeAliases(t *testing.T) {
	reg := tg.NewRegistry()
	require.NoError(t, reg.RegisterCommand("/menu", commands.Command{
		Handler:     func(tele.Context) error { return errors.New("ignored") },
		Description: "Menu",
		Aliases:     []string{"Categories"},
	}))

	routes := CommandRoutes(reg)
	require.Len(t, routes, 2)
	endpoints := []any{routes[0].Endpoint, routes[1].Endpoint}
	assert.ElementsMatch(t, []any{"/menu", "/categories"}, endpoints)

	// handler errors never reach telebot
	assert.NoError(t, routes[0].Handler(textContext(t, "/menu")))
}

func TestTextRouteDispatch(t *testing.T) {
	reg := tg.NewRegistry()
	var got []string
	require.NoError(t, reg.RegisterCommand("/help", commands.Command{
		Handler:     func(tele.Context) error { got = append(got, "help"); return nil },
		Description: "Help",
	}))
	reg.SetTextFallback(func(c tele.Context) error { got = append(got, "text:"+c.Text()); return nil })

	h := TextRoutes(reg, TextOptions{})[0].Handler
	for _, text := range []string{"/HELP", "/help@OtherBot", "/nope", "museums"} {
		require.NoError(t, h(textContext(t, text)))
	}
	assert.Equal(t, []string{"help", "help", "text:/nope", "text:museums"}, got)
}

func TestTextRouteWithoutFallback(t *testing.T) {
	var called bool
	h := TextRoutes(nil, TextOptions{UnknownText: func(tele.Context) error { called = true; return nil }})[0].Handler
	require.NoError(t, h(textContext(t, "hi")))
	assert.True(t, called)

	h = TextRoutes(nil, TextOptions{})[0].Handler
	assert.NoError(t, h(textContext(t, "hi")))
}

func TestCallbackRoute(t *testing.T) {
	reg := tg.NewRegistry()
	var got []string
	require.NoError(t, reg.RegisterCallback("help", func(tele.Context) error { got = append(got, "help"); return nil }))
	reg.SetCallbackNotFound(func(c tele.Context) error { got = append(got, "fallback:"+c.Callback().Data); return nil })

	route := CallbackRoute(reg, CallbackOptions{})
	assert.Equal(t, tele.OnCallback, route.Endpoint)

	for _, data := range []string{"help", "bogus"} {
		c := newContext(t, tele.Update{Callback: &tele.Callback{ID: "1", Data: data}})
		require.NoError(t, route.Handler(c))
	}
	assert.Equal(t, []string{"help", "fallback:bogus"}, got)

	assert.NoError(t, route.Handler(textContext(t, "not a callback")))
}

func TestEditedRouteIgnores(t *testing.T) {
	route := EditedRoute()
	assert.Equal(t, tele.OnEdited, route.Endpoint)
	c := newContext(t, tele.Update{EditedMessage: &tele.Message{Text: "fixed typo", Chat: &tele.Chat{ID: 1}}})
	assert.NoError(t, route.Handler(c))
}

func TestNonTextRoutes(t *testing.T) {
	assert.Nil(t, NonTextRoutes(nil))

	b, err := tele.NewBot(tele.Settings{Offline: true, Synchronous: true})
	require.NoError(t, err)
	var got []int64
	for _, route := range NonTextRoutes(func(c tele.Context) error {
		got = append(got, c.Chat().ID)
		return errors.New("delivery failed")
	}) {
		b.Handle(route.Endpoint, route.Handler)
	}

	chat := &tele.Chat{ID: 7}
	for _, msg := range []*tele.Message{
		{Chat: chat, Photo: &tele.Photo{}},
		{Chat: chat, Sticker: &tele.Sticker{}},
		{Chat: chat, Voice: &tele.Voice{}},
		{Chat: chat, Location: &tele.Location{Lat: 28.6, Lng: 77.2}},
	} {
		b.ProcessUpdate(tele.Update{Message: msg})
	}
	assert.Equal(t, []int64{7, 7, 7, 7}, got)
}

func TestCommandWord(t *testing.T) {
	cases := map[string]string{
		"/Start":           "/start",
		"/menu@CityBot x":  "/menu",
		"  /help  please ": "/help",
	}
	for in, want := range cases {
		got, ok := commandWord(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"hello", "/", ""} {
		_, ok := commandWord(in)
		assert.False(t, ok, in)
	}
}

func TestDeriveErrorCode(t *testing.T) {
	assert.Empty(t, deriveErrorCode(nil))
	assert.Equal(t, "ERRORSTRING", deriveErrorCode(errors.New("x")))
	assert.Equal(t, "ERROR", deriveErrorCode(&tele.Error{Code: 400}))
	assert.Equal(t, "RATE_LIMITED", deriveErrorCode(fmt.Errorf("send: %w", codedErr("rate limited"))))
}

type codedErr string

func (e codedErr) Error() string { return string(e) }
func (e codedErr) Code() string  { return string(e) }

func TestNormalizeHandlerName(t *testing.T) {
	assert.Equal(t, "start", normalizeHandlerName("/Start"))
	assert.Equal(t, "main_menu", normalizeHandlerName(" Main Menu "))
	assert.Equal(t, "unknown", normalizeHandlerName("/"))
}
