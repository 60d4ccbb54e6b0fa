package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/cityexplorer/core/logger"
	tghelpers "github.com/m3rciful/cityexplorer/core/telegram/helpers"
)

func newContext(t *testing.T, upd tele.Update) tele.Context {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)
	return b.NewContext(upd)
}

func chain(h tele.HandlerFunc) tele.HandlerFunc {
	return RecoverMiddleware(LoggerMiddleware(MessageMetricsMiddleware(h)))
}

func TestChainBuildsRequestContext(t *testing.T) {
	c := newContext(t, tele.Update{ID: 5, Message: &tele.Message{
		Text:   "hello",
		Chat:   &tele.Chat{ID: 42, Type: tele.ChatPrivate},
		Sender: &tele.User{ID: 9},
	}})

	var got context.Context
	err := chain(func(c tele.Context) error {
		got = tghelpers.BuildContext(c)
		CountSent(got, true)
		CountSent(got, false)
		return nil
	})(c)
	require.NoError(t, err)

	assert.Equal(t, 5, logger.UpdateIDFrom(got))
	assert.Equal(t, int64(42), logger.ChatIDFrom(got))
	assert.Equal(t, int64(9), logger.UserIDFrom(got))
	assert.NotEmpty(t, logger.RIDFrom(got))

	msgs, kb := GetCounters(c)
	assert.Equal(t, 2, msgs)
	assert.True(t, kb)
}

func TestRecoverSwallowsPanics(t *testing.T) {
	c := newContext(t, tele.Update{Message: &tele.Message{Chat: &tele.Chat{ID: 1}}})
	err := chain(func(tele.Context) error { panic("boom") })(c)
	assert.NoError(t, err)
}

func TestCountersWithoutMiddleware(t *testing.T) {
	c := newContext(t, tele.Update{})
	CountSent(context.Background(), true)
	msgs, kb := GetCounters(c)
	assert.Zero(t, msgs)
	assert.False(t, kb)
}

func TestUpdateKind(t *testing.T) {
	assert.Equal(t, "callback", updateKind(tele.Update{Callback: &tele.Callback{}}))
	assert.Equal(t, "edited_message", updateKind(tele.Update{EditedMessage: &tele.Message{}}))
	assert.Equal(t, "message", updateKind(tele.Update{Message: &tele.Message{}}))
	assert.Equal(t, "other", updateKind(tele.Update{}))
}
