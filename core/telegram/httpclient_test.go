package telegram

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyTransport struct {
	calls int
	fails int
	err   error
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= f.fails {
		if f.err != nil {
			return nil, f.err
		}
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	}
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: req}, nil
}

func apiRequest(t *testing.T, ctx context.Context, method string) *http.Request {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.telegram.org/bot1:x/"+method, strings.NewReader("{}"))
	require.NoError(t, err)
	return req
}

func TestRetryTransportRetriesPolling(t *testing.T) {
	base := &flakyTransport{fails: 2}
	rt := &retryTransport{base: base, maxRetries: 3}

	resp, err := rt.RoundTrip(apiRequest(t, context.Background(), "getUpdates"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, base.calls)
}

func TestRetryTransportGivesUp(t *testing.T) {
	base := &flakyTransport{fails: 10}
	rt := &retryTransport{base: base, maxRetries: 2}

	_, err := rt.RoundTrip(apiRequest(t, context.Background(), "getMe"))
	require.Error(t, err)
	assert.Equal(t, 3, base.calls)
}

func TestRetryTransportNeverRepeatsDelivery(t *testing.T) {
	for _, method := range []string{"sendMessage", "editMessageText", "answerCallbackQuery"} {
		base := &flakyTransport{fails: 1}
		rt := &retryTransport{base: base, maxRetries: 3}
		_, err := rt.RoundTrip(apiRequest(t, context.Background(), method))
		require.Error(t, err, method)
		assert.Equal(t, 1, base.calls, method)
	}
}

func TestRetryTransportSkipsPermanentErrors(t *testing.T) {
	base := &flakyTransport{fails: 1, err: errors.New("malformed response")}
	rt := &retryTransport{base: base, maxRetries: 3}

	_, err := rt.RoundTrip(apiRequest(t, context.Background(), "getUpdates"))
	require.Error(t, err)
	assert.Equal(t, 1, base.calls)
}

func TestRetryTransportStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	base := &flakyTransport{fails: 10}
	rt := &retryTransport{base: base, maxRetries: 3, backoff: time.Hour}

	_, err := rt.RoundTrip(apiRequest(t, ctx, "getUpdates"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, base.calls)
}

func TestBuildHTTPClient(t *testing.T) {
	c := BuildHTTPClient()
	assert.Equal(t, defaultClientTimeout, c.Timeout)
	rt, ok := c.Transport.(*retryTransport)
	require.True(t, ok)
	assert.Equal(t, defaultRetryAttempts, rt.maxRetries)
}
