package telegram

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"path"
	"time"

	"github.com/m3rciful/cityexplorer/core/logger"
	"github.com/m3rciful/cityexplorer/core/telegram/netutil"
)

const (
	defaultClientTimeout = 75 * time.Second
	defaultRetryAttempts = 3
	defaultRetryBackoff  = 2 * time.Second
)

// idempotentMethods may be repeated after a transient failure. Delivery
// methods are absent: a failed send is reported once and never repeated.
var idempotentMethods = map[string]bool{
	"getMe":         true,
	"getUpdates":    true,
	"setWebhook":    true,
	"deleteWebhook": true,
	"setMyCommands": true,
}

// BuildHTTPClient returns the client used for every Bot API call. Its
// timeout leaves room for a full long-poll cycle.
func BuildHTTPClient() *http.Client {
	dialer := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout:   defaultClientTimeout,
		Transport: &retryTransport{base: base, maxRetries: defaultRetryAttempts, backoff: defaultRetryBackoff},
	}
}

// retryTransport repeats idempotent Bot API calls on transient network
// errors with linear backoff.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) attempts(req *http.Request) int {
	if idempotentMethods[path.Base(req.URL.Path)] {
		return t.maxRetries + 1
	}
	return 1
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	method := path.Base(req.URL.Path)
	limit := t.attempts(req)

	resp, err := base.RoundTrip(req)
	for attempt := 2; err != nil && attempt <= limit; attempt++ {
		kind := netutil.Classify(err)
		if kind == netutil.KindNone {
			break
		}
		logger.Debug(req.Context(), "tg.http", "http.retry",
			slog.String("method", method),
			slog.Int("attempt", attempt),
			slog.String("kind", string(kind)),
		)
		if werr := sleepCtx(req.Context(), t.backoff*time.Duration(attempt-1)); werr != nil {
			return nil, werr
		}
		next, rerr := rewind(req)
		if rerr != nil {
			return nil, err
		}
		resp, err = base.RoundTrip(next)
	}
	return resp, err
}

// rewind clones req with a fresh body so it can be sent again.
func rewind(req *http.Request) (*http.Request, error) {
	next := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return next, nil
	}
	if req.GetBody == nil {
		return nil, http.ErrBodyNotAllowed
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	next.Body = body
	return next, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
