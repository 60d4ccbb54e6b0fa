// Package sender performs outbound Telegram calls. Replies are delivered
// once and synchronously; failures are classified, logged and returned but
// never retried. Acknowledgements and chat actions go through a small
// queue so they never hold up a reply.
package sender

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/cityexplorer/core/logger"
	"github.com/m3rciful/cityexplorer/core/telegram/netutil"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrQueueClosed is returned when enqueue is attempted after dispatcher stop.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull indicates the queue is saturated and the job was not accepted.
	ErrQueueFull = errors.New("telegram sender: queue full")

	tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)
)

// Options controls the behaviour of the dispatcher.
type Options struct {
	QueueSize int
	Workers   int
	// Timeout, when positive, bounds a single call made through Do or
	// Enqueue. Zero leaves calls to the HTTP client's own timeout.
	Timeout time.Duration
}

type job struct {
	ctx    context.Context
	action string
	run    func(context.Context) error
}

// Dispatcher executes outbound Telegram calls.
type Dispatcher struct {
	opts Options
	jobs chan job
	stop chan struct{}
	mu   sync.RWMutex
	once sync.Once
	wg   sync.WaitGroup
	errs atomic.Uint64
	sent atomic.Uint64
}

// NewDispatcher starts a dispatcher, defaulting the queue size and worker
// count when they are zero.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}

	d := &Dispatcher{
		opts: opts,
		jobs: make(chan job, opts.QueueSize),
		stop: make(chan struct{}),
	}

	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}

	return d
}

// Do runs one outbound call synchronously. A failure is logged and
// returned to the caller; it is not retried.
func (d *Dispatcher) Do(ctx context.Context, action string, run func(context.Context) error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return d.execute(job{ctx: ctx, action: action, run: run})
}

// Enqueue schedules a fire-and-forget call. The caller's cancellation does
// not abort it; only the dispatcher timeout does.
func (d *Dispatcher) Enqueue(ctx context.Context, action string, run func(context.Context) error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	select {
	case <-d.stop:
		return ErrQueueClosed
	default:
	}

	select {
	case d.jobs <- job{ctx: context.WithoutCancel(ctx), action: action, run: run}:
		return nil
	default:
		logger.Warn(ctx, "tg.sender", "enqueue.full", sendLogAttrs(ctx, action)...)
		return ErrQueueFull
	}
}

// ErrorCount returns the number of failed calls.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.errs.Load()
}

// SentCount returns the number of successful calls.
func (d *Dispatcher) SentCount() uint64 {
	return d.sent.Load()
}

// Close stops workers and waits for them to finish processing queued jobs.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.mu.Lock()
		close(d.stop)
		close(d.jobs)
		d.mu.Unlock()
		d.wg.Wait()
	})
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		_ = d.execute(j)
	}
}

func (d *Dispatcher) execute(j job) error {
	ctx := j.ctx
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := j.run(ctx)
	if err != nil {
		d.errs.Add(1)
		logSendFailure(j.ctx, j.action, err, time.Since(start))
		return err
	}
	d.sent.Add(1)
	logger.Debug(j.ctx, "tg.sender", "send.success",
		append(sendLogAttrs(j.ctx, j.action),
			slog.Int("elapsed_ms", durationToMS(time.Since(start))),
		)...,
	)
	return nil
}

func sendLogAttrs(ctx context.Context, action string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("action", action),
	}
	if rid := logger.RIDFrom(ctx); rid != "" {
		attrs = append(attrs, slog.String("rid", rid))
	}
	if updateID := logger.UpdateIDFrom(ctx); updateID != 0 {
		attrs = append(attrs, slog.Int("update_id", updateID))
	}
	if chatID := logger.ChatIDFrom(ctx); chatID != 0 {
		attrs = append(attrs, slog.Int64("chat_id", chatID))
	}
	return attrs
}

func logSendFailure(ctx context.Context, action string, err error, elapsed time.Duration) {
	attrs := sendLogAttrs(ctx, action)
	attrs = append(attrs,
		slog.String("error", sanitizeErrorMessage(err)),
		slog.String("error_kind", classifyError(err)),
		slog.Bool("retryable", Retryable(err)),
		slog.Int("elapsed_ms", durationToMS(elapsed)),
	)
	logger.Error(ctx, "tg.sender", "send.fail", attrs...)
}

func durationToMS(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(logger.RoundMS(d) / time.Millisecond)
}

// Retryable reports whether err looks transient. It only informs logs.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if netutil.ShouldRetry(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	status := httpStatusFromError(err)
	return status == http.StatusTooManyRequests || status >= 500
}

// classifyError names the failure for logs: timeout, dns, dial, tls,
// rate_limited, http_4xx, http_5xx or unknown.
func classifyError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return "timeout"
		}
		return "dns"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	if netutil.Classify(err) == netutil.KindDial {
		return "dial"
	}
	var alertErr tls.AlertError
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &alertErr) || errors.As(err, &certErr) {
		return "tls"
	}

	switch status := httpStatusFromError(err); {
	case status == http.StatusTooManyRequests:
		return "rate_limited"
	case status >= 500:
		return "http_5xx"
	case status >= 400:
		return "http_4xx"
	}
	return "unknown"
}

// sanitizeErrorMessage prevents accidental leakage of Telegram bot tokens in logs.
func sanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot<redacted>")
}

// trailingCode matches telebot's "telegram: <desc> (<code>)" rendering.
var trailingCode = regexp.MustCompile(`\((\d{3})\)\s*$`)

func httpStatusFromError(err error) int {
	var apiErr *tele.Error
	var floodErr tele.FloodError
	var groupErr tele.GroupError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &apiErr):
		return apiErr.Code
	case errors.As(err, &floodErr):
		return http.StatusTooManyRequests
	case errors.As(err, &groupErr):
		return http.StatusBadRequest
	}
	if m := trailingCode.FindStringSubmatch(err.Error()); m != nil {
		code, _ := strconv.Atoi(m[1])
		return code
	}
	return 0
}
