package util

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type leveledSlog struct {
	inner *slog.Logger
}

// re-writes HTTP client ERROR to WARN level (because of retries)
func (l leveledSlog) Error(msg string, keysAndValues ...interface{}) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Warn(msg string, keysAndValues ...interface{}) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Info(msg string, keysAndValues ...interface{}) {
	l.inner.Info(msg, keysAndValues...)
}

func (l leveledSlog) Debug(msg string, keysAndValues ...interface{}) {
	l.inner.Debug(msg, keysAndValues...)
}

// RetryingHTTPClient generates an HTTP client with retry behavior suitable
// for idempotent requests. The returned client has the stdlib http.Client
// interface, but has Hashicorp retryablehttp logic internally.
//
// This client will retry on connection errors, 5xx status (except 501), and
// 429 Backoff responses (respecting the 'Retry-After' header). It will log
// intermediate failures with WARN level.
//
// The timeout bounds each response individually, not the whole retry chain;
// callers bound the overall call with a context deadline. Setting it on the
// returned standard client instead would cut the chain off at the first
// timeout and leave the retry budget unspendable.
//
// Do not use this for non-idempotent requests; use PlainHTTPClient instead.
func RetryingHTTPClient(maxRetries int, timeout time.Duration) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = maxRetries
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.HTTPClient.Timeout = timeout
	retryClient.Logger = retryablehttp.LeveledLogger(leveledSlog{slog.Default().With("subsystem", "http")})
	return retryClient.StandardClient()
}

// PlainHTTPClient returns a client with the given per-response timeout and no
// retry behavior, for requests that must be sent at most once.
func PlainHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}
