// Package errtrack reports unexpected failures to Sentry. Every function is a
// no-op until Init has succeeded with a DSN.
package errtrack

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
)

// Tracker wraps the Sentry client for one process
type Tracker struct {
	enabled bool
}

// Init configures Sentry. An empty dsn returns a disabled tracker.
func Init(dsn, environment, release string) (*Tracker, error) {
	if dsn == "" {
		return &Tracker{}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release,
		AttachStacktrace: true,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			if event.Request != nil {
				delete(event.Request.Headers, "Authorization")
				delete(event.Request.Headers, "Cookie")
			}
			return event
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}
	return &Tracker{enabled: true}, nil
}

// Enabled reports whether events are sent
func (t *Tracker) Enabled() bool {
	return t != nil && t.enabled
}

// Middleware captures panics, re-panicking so chi's Recoverer still answers
func (t *Tracker) Middleware() func(http.Handler) http.Handler {
	if !t.Enabled() {
		return func(next http.Handler) http.Handler { return next }
	}
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle
}

// CaptureError reports err on the request's hub when there is one
func (t *Tracker) CaptureError(ctx context.Context, err error) {
	if !t.Enabled() || err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}

// Flush waits for buffered events to be delivered
func (t *Tracker) Flush(timeout time.Duration) {
	if !t.Enabled() {
		return
	}
	sentry.Flush(timeout)
}
