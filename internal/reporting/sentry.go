package reporting

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Belphemur/MediaFinder/internal/config"
)

// flushTimeout bounds how long Flush waits for queued events.
const flushTimeout = 2 * time.Second

// SentryReporter sends unexpected dialogue failures to Sentry.
type SentryReporter struct {
	hub *sentry.Hub
}

// Init configures the Sentry client from cfg. It returns nil when no DSN is
// configured.
func Init(cfg *config.Config, release string) (*SentryReporter, error) {
	if cfg.Sentry.DSN == "" {
		return nil, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     release,
	})
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger()
	logger.Info().Str("environment", cfg.Sentry.Environment).Msg("Sentry error reporting enabled")
	return &SentryReporter{hub: sentry.CurrentHub()}, nil
}

// NewSentryReporter wraps an existing hub.
func NewSentryReporter(hub *sentry.Hub) *SentryReporter {
	return &SentryReporter{hub: hub}
}

// Report captures err with tags on a cloned hub.
func (r *SentryReporter) Report(_ context.Context, err error, tags map[string]string) {
	if r == nil || err == nil {
		return
	}
	hub := r.hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}

// Flush waits for buffered events to be sent.
func (r *SentryReporter) Flush() {
	if r == nil {
		return
	}
	r.hub.Flush(flushTimeout)
}
