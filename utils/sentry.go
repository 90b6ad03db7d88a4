package utils

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/moneybridge/moneybridge/config"
)

var sentryEnabled bool

// InitSentry configures error reporting. An empty DSN leaves reporting off.
func InitSentry(cfg config.AppConfig) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.GinMode,
		ServerName:  cfg.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	sentryEnabled = true
	return nil
}

// CaptureError reports err with the given tags.
func CaptureError(err error, tags map[string]string) {
	if !sentryEnabled || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// CapturePanic reports a recovered panic value.
func CapturePanic(v interface{}) {
	if !sentryEnabled {
		return
	}
	sentry.CurrentHub().Recover(v)
}

// FlushSentry waits for buffered events to be sent.
func FlushSentry() {
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}
