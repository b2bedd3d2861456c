package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/raysh454/apicli/internal/logging"
)

// Config enables New Relic reporting when License is set.
type Config struct {
	AppName string
	License string
	// ConnectTimeout bounds how long startup waits for the agent to connect.
	ConnectTimeout time.Duration
	// ShutdownTimeout bounds the final flush.
	ShutdownTimeout time.Duration
}

func (c Config) Enabled() bool { return c.License != "" }

// Telemetry wraps an optional New Relic application. The zero value and a
// nil *Telemetry are both valid and do nothing.
type Telemetry struct {
	app             *newrelic.Application
	shutdownTimeout time.Duration
	logger          logging.Logger
}

// Start connects the agent when cfg is enabled. Failure to start is logged and
// yields a disabled Telemetry; telemetry never blocks the request.
func Start(cfg Config, logger logging.Logger) *Telemetry {
	if logger == nil {
		logger = logging.Nop{}
	}
	logger = logger.With(logging.F("component", "telemetry"))
	t := &Telemetry{shutdownTimeout: cfg.ShutdownTimeout, logger: logger}
	if !cfg.Enabled() {
		return t
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.License),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		logger.Warn("telemetry disabled", logging.Err(err))
		return t
	}
	if cfg.ConnectTimeout > 0 {
		if err := app.WaitForConnection(cfg.ConnectTimeout); err != nil {
			logger.Warn("telemetry agent not connected yet", logging.Err(err))
		}
	}
	t.app = app
	logger.Debug("telemetry enabled", logging.F("app_name", cfg.AppName))
	return t
}

// Enabled reports whether an agent is running.
func (t *Telemetry) Enabled() bool { return t != nil && t.app != nil }

// WrapTransport instruments outbound requests as external segments of the
// transaction found in the request context.
func (t *Telemetry) WrapTransport(rt http.RoundTripper) http.RoundTripper {
	if !t.Enabled() {
		return rt
	}
	return newrelic.NewRoundTripper(rt)
}

// StartTransaction begins a transaction and stores it in the returned
// context. The returned func ends it, noticing err when non-nil.
func (t *Telemetry) StartTransaction(ctx context.Context, name string, attrs map[string]any) (context.Context, func(err error)) {
	if !t.Enabled() {
		return ctx, func(error) {}
	}
	txn := t.app.StartTransaction(name)
	for k, v := range attrs {
		txn.AddAttribute(k, v)
	}
	return newrelic.NewContext(ctx, txn), func(err error) {
		if err != nil {
			txn.NoticeError(err)
		}
		txn.End()
	}
}

// Shutdown flushes pending data.
func (t *Telemetry) Shutdown() {
	if !t.Enabled() {
		return
	}
	t.app.Shutdown(t.shutdownTimeout)
	t.logger.Debug("telemetry flushed")
}
