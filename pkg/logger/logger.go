// Package logger builds the structured logger shared by the engine, the
// server, the kvs-server entry point, and the ignite facade. Every
// component takes a *zap.SugaredLogger rather than constructing its own, so
// log output stays consistent and a single process can route everything to
// one sink.
package logger

import "go.uber.org/zap"

// New builds a *zap.SugaredLogger tagged with the given service name.
// In dev mode it uses zap's human-readable console encoder; otherwise it
// uses the production JSON encoder suited for log aggregation.
func New(service string, dev bool) *zap.SugaredLogger {
	var cfg zap.Config
	if dev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	base, err := cfg.Build()
	if err != nil {
		// Falling back to zap's no-op logger keeps callers from having to
		// handle a logger construction error on every startup path; losing
		// log output is preferable to refusing to start the store.
		base = zap.NewNop()
	}

	return base.Sugar().With("service", service)
}
