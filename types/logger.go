package types

// Logger is the structured logger of solvers, phases and publishers.
//
// Messages take alternating key-value pairs, so *zap.SugaredLogger
// satisfies it directly; log/slog and zap adapters live in
// internal/logging.
//
// Deciders log every evaluated move at Debug. Run at Info or above unless
// tracing a single search.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)

	// Fatal logs and exits the process. Nothing in this module calls it;
	// broken search state is returned from Solve as an error instead.
	Fatal(msg string, keysAndValues ...any)
}
