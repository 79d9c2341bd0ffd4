package interfaces

import "context"

// Logger is the leveled contract exporter stages log through. Arguments are
// alternating key/value pairs. There is no fatal level: exporter failures are
// returned, never turned into process exits.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out one logger per module name (openbento.assets,
// openbento.export, ...).
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that carry export-scoped fields such
// as export_id and target on every entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
