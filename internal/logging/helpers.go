package logging

import (
	"context"
	"maps"

	"github.com/maboudharam/openbento/pkg/interfaces"
)

// WithFields returns logger carrying a private copy of fields. Loggers
// without field support get them through WithContext instead, so the fields
// still reach providers that read ContextFields.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fl, ok := logger.(interfaces.FieldsLogger); ok {
		return fl.WithFields(maps.Clone(fields))
	}
	return logger.WithContext(ContextWithFields(context.Background(), fields))
}
