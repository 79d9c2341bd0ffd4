package commands

import (
	"context"
	"time"

	"github.com/maboudharam/openbento/internal/logging"
	"github.com/maboudharam/openbento/pkg/interfaces"
)

// DefaultCommandTimeout bounds one command run. Transcoding large embedded
// images dominates an export.
const DefaultCommandTimeout = 30 * time.Second

// commandContext bounds ctx by timeout. A nil ctx means context.Background and
// a non-positive timeout leaves the context unbounded.
func commandContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureLogger returns logger, or the no-op logger when it is nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
