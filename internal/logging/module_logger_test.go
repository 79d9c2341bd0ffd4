package logging

import (
	"context"
	"maps"
	"testing"

	"github.com/maboudharam/openbento/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, maps.Clone(fields))
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "openbento.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger.WithContext(context.Background()).Info("noop")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ExportLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != exportModule {
		t.Fatalf("expected module %s, got %v", exportModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != exportModule {
		t.Fatalf("expected module field %s, got %v", exportModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsEmptyName(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	ModuleLogger(provider, "  ")
	if provider.requested[0] != rootModule {
		t.Fatalf("expected root module, got %q", provider.requested[0])
	}
}

func TestWithExportContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	WithExportContext(rec, "abc", "", " My Bento ")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got[fieldExportID] != "abc" || got[fieldSiteName] != "My Bento" {
		t.Fatalf("unexpected fields %v", got)
	}
	if _, ok := got[fieldTarget]; ok {
		t.Fatalf("expected empty target to be skipped, got %v", got)
	}
}

func TestContextFieldsMergeAndCopy(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"a": 1})
	ctx = ContextWithFields(ctx, map[string]any{"b": 2})

	fields := ContextFields(ctx)
	if fields["a"] != 1 || fields["b"] != 2 {
		t.Fatalf("expected merged fields, got %v", fields)
	}
	fields["a"] = 99
	if ContextFields(ctx)["a"] != 1 {
		t.Fatal("expected ContextFields to return a copy")
	}
}
