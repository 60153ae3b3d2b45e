package logging

import (
	"context"
	"testing"

	"github.com/tettuan/frontmatter-to-schema/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	if fields == nil {
		fields = map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
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
	logger := ModuleLogger(nil, "f2s.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	// Ensure the no-op implementation absorbs calls without panicking.
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	logger := ModuleLogger(provider, aggregateModule)

	if len(provider.requested) != 1 || provider.requested[0] != aggregateModule {
		t.Fatalf("expected module %s, got %v", aggregateModule, provider.requested)
	}

	if len(rec.fields) != 1 {
		t.Fatalf("expected module fields to be applied once, got %d", len(rec.fields))
	}

	if got, ok := rec.fields[0]["module"]; !ok || got != aggregateModule {
		t.Fatalf("expected module field %s, got %v", aggregateModule, rec.fields[0]["module"])
	}

	logger.Info("with provider")
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if len(provider.requested) != 1 || provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
	if rec.fields[0]["module"] != rootModule {
		t.Fatalf("expected module field %s, got %v", rootModule, rec.fields[0]["module"])
	}
}

func TestScopedLoggersRequestTheirModules(t *testing.T) {
	cases := []struct {
		name   string
		invoke func(interfaces.LoggerProvider) interfaces.Logger
		module string
	}{
		{"schema", SchemaLogger, schemaModule},
		{"aggregate", AggregateLogger, aggregateModule},
		{"render", RenderLogger, renderModule},
		{"markdown", MarkdownLogger, markdownModule},
		{"pipeline", PipelineLogger, pipelineModule},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &stubProvider{logger: &recordingLogger{}}
			_ = tc.invoke(provider)
			if len(provider.requested) == 0 || provider.requested[0] != tc.module {
				t.Fatalf("expected %s module request, got %v", tc.module, provider.requested)
			}
		})
	}
}

func TestWithRunContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	_ = WithRunContext(rec, "run-1", "", "out/registry.json")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one fields application, got %d", len(rec.fields))
	}
	fields := rec.fields[0]
	if fields[fieldRunID] != "run-1" {
		t.Fatalf("expected run id field, got %v", fields)
	}
	if _, ok := fields[fieldDocumentPath]; ok {
		t.Fatalf("empty document path must be skipped, got %v", fields)
	}
	if fields[fieldOutputPath] != "out/registry.json" {
		t.Fatalf("expected output path field, got %v", fields)
	}
}
