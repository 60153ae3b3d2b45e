package logging

import (
	"context"
	"strings"

	"github.com/tettuan/frontmatter-to-schema/pkg/interfaces"
)

const (
	rootModule      = "f2s"
	schemaModule    = "f2s.schema"
	aggregateModule = "f2s.aggregate"
	renderModule    = "f2s.render"
	markdownModule  = "f2s.markdown"
	pipelineModule  = "f2s.pipeline"
)

const (
	fieldDocumentPath = "document_path"
	fieldOutputPath   = "output_path"
	fieldRunID        = "run_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// SchemaLogger returns the logger namespace reserved for schema parsing.
func SchemaLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, schemaModule)
}

// AggregateLogger returns the logger namespace reserved for aggregation.
func AggregateLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, aggregateModule)
}

// RenderLogger returns the logger namespace reserved for template rendering.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// MarkdownLogger returns the logger namespace reserved for document loading.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// PipelineLogger returns the logger namespace reserved for pipeline runs.
func PipelineLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pipelineModule)
}

// WithRunContext enriches the provided logger with common pipeline fields
// such as run ID, source document, and output path. Empty values are ignored.
func WithRunContext(logger interfaces.Logger, runID, documentPath, outputPath string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(runID); trimmed != "" {
		fields[fieldRunID] = trimmed
	}
	if trimmed := strings.TrimSpace(documentPath); trimmed != "" {
		fields[fieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(outputPath); trimmed != "" {
		fields[fieldOutputPath] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
