package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/tettuan/frontmatter-to-schema/internal/schema"
	"github.com/tettuan/frontmatter-to-schema/pkg/interfaces"
)

func registryDefinition(t *testing.T, filter string) *schema.Definition {
	t.Helper()
	commands := map[string]any{
		"type":               "array",
		"x-frontmatter-part": true,
		"items":              map[string]any{"type": "object"},
	}
	if filter != "" {
		commands["x-jmespath-filter"] = filter
	}
	def, err := schema.ParseDefinition(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"version":  map[string]any{"type": "string"},
			"commands": commands,
		},
	})
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}
	return def
}

func commandDocument(frontmatter map[string]any) *interfaces.Document {
	return &interfaces.Document{
		FilePath:    "commands/meta.md",
		Frontmatter: frontmatter,
	}
}

func TestExtractSelectsPartRecords(t *testing.T) {
	extractor, err := New(registryDefinition(t, ""))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if extractor.PartPath() != "commands" {
		t.Fatalf("unexpected part path: %s", extractor.PartPath())
	}

	result, err := extractor.Extract(context.Background(), commandDocument(map[string]any{
		"commands": []any{
			map[string]any{"name": "meta"},
			map[string]any{"name": "spec"},
			"not a record",
		},
	}))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	if result.Records[0]["name"] != "meta" || result.Records[1]["name"] != "spec" {
		t.Fatalf("unexpected records: %v", result.Records)
	}
	if result.FromAnalyzer {
		t.Fatal("records came from front matter, not the analyzer")
	}
}

func TestExtractAppliesFilterDirective(t *testing.T) {
	extractor, err := New(registryDefinition(t, "[?kind == 'command']"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := extractor.Extract(context.Background(), commandDocument(map[string]any{
		"commands": []any{
			map[string]any{"name": "meta", "kind": "command"},
			map[string]any{"name": "draft", "kind": "note"},
		},
	}))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(result.Records) != 1 || result.Records[0]["name"] != "meta" {
		t.Fatalf("filter must keep only matching records: %v", result.Records)
	}
}

func TestExtractMissingPartWithoutAnalyzer(t *testing.T) {
	extractor, err := New(registryDefinition(t, ""))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := extractor.Extract(context.Background(), commandDocument(map[string]any{
		"title": "no commands here",
	}))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(result.Records) != 0 {
		t.Fatalf("expected empty extraction, got %v", result.Records)
	}
}

func TestExtractMissingPartFallsBackToAnalyzer(t *testing.T) {
	analyzer, err := NewRuleAnalyzer([]FieldRule{
		{Field: "name", Query: "title"},
		{Field: "description", Query: "summary"},
	})
	if err != nil {
		t.Fatalf("NewRuleAnalyzer: %v", err)
	}

	extractor, err := New(registryDefinition(t, ""), WithAnalyzer(analyzer))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := extractor.Extract(context.Background(), commandDocument(map[string]any{
		"title":   "meta",
		"summary": "metadata commands",
	}))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if !result.FromAnalyzer {
		t.Fatal("expected analyzer fallback")
	}
	if len(result.Records) != 1 || result.Records[0]["name"] != "meta" {
		t.Fatalf("unexpected analyzer records: %v", result.Records)
	}
}

func TestExtractPresentPartSkipsAnalyzer(t *testing.T) {
	extractor, err := New(registryDefinition(t, "[?kind == 'command']"), WithAnalyzer(failingAnalyzer{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// The part exists but the filter excludes everything; that is still not
	// an analyzer case.
	result, err := extractor.Extract(context.Background(), commandDocument(map[string]any{
		"commands": []any{map[string]any{"name": "draft", "kind": "note"}},
	}))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(result.Records) != 0 || result.FromAnalyzer {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestNewRejectsSchemaWithoutPart(t *testing.T) {
	def, err := schema.ParseDefinition(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"version": map[string]any{"type": "string"},
		},
	})
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}

	if _, err := New(def); !errors.Is(err, schema.ErrFrontmatterPartNotFound) {
		t.Fatalf("expected ErrFrontmatterPartNotFound, got %v", err)
	}
}

func TestNoopAnalyzer(t *testing.T) {
	info, err := NoopAnalyzer{}.Analyze(context.Background(), commandDocument(nil), nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(info.Records) != 0 {
		t.Fatalf("noop analyzer must not produce records: %v", info.Records)
	}
}

type failingAnalyzer struct{}

func (failingAnalyzer) Analyze(context.Context, *interfaces.Document, map[string]any) (*interfaces.ExtractedInfo, error) {
	return nil, errors.New("analyzer must not run")
}
