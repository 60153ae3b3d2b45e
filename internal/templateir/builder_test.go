package templateir

import (
	"reflect"
	"testing"
)

func validDualBuilder() *Builder {
	return NewBuilder().
		WithMainTemplate("templates/registry.json").
		WithItemsTemplate("templates/item.json").
		WithOutputFormat(FormatJSON).
		WithMainContext(map[string]any{"version": "1.0.0"}).
		WithItemsArray([]map[string]any{{"name": "meta"}, {"name": "spec"}}).
		WithConfig(DualTemplate("templates/registry.json", "templates/item.json")).
		WithMetadata(Metadata{Stage: "main-rendering", SchemaPath: "schema/registry.json", SourceFiles: []string{"a.md", "b.md"}})
}

func TestBuildDualTemplate(t *testing.T) {
	ir, err := validDualBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if ir.MainTemplatePath() != "templates/registry.json" {
		t.Fatalf("unexpected main template: %s", ir.MainTemplatePath())
	}
	if ir.ItemsTemplatePath() != "templates/item.json" {
		t.Fatalf("unexpected items template: %s", ir.ItemsTemplatePath())
	}
	if !ir.HasItems() || len(ir.ItemsArray()) != 2 {
		t.Fatalf("expected two items, got %v", ir.ItemsArray())
	}
	if ir.Config().Kind() != KindDualTemplate {
		t.Fatalf("unexpected config kind: %s", ir.Config().Kind())
	}
	meta := ir.Metadata()
	if meta.Stage != "main-rendering" || meta.SchemaPath != "schema/registry.json" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if !reflect.DeepEqual(meta.SourceFiles, []string{"a.md", "b.md"}) {
		t.Fatalf("unexpected source files: %v", meta.SourceFiles)
	}
}

func TestBuildSingleTemplate(t *testing.T) {
	ir, err := NewBuilder().
		WithMainTemplate("templates/summary.md").
		WithOutputFormat(FormatMarkdown).
		WithMainContext(map[string]any{"title": "Registry"}).
		WithConfig(SingleTemplate("templates/summary.md")).
		WithMetadata(Metadata{Stage: "main-rendering"}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if ir.HasItems() {
		t.Fatalf("single template job must not carry items")
	}
	if ir.ItemsTemplatePath() != "" {
		t.Fatalf("unexpected items template: %s", ir.ItemsTemplatePath())
	}
}

func TestBuildValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Builder) *Builder
		message string
	}{
		{
			"missing main template",
			func(b *Builder) *Builder { return b.WithMainTemplate("") },
			"main template path is required",
		},
		{
			"unknown output format",
			func(b *Builder) *Builder { return b.WithOutputFormat("xml") },
			"output format must be json, yaml, or markdown",
		},
		{
			"missing stage",
			func(b *Builder) *Builder { return b.WithMetadata(Metadata{}) },
			"metadata stage is required",
		},
		{
			"items template without items array",
			func(b *Builder) *Builder { return b.WithItemsArray(nil) },
			"items template path and items array must be set together",
		},
		{
			"items array without items template",
			func(b *Builder) *Builder { return b.WithItemsTemplate("") },
			"items template path and items array must be set together",
		},
		{
			"single forbids items",
			func(b *Builder) *Builder {
				return b.WithConfig(SingleTemplate("templates/registry.json"))
			},
			"SingleTemplate configuration forbids items template and items array",
		},
		{
			"dual requires items",
			func(b *Builder) *Builder {
				return b.WithItemsTemplate("").WithItemsArray(nil)
			},
			"DualTemplate configuration requires items template and items array",
		},
		{
			"missing config",
			func(b *Builder) *Builder {
				return b.WithItemsTemplate("").WithItemsArray(nil).WithConfig(TemplateConfig{})
			},
			"template configuration is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.mutate(validDualBuilder()).Build()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if err.Error() != tc.message {
				t.Fatalf("expected %q, got %q", tc.message, err.Error())
			}
		})
	}
}

func TestBuildEmptyItemsArrayIsStillPresent(t *testing.T) {
	ir, err := validDualBuilder().WithItemsArray([]map[string]any{}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !ir.HasItems() {
		t.Fatalf("empty items array must still count as present")
	}
	if len(ir.ItemsArray()) != 0 {
		t.Fatalf("expected zero items, got %v", ir.ItemsArray())
	}
}

func TestVariableMappingOrderPreserved(t *testing.T) {
	ir, err := validDualBuilder().
		AddVariableMapping("version", "version").
		AddVariableMapping("configs", "tools.availableConfigs").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	mappings := ir.VariableMappings()
	if len(mappings) != 2 {
		t.Fatalf("expected two mappings, got %d", len(mappings))
	}
	if mappings[0].Name != "version" || mappings[1].Name != "configs" {
		t.Fatalf("mapping order not preserved: %v", mappings)
	}
}

func TestIRMetadataCopyIsIndependent(t *testing.T) {
	ir, err := validDualBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	meta := ir.Metadata()
	meta.SourceFiles[0] = "mutated.md"
	if ir.Metadata().SourceFiles[0] != "a.md" {
		t.Fatalf("metadata copy must not alias the IR's source files")
	}
}
