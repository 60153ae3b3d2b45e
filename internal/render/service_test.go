package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tettuan/frontmatter-to-schema/internal/templateir"
)

type fakeReader map[string]string

func (f fakeReader) Read(path string) (string, error) {
	text, ok := f[path]
	if !ok {
		return "", fmt.Errorf("open %s: no such file", path)
	}
	return text, nil
}

type captureWriter struct {
	path    string
	content string
	err     error
}

func (w *captureWriter) Write(path, content string) error {
	if w.err != nil {
		return w.err
	}
	w.path = path
	w.content = content
	return nil
}

func dualIR(t *testing.T, format templateir.OutputFormat, mainPath, itemsPath string) *templateir.IR {
	t.Helper()
	ir, err := templateir.NewBuilder().
		WithMainTemplate(mainPath).
		WithItemsTemplate(itemsPath).
		WithOutputFormat(format).
		WithMainContext(map[string]any{"version": "1.0.0", "title": "Command Registry"}).
		WithItemsArray([]map[string]any{
			{"name": "meta", "description": "metadata commands"},
			{"name": "spec", "description": "spec commands"},
		}).
		WithConfig(templateir.DualTemplate(mainPath, itemsPath)).
		WithMetadata(templateir.Metadata{Stage: "main-rendering"}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ir
}

func singleIR(t *testing.T, format templateir.OutputFormat, mainPath string) *templateir.IR {
	t.Helper()
	ir, err := templateir.NewBuilder().
		WithMainTemplate(mainPath).
		WithOutputFormat(format).
		WithMainContext(map[string]any{"title": "Command Registry"}).
		WithConfig(templateir.SingleTemplate(mainPath)).
		WithMetadata(templateir.Metadata{Stage: "main-rendering"}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ir
}

func TestRenderOutputSingleTemplate(t *testing.T) {
	reader := fakeReader{"templates/summary.md": "# {{title}}\n"}
	writer := &captureWriter{}
	svc := NewService(reader, writer)

	out, err := svc.RenderOutputFromIR(singleIR(t, templateir.FormatMarkdown, "templates/summary.md"), "out/summary.md")
	if err != nil {
		t.Fatalf("RenderOutputFromIR: %v", err)
	}

	if writer.path != "out/summary.md" {
		t.Fatalf("unexpected write path: %s", writer.path)
	}
	if writer.content != "# Command Registry\n" {
		t.Fatalf("unexpected content: %q", writer.content)
	}
	if out.Path != writer.path || out.Content != writer.content {
		t.Fatalf("rendered output must mirror the write: %+v", out)
	}
}

func TestRenderOutputDualTemplateJSON(t *testing.T) {
	reader := fakeReader{
		"templates/registry.json": `{"version": "{{version}}", "commands": {@items}}`,
		"templates/item.json":     `{"name": "{{name}}", "description": "{{description}}"}`,
	}
	writer := &captureWriter{}
	svc := NewService(reader, writer)

	_, err := svc.RenderOutputFromIR(dualIR(t, templateir.FormatJSON, "templates/registry.json", "templates/item.json"), "out/registry.json")
	if err != nil {
		t.Fatalf("RenderOutputFromIR: %v", err)
	}

	want := `{"version": "1.0.0", "commands": [{"name": "meta", "description": "metadata commands"}, {"name": "spec", "description": "spec commands"}]}`
	if writer.content != want {
		t.Fatalf("expected %s, got %s", want, writer.content)
	}
}

func TestRenderOutputDualTemplateMarkdown(t *testing.T) {
	reader := fakeReader{
		"templates/registry.md": "# {{title}}\n\n{@items}\n",
		"templates/item.md":     "## {{name}}\n- Description: {{description}}\n- Index: {{@index}}",
	}
	writer := &captureWriter{}
	svc := NewService(reader, writer)

	_, err := svc.RenderOutputFromIR(dualIR(t, templateir.FormatMarkdown, "templates/registry.md", "templates/item.md"), "out/registry.md")
	if err != nil {
		t.Fatalf("RenderOutputFromIR: %v", err)
	}

	want := "# Command Registry\n\n" +
		"## meta\n- Description: metadata commands\n- Index: 0\n\n" +
		"## spec\n- Description: spec commands\n- Index: 1\n"
	if writer.content != want {
		t.Fatalf("expected:\n%s\ngot:\n%s", want, writer.content)
	}
}

func TestRenderOutputNeverEmitsMarkers(t *testing.T) {
	reader := fakeReader{
		"templates/registry.md": "# {{title}}\n\n{@items}\n",
		"templates/item.md":     "## {{name}}",
	}
	writer := &captureWriter{}
	svc := NewService(reader, writer)

	_, err := svc.RenderOutputFromIR(dualIR(t, templateir.FormatMarkdown, "templates/registry.md", "templates/item.md"), "out/registry.md")
	if err != nil {
		t.Fatalf("RenderOutputFromIR: %v", err)
	}
	if strings.Contains(writer.content, ItemsMarker) || strings.Contains(writer.content, "{{") {
		t.Fatalf("output leaked template tokens: %q", writer.content)
	}
}

func TestRenderOutputMarkerWithoutItemsFails(t *testing.T) {
	reader := fakeReader{"templates/summary.md": "# {{title}}\n\n{@items}\n"}
	writer := &captureWriter{}
	svc := NewService(reader, writer)

	_, err := svc.RenderOutputFromIR(singleIR(t, templateir.FormatMarkdown, "templates/summary.md"), "out/summary.md")
	if !errors.Is(err, ErrItemsNotAvailable) {
		t.Fatalf("expected ErrItemsNotAvailable, got %v", err)
	}
	if writer.path != "" {
		t.Fatalf("nothing must be written on failure, wrote %s", writer.path)
	}
}

func TestRenderOutputDualWithoutMarkerFails(t *testing.T) {
	reader := fakeReader{
		"templates/registry.json": `{"version": "{{version}}"}`,
		"templates/item.json":     `{"name": "{{name}}"}`,
	}
	svc := NewService(reader, &captureWriter{})

	_, err := svc.RenderOutputFromIR(dualIR(t, templateir.FormatJSON, "templates/registry.json", "templates/item.json"), "out/registry.json")
	if !errors.Is(err, ErrItemsNotAvailable) {
		t.Fatalf("expected ErrItemsNotAvailable, got %v", err)
	}
}

func TestRenderOutputItemTemplateCannotExpandItems(t *testing.T) {
	reader := fakeReader{
		"templates/registry.md": "{@items}",
		"templates/item.md":     "## {{name}}\n{@items}",
	}
	svc := NewService(reader, &captureWriter{})

	_, err := svc.RenderOutputFromIR(dualIR(t, templateir.FormatMarkdown, "templates/registry.md", "templates/item.md"), "out/registry.md")
	if !errors.Is(err, ErrItemsNotAvailable) {
		t.Fatalf("expected recursive expansion to fail, got %v", err)
	}
}

func TestRenderOutputUnresolvedItemPlaceholder(t *testing.T) {
	reader := fakeReader{
		"templates/registry.md": "{@items}",
		"templates/item.md":     "## {{name}} ({{missing}})",
	}
	svc := NewService(reader, &captureWriter{})

	_, err := svc.RenderOutputFromIR(dualIR(t, templateir.FormatMarkdown, "templates/registry.md", "templates/item.md"), "out/registry.md")
	if !errors.Is(err, ErrUnresolvedPlaceholder) {
		t.Fatalf("expected ErrUnresolvedPlaceholder, got %v", err)
	}
}

func TestRenderOutputMissingTemplateCarriesPath(t *testing.T) {
	svc := NewService(fakeReader{}, &captureWriter{})

	_, err := svc.RenderOutputFromIR(singleIR(t, templateir.FormatMarkdown, "templates/absent.md"), "out/summary.md")
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "templates/absent.md") {
		t.Fatalf("error must include the failing path: %v", err)
	}
}

func TestRenderOutputWriteFailure(t *testing.T) {
	reader := fakeReader{"templates/summary.md": "# {{title}}\n"}
	writer := &captureWriter{err: errors.New("disk full")}
	svc := NewService(reader, writer)

	_, err := svc.RenderOutputFromIR(singleIR(t, templateir.FormatMarkdown, "templates/summary.md"), "out/summary.md")
	if err == nil || !strings.Contains(err.Error(), "out/summary.md") {
		t.Fatalf("expected write error carrying the path, got %v", err)
	}
}
