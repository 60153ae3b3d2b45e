package markdown

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

const commandDoc = `---
title: Meta Commands
req:
  name: meta
  description: metadata commands
tags:
  - registry
---
# Meta

Runs metadata extraction.
`

func testFS() fstest.MapFS {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return fstest.MapFS{
		"commands/meta.md":   {Data: []byte(commandDoc), ModTime: now},
		"commands/spec.md":   {Data: []byte("---\ntitle: Spec\n---\nbody\n"), ModTime: now},
		"commands/notes.txt": {Data: []byte("not markdown"), ModTime: now},
		"nested/deep/x.md":   {Data: []byte("---\ntitle: Deep\n---\n"), ModTime: now},
	}
}

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	cfg.BasePath = "."
	svc, err := NewService(cfg, nil, WithFilesystem(testFS()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestParseFrontmatterKeepsArbitraryShape(t *testing.T) {
	dataset, body, err := ParseFrontmatter([]byte(commandDoc))
	if err != nil {
		t.Fatalf("ParseFrontmatter: %v", err)
	}

	if dataset["title"] != "Meta Commands" {
		t.Fatalf("unexpected title: %v", dataset["title"])
	}
	req, ok := dataset["req"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested req object, got %T", dataset["req"])
	}
	if req["name"] != "meta" {
		t.Fatalf("unexpected req.name: %v", req["name"])
	}
	if !strings.HasPrefix(strings.TrimSpace(string(body)), "# Meta") {
		t.Fatalf("body must exclude delimiters: %q", body)
	}
}

func TestParseFrontmatterNormalizesNestedMappings(t *testing.T) {
	source := []byte(`---
tools:
  commands:
    - c1: meta
      flags:
        verbose: true
    - c1: spec
---
body
`)
	dataset, _, err := ParseFrontmatter(source)
	if err != nil {
		t.Fatalf("ParseFrontmatter: %v", err)
	}

	tools, ok := dataset["tools"].(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any at tools, got %T", dataset["tools"])
	}
	commands, ok := tools["commands"].([]any)
	if !ok || len(commands) != 2 {
		t.Fatalf("expected 2 commands, got %T %v", tools["commands"], tools["commands"])
	}
	first, ok := commands[0].(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any inside array, got %T", commands[0])
	}
	if first["c1"] != "meta" {
		t.Fatalf("unexpected element: %v", first)
	}
	if _, ok := first["flags"].(map[string]any); !ok {
		t.Fatalf("expected map[string]any two levels down, got %T", first["flags"])
	}
}

func TestLoadPopulatesChecksumAndDataset(t *testing.T) {
	svc := newTestService(t, Config{})

	doc, err := svc.Load(context.Background(), "commands/meta.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(doc.Checksum) != 32 {
		t.Fatalf("expected sha256 checksum, got %d bytes", len(doc.Checksum))
	}
	dataset := doc.Dataset()
	if dataset["title"] != "Meta Commands" {
		t.Fatalf("dataset missing frontmatter: %v", dataset)
	}
	if _, ok := dataset["body"]; !ok {
		t.Fatal("dataset must expose the body")
	}
}

func TestLoadDirectorySortedAndFiltered(t *testing.T) {
	svc := newTestService(t, Config{Recursive: true})

	docs, err := svc.LoadDirectory(context.Background(), ".")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("expected 3 markdown documents, got %d", len(docs))
	}
	paths := []string{docs[0].FilePath, docs[1].FilePath, docs[2].FilePath}
	want := []string{"commands/meta.md", "commands/spec.md", "nested/deep/x.md"}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("unexpected order: %v", paths)
		}
	}
}

func TestLoadDirectoryNonRecursive(t *testing.T) {
	svc := newTestService(t, Config{Recursive: false})

	docs, err := svc.LoadDirectory(context.Background(), "commands")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected only top-level documents, got %d", len(docs))
	}
}

func TestRenderHTMLPopulatesBodyHTML(t *testing.T) {
	svc := newTestService(t, Config{RenderHTML: true})

	doc, err := svc.Load(context.Background(), "commands/meta.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	html := string(doc.BodyHTML)
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "Meta") {
		t.Fatalf("unexpected rendered html: %q", html)
	}
	if dataset := doc.Dataset(); dataset["bodyHtml"] == nil {
		t.Fatal("dataset must expose rendered html")
	}
}

func TestLoadMissingFile(t *testing.T) {
	svc := newTestService(t, Config{})

	if _, err := svc.Load(context.Background(), "commands/absent.md"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadCancelledContext(t *testing.T) {
	svc := newTestService(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Load(ctx, "commands/meta.md"); err == nil {
		t.Fatal("expected context cancellation error")
	}
}
