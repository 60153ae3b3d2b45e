package storage

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestOSReaderAndWriterRoundTrip(t *testing.T) {
	base := t.TempDir()

	writer := OSWriter{Base: base}
	if err := writer.Write("out/registry.json", `{"version":"1.0.0"}`); err != nil {
		t.Fatalf("Write: %v", err)
	}

	reader := OSReader{Base: base}
	text, err := reader.Read("out/registry.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if text != `{"version":"1.0.0"}` {
		t.Fatalf("unexpected content: %q", text)
	}

	info, err := os.Stat(filepath.Join(base, "out", "registry.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Fatalf("unexpected file mode: %v", info.Mode())
	}
}

func TestOSReaderMissingFile(t *testing.T) {
	reader := OSReader{Base: t.TempDir()}
	if _, err := reader.Read("absent.md"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestFSReader(t *testing.T) {
	reader := FSReader{FS: fstest.MapFS{
		"templates/main.md": {Data: []byte("# {{title}}")},
	}}

	text, err := reader.Read("templates/main.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if text != "# {{title}}" {
		t.Fatalf("unexpected content: %q", text)
	}
}
