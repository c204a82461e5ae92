package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveRunFileRejectsUnsafePaths(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name     string
		filename string
	}{
		{name: "absolute path", filename: "/etc/passwd"},
		{name: "parent traversal", filename: "../../evil.txt"},
		{name: "embedded traversal", filename: "css/../../evil.txt"},
		{name: "backslash traversal", filename: `..\..\evil.txt`},
		{name: "embedded backslash traversal", filename: `css\..\..\evil.txt`},
		{name: "empty filename", filename: ""},
		{name: "whitespace filename", filename: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, path := SaveRunFile(root, "run1", tt.filename, "content")
			if ok {
				t.Fatalf("SaveRunFile(%q) succeeded, want rejection", tt.filename)
			}
			if path != "" {
				t.Errorf("rejected save returned path %q", path)
			}
		})
	}

	// Nothing may have been written outside or inside the run dir.
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("failed to read root: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "run1" {
			t.Errorf("unexpected entry in root: %s", e.Name())
		}
	}
	if _, err := os.Stat(filepath.Join(root, "..", "evil.txt")); err == nil {
		t.Error("traversal write escaped the root")
	}
}

func TestSaveRunFileCreatesIntermediateDirectories(t *testing.T) {
	root := t.TempDir()

	ok, path := SaveRunFile(root, "run1", "css/style.css", "body { margin: 0; }")
	if !ok {
		t.Fatal("SaveRunFile failed for nested filename")
	}

	want := filepath.Join(root, "run1", "css", "style.css")
	if path != want {
		t.Errorf("resolved path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(data) != "body { margin: 0; }" {
		t.Errorf("content = %q", string(data))
	}
}

func TestSaveRunFileOverwriteLastWriteWins(t *testing.T) {
	root := t.TempDir()

	if ok, _ := SaveRunFile(root, "run1", "index.html", "first"); !ok {
		t.Fatal("first write failed")
	}
	ok, path := SaveRunFile(root, "run1", "index.html", "second")
	if !ok {
		t.Fatal("second write failed")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want last write", string(data))
	}
}

func TestSaveSidecar(t *testing.T) {
	root := t.TempDir()

	SaveSidecar(root, "run1", "index.html", ".error.txt", "ERROR: timeout")

	data, err := os.ReadFile(filepath.Join(root, "run1", "index.html.error.txt"))
	if err != nil {
		t.Fatalf("sidecar not written: %v", err)
	}
	if !strings.Contains(string(data), "ERROR: timeout") {
		t.Errorf("sidecar content = %q", string(data))
	}
}

func TestRunDir(t *testing.T) {
	if got := RunDir("generated", "run1"); got != filepath.Join("generated", "run1") {
		t.Errorf("RunDir = %q", got)
	}
}
