package inspect

import (
	stdzip "archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/dkoval/unseal/internal/output"
)

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := stdzip.NewWriter(f)
	for name, content := range entries {
		ew, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ew.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewInspectCmdRequiresArgs(t *testing.T) {
	cmd := NewInspectCmd()
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error when no archives are given")
	}
}

func TestInspectOne(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "bundle.zip")
	writeZip(t, path, map[string]string{
		"readme.txt":   "hello",
		"data/log.txt": "world",
	})

	formatter := output.NewFormatter(output.FormatJSON)

	if err := inspectOne(formatter, path); err != nil {
		t.Errorf("inspectOne() error: %v", err)
	}
}

func TestInspectOneNotArchive(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("plain text"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := inspectOne(output.NewFormatter(output.FormatTable), path); err == nil {
		t.Error("expected error for a non-archive file")
	}
}

func TestInspectOneMissingFile(t *testing.T) {
	if err := inspectOne(output.NewFormatter(output.FormatTable), "/does/not/exist.zip"); err == nil {
		t.Error("expected error for a missing file")
	}
}
