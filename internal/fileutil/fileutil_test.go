package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileCreatesParents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "nested", "deeper", "dst.bin")
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Fatalf("copied content = %q", data)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "dst"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "victim")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
	if err := RemoveIfExists(""); err != nil {
		t.Fatalf("empty path should be a no-op: %v", err)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	if FileExists(filepath.Join(dir, "missing")) {
		t.Fatal("missing file reported as existing")
	}
	if FileExists(dir) {
		t.Fatal("directory reported as regular file")
	}
	path := filepath.Join(dir, "present")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Fatal("existing file not detected")
	}
}
