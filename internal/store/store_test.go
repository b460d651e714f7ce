package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "text.json"))
	text, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if text != DefaultText {
		t.Errorf("Load() = %q, want %q", text, DefaultText)
	}
}

func TestLoadMalformedFileReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)
	text, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if text != DefaultText {
		t.Errorf("Load() = %q, want %q", text, DefaultText)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "text.json"))
	if err := s.Save("Hello badge"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	text, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if text != "Hello badge" {
		t.Errorf("Load() = %q, want %q", text, "Hello badge")
	}
}

func TestSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "text.json")
	s := NewFileStore(path)
	if err := s.Save("deep"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("stat after Save: %v", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "text.json"))
	if err := s.Save("first"); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("second"); err != nil {
		t.Fatal(err)
	}
	text, _ := s.Load()
	if text != "second" {
		t.Errorf("Load() = %q, want %q", text, "second")
	}
}

func TestSaveUTF8Text(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "text.json"))
	const text = "héllo ☺ world"
	if err := s.Save(text); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Load()
	if got != text {
		t.Errorf("Load() = %q, want %q", got, text)
	}
}
