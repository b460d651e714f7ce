// Package store persists the displayed text across reboots.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultText is shown until the first accepted write.
const DefaultText = "The quick brown fox jumps"

// Store loads and saves the displayed text.
type Store interface {
	// Load returns the persisted text, or DefaultText if nothing usable
	// is stored.
	Load() (string, error)
	// Save writes the text to stable storage synchronously.
	Save(text string) error
}

// document is the on-disk shape.
type document struct {
	Text string `json:"text"`
}

// FileStore keeps the text as a single JSON document at a fixed path.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore rooted at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the stored text. A missing, unreadable, or malformed file
// is not an error: the default text is returned so the device always
// has something to display.
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return DefaultText, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return DefaultText, nil
	}
	if doc.Text == "" {
		return DefaultText, nil
	}
	return doc.Text, nil
}

// Save overwrites the stored text. The parent directory is created on
// demand so a fresh install works without setup.
func (s *FileStore) Save(text string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("store: create dir: %w", err)
	}
	data, err := json.Marshal(document{Text: text})
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}
	return nil
}

// Compile-time check that FileStore implements Store.
var _ Store = (*FileStore)(nil)
