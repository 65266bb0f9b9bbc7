// Package storage provides the persistence adapters the planner store
// writes its state blob through. Both adapters persist the same versioned
// JSON document; the store never sees which backend is behind it.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/ecemunal/planline/internal/model"
)

// File persists the state blob as a single JSON file, written atomically
// so a crash mid-write never leaves a torn document.
type File struct {
	path string
}

// NewFile creates a file adapter at path, creating parent directories.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &File{path: path}, nil
}

// Load reads the stored state. Returns (nil, nil) when nothing has been
// saved yet.
func (f *File) Load() (*model.State, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var st model.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	return &st, nil
}

// Save writes the full state blob.
func (f *File) Save(st model.State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := atomic.WriteFile(f.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
