package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the snapshot as a JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("persist: file store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("persist: file store: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Path() string { return f.path }

// Save writes to a temporary file and renames it over the old snapshot.
func (f *FileStore) Save(_ context.Context, s Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("persist: save %s: %w", f.path, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("persist: save %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStore) Load(_ context.Context) (Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("persist: load %s: %w", f.path, err)
	}
	return Unmarshal(data)
}

// Close does nothing for a file store.
func (f *FileStore) Close() error {
	return nil
}

var _ Store = (*FileStore)(nil)
