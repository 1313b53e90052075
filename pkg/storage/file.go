package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/freeboard/pkg/errors"
)

// File stores each workspace layout as <dir>/<workspace>.json.
type File struct {
	mu  sync.RWMutex
	dir string
}

// NewFile returns a file repository rooted at dir. If dir is empty it
// defaults to ~/.local/share/freeboard/layouts.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".local", "share", "freeboard", "layouts")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create layout dir: %w", err)
	}
	return &File{dir: dir}, nil
}

// Dir returns the directory layouts are stored in.
func (f *File) Dir() string { return f.dir }

func (f *File) path(workspaceID string) (string, error) {
	if err := errors.ValidateWorkspaceID(workspaceID); err != nil {
		return "", err
	}
	return filepath.Join(f.dir, workspaceID+".json"), nil
}

func (f *File) Get(_ context.Context, workspaceID string) ([]byte, error) {
	path, err := f.path(workspaceID)
	if err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, notFound(workspaceID)
	}
	if err != nil {
		return nil, storageErr(err, "read", workspaceID)
	}
	return data, nil
}

// Put writes to a temporary file and renames it over the old one, so a
// reader never sees a partial layout.
func (f *File) Put(_ context.Context, workspaceID string, data []byte) error {
	path, err := f.path(workspaceID)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return storageErr(err, "write", workspaceID)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return storageErr(err, "write", workspaceID)
	}
	return nil
}

func (f *File) Close() error { return nil }
