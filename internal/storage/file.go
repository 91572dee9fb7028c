// Package storage provides the durable key-value store behind a session:
// one JSON document for the whole application state and one small file for
// the theme preference. The filesystem is abstracted with afero so tests
// run against an in-memory fs.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"careercompass/internal/errors"
	"careercompass/internal/types"
)

const (
	stateFileName = "state.json"
	themeFileName = "theme"
)

// FileStore persists state documents under a data directory.
type FileStore struct {
	mu      sync.Mutex
	fs      afero.Fs
	dataDir string
}

// NewFileStore creates the data directory if needed and returns a store
// rooted there. Pass afero.NewOsFs() outside tests.
func NewFileStore(fsys afero.Fs, dataDir string) (*FileStore, error) {
	if dataDir == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"storage data directory cannot be empty", nil)
	}
	if err := fsys.MkdirAll(dataDir, 0o750); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageWrite,
			fmt.Sprintf("cannot create data directory %s", dataDir), err)
	}
	return &FileStore{fs: fsys, dataDir: dataDir}, nil
}

func (fs *FileStore) statePath() string { return filepath.Join(fs.dataDir, stateFileName) }
func (fs *FileStore) themePath() string { return filepath.Join(fs.dataDir, themeFileName) }

// SaveState writes the whole-state document.
func (fs *FileStore) SaveState(s types.AppState) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageWrite,
			"cannot serialize application state", err)
	}
	if err := afero.WriteFile(fs.fs, fs.statePath(), raw, 0o644); err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageWrite,
			fmt.Sprintf("cannot write %s", fs.statePath()), err)
	}
	return nil
}

// LoadState reads the whole-state document. The second return value is
// false when no document exists yet.
func (fs *FileStore) LoadState() (types.AppState, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	raw, err := afero.ReadFile(fs.fs, fs.statePath())
	if err != nil {
		if os.IsNotExist(err) {
			return types.AppState{}, false, nil
		}
		return types.AppState{}, false, errors.NewStorageError(errors.ErrCodeStateNotFound,
			fmt.Sprintf("cannot read %s", fs.statePath()), err)
	}

	var s types.AppState
	if err := json.Unmarshal(raw, &s); err != nil {
		return types.AppState{}, false, errors.NewStorageError(errors.ErrCodeStateCorrupt,
			fmt.Sprintf("corrupt state document %s", fs.statePath()), err)
	}
	return s, true, nil
}

// DeleteState removes the whole-state document; missing documents are fine.
func (fs *FileStore) DeleteState() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.fs.Remove(fs.statePath()); err != nil && !os.IsNotExist(err) {
		return errors.NewStorageError(errors.ErrCodeStorageWrite,
			fmt.Sprintf("cannot delete %s", fs.statePath()), err)
	}
	return nil
}

// SaveTheme writes the theme preference as a bare string.
func (fs *FileStore) SaveTheme(t types.Theme) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := afero.WriteFile(fs.fs, fs.themePath(), []byte(t), 0o644); err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageWrite,
			fmt.Sprintf("cannot write %s", fs.themePath()), err)
	}
	return nil
}

// LoadTheme reads the stored theme preference.
func (fs *FileStore) LoadTheme() (types.Theme, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	raw, err := afero.ReadFile(fs.fs, fs.themePath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.NewStorageError(errors.ErrCodeStateNotFound,
			fmt.Sprintf("cannot read %s", fs.themePath()), err)
	}
	return types.Theme(raw), true, nil
}
