package server

import (
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"careercompass/internal/errors"
	"careercompass/internal/state"
	"careercompass/internal/storage"
)

// SessionManager owns the live state stores, one per session id. Each
// session persists under its own directory so restarts rehydrate lazily on
// first access.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*state.Store

	fs      afero.Fs
	dataDir string
	logger  *errors.Logger
}

// NewSessionManager creates a session manager rooted at dataDir.
func NewSessionManager(fsys afero.Fs, dataDir string, logger *errors.Logger) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*state.Store),
		fs:       fsys,
		dataDir:  dataDir,
		logger:   logger,
	}
}

// Create allocates a new session with a fresh id and an empty state store.
func (sm *SessionManager) Create() (string, *state.Store, error) {
	id := uuid.NewString()

	store, err := sm.open(id)
	if err != nil {
		return "", nil, err
	}

	sm.mu.Lock()
	sm.sessions[id] = store
	sm.mu.Unlock()

	sm.logger.Info("Session created", "session_id", id)
	return id, store, nil
}

// Get returns the store for a session id. A session that only exists on
// disk, from a previous process, is rehydrated transparently.
func (sm *SessionManager) Get(id string) (*state.Store, bool) {
	sm.mu.RLock()
	store, ok := sm.sessions[id]
	sm.mu.RUnlock()
	if ok {
		return store, true
	}

	if uuid.Validate(id) != nil {
		return nil, false
	}

	exists, err := afero.DirExists(sm.fs, sm.sessionDir(id))
	if err != nil || !exists {
		return nil, false
	}

	store, err = sm.open(id)
	if err != nil {
		sm.logger.LogError(err, "Failed to rehydrate session", "session_id", id)
		return nil, false
	}

	sm.mu.Lock()
	// Another request may have rehydrated meanwhile; keep the first store.
	if existing, ok := sm.sessions[id]; ok {
		store = existing
	} else {
		sm.sessions[id] = store
	}
	sm.mu.Unlock()

	sm.logger.Info("Session rehydrated from disk", "session_id", id)
	return store, true
}

// Count returns the number of sessions currently held in memory.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func (sm *SessionManager) sessionDir(id string) string {
	return filepath.Join(sm.dataDir, "sessions", id)
}

func (sm *SessionManager) open(id string) (*state.Store, error) {
	persister, err := storage.NewFileStore(sm.fs, sm.sessionDir(id))
	if err != nil {
		return nil, err
	}
	return state.NewStore(persister, sm.logger), nil
}
