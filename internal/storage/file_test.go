package storage

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	apperrors "careercompass/internal/errors"
	"careercompass/internal/types"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(afero.NewMemMapFs(), "/data/sessions/test")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestNewFileStoreEmptyDir(t *testing.T) {
	_, err := NewFileStore(afero.NewMemMapFs(), "")
	if err == nil {
		t.Fatal("expected an error for an empty data directory")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeConfig {
		t.Errorf("expected a config error, got %v", err)
	}
}

func TestStateRoundTrip(t *testing.T) {
	store := newTestStore(t)

	state := types.AppState{
		Theme:      types.ThemeDark,
		ActivePage: types.PageDashboard,
		User:       &types.User{UID: "ada@example.com", Email: "ada@example.com"},
		Roadmap: []types.RoadmapWeek{
			{Week: 1, Title: "Foundations", Goals: []types.RoadmapGoal{{Text: "read", Completed: true}}, Notes: "ok"},
		},
		IsLoading: map[string]bool{"roadmap": true},
	}

	if err := store.SaveState(state); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	got, ok, err := store.LoadState()
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if !ok {
		t.Fatal("expected a stored document")
	}
	if got.ActivePage != types.PageDashboard || got.User == nil || got.User.UID != "ada@example.com" {
		t.Errorf("loaded state does not match: %+v", got)
	}
	if len(got.Roadmap) != 1 || !got.Roadmap[0].Goals[0].Completed || got.Roadmap[0].Notes != "ok" {
		t.Errorf("roadmap did not round-trip: %+v", got.Roadmap)
	}
	if !got.IsLoading["roadmap"] {
		t.Error("loading map did not round-trip")
	}
}

func TestLoadStateMissing(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.LoadState()
	if err != nil {
		t.Fatalf("LoadState on empty store: %v", err)
	}
	if ok {
		t.Error("expected ok=false when no document exists")
	}
}

func TestLoadStateCorrupt(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store, err := NewFileStore(fsys, "/data")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := afero.WriteFile(fsys, "/data/state.json", []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	_, _, err = store.LoadState()
	if err == nil {
		t.Fatal("expected an error for a corrupt document")
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.ErrCodeStateCorrupt {
		t.Errorf("expected STATE_CORRUPT, got %v", err)
	}
}

func TestDeleteState(t *testing.T) {
	store := newTestStore(t)

	// Deleting before anything exists is fine.
	if err := store.DeleteState(); err != nil {
		t.Fatalf("DeleteState on empty store: %v", err)
	}

	if err := store.SaveState(types.AppState{ActivePage: types.PageHome}); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := store.DeleteState(); err != nil {
		t.Fatalf("DeleteState: %v", err)
	}

	_, ok, err := store.LoadState()
	if err != nil {
		t.Fatalf("LoadState after delete: %v", err)
	}
	if ok {
		t.Error("document should be gone after delete")
	}
}

func TestThemeRoundTrip(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.LoadTheme()
	if err != nil {
		t.Fatalf("LoadTheme on empty store: %v", err)
	}
	if ok {
		t.Error("expected ok=false before the theme is saved")
	}

	if err := store.SaveTheme(types.ThemeDark); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}
	theme, ok, err := store.LoadTheme()
	if err != nil {
		t.Fatalf("LoadTheme: %v", err)
	}
	if !ok || theme != types.ThemeDark {
		t.Errorf("theme = %q ok=%v, want dark", theme, ok)
	}
}

func TestThemeSurvivesStateDelete(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveState(types.AppState{Theme: types.ThemeDark}); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := store.SaveTheme(types.ThemeDark); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}
	if err := store.DeleteState(); err != nil {
		t.Fatalf("DeleteState: %v", err)
	}

	theme, ok, err := store.LoadTheme()
	if err != nil || !ok || theme != types.ThemeDark {
		t.Errorf("theme should survive state deletion, got %q ok=%v err=%v", theme, ok, err)
	}
}
