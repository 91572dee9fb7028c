package server

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"careercompass/internal/errors"
	"careercompass/internal/state"
	"careercompass/internal/types"
)

var testLogger = errors.NewLogger(slog.LevelError)

func TestSessionManagerCreateAndGet(t *testing.T) {
	sm := NewSessionManager(afero.NewMemMapFs(), "/data", testLogger)

	id, store, err := sm.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if uuid.Validate(id) != nil {
		t.Errorf("session id %q is not a uuid", id)
	}
	if store.State().ActivePage != types.PageHome {
		t.Error("new session should start from the initial state")
	}

	got, ok := sm.Get(id)
	if !ok {
		t.Fatal("Get should find the created session")
	}
	if got != store {
		t.Error("Get returned a different store instance")
	}
	if sm.Count() != 1 {
		t.Errorf("Count = %d, want 1", sm.Count())
	}
}

func TestSessionManagerUnknownIDs(t *testing.T) {
	sm := NewSessionManager(afero.NewMemMapFs(), "/data", testLogger)

	if _, ok := sm.Get("not-a-uuid"); ok {
		t.Error("malformed ids must not resolve")
	}
	if _, ok := sm.Get(uuid.NewString()); ok {
		t.Error("a uuid with no session behind it must not resolve")
	}
}

func TestSessionManagerRehydratesFromDisk(t *testing.T) {
	fsys := afero.NewMemMapFs()

	first := NewSessionManager(fsys, "/data", testLogger)
	id, store, err := first.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	store.Dispatch(state.Navigate{Page: types.PageDashboard})
	store.Dispatch(state.ToggleTheme{})

	// A fresh manager over the same filesystem stands in for a restart.
	second := NewSessionManager(fsys, "/data", testLogger)
	if second.Count() != 0 {
		t.Fatal("fresh manager should hold no sessions in memory")
	}

	rehydrated, ok := second.Get(id)
	if !ok {
		t.Fatal("session should rehydrate from disk")
	}
	got := rehydrated.State()
	if got.ActivePage != types.PageDashboard {
		t.Errorf("active page = %q, want DASHBOARD", got.ActivePage)
	}
	if got.Theme != types.ThemeDark {
		t.Errorf("theme = %q, want dark", got.Theme)
	}
	if second.Count() != 1 {
		t.Errorf("Count = %d after rehydration, want 1", second.Count())
	}

	// Repeated Gets return the same store.
	again, _ := second.Get(id)
	if again != rehydrated {
		t.Error("rehydrated store should be cached")
	}
}

func TestSessionManagerIsolation(t *testing.T) {
	sm := NewSessionManager(afero.NewMemMapFs(), "/data", testLogger)

	idA, storeA, _ := sm.Create()
	idB, storeB, _ := sm.Create()
	if idA == idB {
		t.Fatal("sessions must get distinct ids")
	}

	storeA.Dispatch(state.Navigate{Page: types.PageJobs})
	if storeB.State().ActivePage == types.PageJobs {
		t.Error("dispatch on one session leaked into another")
	}
}
