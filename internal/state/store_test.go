package state

import (
	"fmt"
	"testing"

	"careercompass/internal/types"
)

// fakePersister records calls and can be scripted to fail.
type fakePersister struct {
	state    *types.AppState
	theme    *types.Theme
	failSave bool

	saveStateCalls   int
	deleteStateCalls int
	saveThemeCalls   int
}

func (p *fakePersister) SaveState(s types.AppState) error {
	p.saveStateCalls++
	if p.failSave {
		return fmt.Errorf("disk full")
	}
	p.state = &s
	return nil
}

func (p *fakePersister) LoadState() (types.AppState, bool, error) {
	if p.state == nil {
		return types.AppState{}, false, nil
	}
	return *p.state, true, nil
}

func (p *fakePersister) DeleteState() error {
	p.deleteStateCalls++
	p.state = nil
	return nil
}

func (p *fakePersister) SaveTheme(t types.Theme) error {
	p.saveThemeCalls++
	p.theme = &t
	return nil
}

func (p *fakePersister) LoadTheme() (types.Theme, bool, error) {
	if p.theme == nil {
		return "", false, nil
	}
	return *p.theme, true, nil
}

func TestNewStoreWithoutPersister(t *testing.T) {
	s := NewStore(nil, nil)
	if s.State().ActivePage != types.PageHome {
		t.Error("store without a persister should start from the initial state")
	}
	if s.Epoch() != 0 {
		t.Errorf("epoch = %d, want 0", s.Epoch())
	}
}

func TestNewStoreHydratesFromPersister(t *testing.T) {
	saved := InitialState()
	saved.ActivePage = types.PageDashboard
	saved.UserProfile = &types.UserProfile{Name: "Ada"}
	dark := types.ThemeDark
	p := &fakePersister{state: &saved, theme: &dark}

	s := NewStore(p, nil)
	got := s.State()
	if got.ActivePage != types.PageDashboard {
		t.Errorf("active page = %q, want DASHBOARD", got.ActivePage)
	}
	if got.UserProfile == nil || got.UserProfile.Name != "Ada" {
		t.Error("profile not hydrated")
	}
	if got.Theme != types.ThemeDark {
		t.Error("separately stored theme should win")
	}
}

func TestNewStoreThemeOverridesStateDocument(t *testing.T) {
	saved := InitialState()
	saved.Theme = types.ThemeDark // stale copy inside the document
	light := types.ThemeLight
	p := &fakePersister{state: &saved, theme: &light}

	s := NewStore(p, nil)
	if s.State().Theme != types.ThemeLight {
		t.Error("theme key should override the theme embedded in the state document")
	}
}

func TestNewStoreNormalizesNilCollections(t *testing.T) {
	p := &fakePersister{state: &types.AppState{}}

	got := NewStore(p, nil).State()
	if got.Roadmap == nil || got.Portfolio == nil || got.AssessmentAttempts == nil ||
		got.InterviewMessages == nil || got.IsLoading == nil {
		t.Error("nil collections must be repaired on load")
	}
	if got.ActivePage != types.PageHome {
		t.Errorf("empty active page should default to HOME, got %q", got.ActivePage)
	}
}

func TestDispatchPersists(t *testing.T) {
	p := &fakePersister{}
	s := NewStore(p, nil)

	got := s.Dispatch(Navigate{Page: types.PageJobs})
	if got.ActivePage != types.PageJobs {
		t.Errorf("returned state page = %q", got.ActivePage)
	}
	if p.saveStateCalls != 1 || p.saveThemeCalls != 1 {
		t.Errorf("saveState=%d saveTheme=%d, want 1 each", p.saveStateCalls, p.saveThemeCalls)
	}
	if p.state == nil || p.state.ActivePage != types.PageJobs {
		t.Error("persisted state does not reflect the dispatch")
	}
}

func TestDispatchSwallowsPersistFailures(t *testing.T) {
	p := &fakePersister{failSave: true}
	s := NewStore(p, nil)

	got := s.Dispatch(Navigate{Page: types.PageResume})
	if got.ActivePage != types.PageResume {
		t.Error("state must advance even when persistence fails")
	}
}

func TestLogoutDeletesStateKeepsTheme(t *testing.T) {
	p := &fakePersister{}
	s := NewStore(p, nil)

	s.Dispatch(ToggleTheme{})
	s.Dispatch(LoginSuccess{User: types.User{UID: "ada@example.com"}})
	got := s.Dispatch(Logout{})

	if p.deleteStateCalls != 1 {
		t.Errorf("deleteState called %d times, want 1", p.deleteStateCalls)
	}
	if p.state != nil {
		t.Error("state document should be gone after logout")
	}
	if p.theme == nil || *p.theme != types.ThemeDark {
		t.Error("theme must survive logout")
	}
	if got.User != nil {
		t.Error("logout should clear the user")
	}
}

func TestEpochFencing(t *testing.T) {
	s := NewStore(nil, nil)

	before := s.Epoch()
	s.Dispatch(Logout{})
	if s.Epoch() != before+1 {
		t.Fatalf("epoch = %d, want %d", s.Epoch(), before+1)
	}

	// A completion captured before the logout must be dropped.
	_, applied := s.DispatchFenced(before, SetInterviewSummary{Summary: types.InterviewSummary{Strengths: "stale"}})
	if applied {
		t.Error("stale-epoch dispatch should be dropped")
	}
	if s.State().InterviewSummary != nil {
		t.Error("dropped dispatch must not touch the state")
	}

	// The current epoch still works.
	_, applied = s.DispatchFenced(s.Epoch(), Navigate{Page: types.PageHome})
	if !applied {
		t.Error("current-epoch dispatch should apply")
	}
}

func TestNonLogoutActionsKeepEpoch(t *testing.T) {
	s := NewStore(nil, nil)
	s.Dispatch(Navigate{Page: types.PageJobs})
	s.Dispatch(ToggleTheme{})
	if s.Epoch() != 0 {
		t.Errorf("epoch = %d, want 0 (only logout bumps it)", s.Epoch())
	}
}

func TestNewProject(t *testing.T) {
	a := NewProject("Portfolio Site", "Personal site", "https://example.com")
	b := NewProject("Portfolio Site", "Personal site", "https://example.com")

	if a.ID == "" || b.ID == "" {
		t.Fatal("projects must get ids")
	}
	if a.ID == b.ID {
		t.Error("project ids must be unique")
	}
	if a.Title != "Portfolio Site" || a.Link != "https://example.com" {
		t.Errorf("fields not carried: %+v", a)
	}
}
