package state

import (
	"sync"

	"github.com/google/uuid"

	"careercompass/internal/errors"
	"careercompass/internal/types"
)

// Persister is the durable key-value port behind the store. Implementations
// hold two entries: the whole-state document and the theme preference.
type Persister interface {
	SaveState(s types.AppState) error
	LoadState() (types.AppState, bool, error)
	DeleteState() error
	SaveTheme(t types.Theme) error
	LoadTheme() (types.Theme, bool, error)
}

// Store owns one user journey. All mutation goes through Dispatch, which
// runs the pure reducer and then persists the result. Persistence failures
// are logged and swallowed so a broken disk never breaks a session.
type Store struct {
	mu        sync.RWMutex
	state     types.AppState
	epoch     uint64
	persister Persister
	logger    *errors.Logger
}

// NewStore builds a store hydrated from the persister. A missing or corrupt
// state document degrades to the initial state; the separately stored theme
// always wins over the theme inside the state document.
func NewStore(persister Persister, logger *errors.Logger) *Store {
	s := &Store{
		state:     InitialState(),
		persister: persister,
		logger:    logger,
	}

	if persister == nil {
		return s
	}

	loaded, ok, err := persister.LoadState()
	if err != nil {
		s.logWarn("could not load persisted state, starting fresh", err)
	} else if ok {
		s.state = normalize(loaded)
	}

	theme, ok, err := persister.LoadTheme()
	if err != nil {
		s.logWarn("could not load persisted theme", err)
	} else if ok && theme == types.ThemeDark {
		s.state.Theme = types.ThemeDark
	} else {
		s.state.Theme = types.ThemeLight
	}

	return s
}

// State returns a snapshot of the current state. Nested structures are
// shared with the store; callers must treat the snapshot as read-only.
func (s *Store) State() types.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Epoch returns the current session epoch. Async flows capture it before a
// slow call and pass it to DispatchFenced so completions that straddle a
// logout are dropped.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Dispatch applies one action and persists the outcome.
func (s *Store) Dispatch(action Action) types.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(action)
}

// DispatchFenced applies an action only if the given epoch is still current.
// It reports whether the action was applied.
func (s *Store) DispatchFenced(epoch uint64, action Action) (types.AppState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return s.state, false
	}
	return s.apply(action), true
}

func (s *Store) apply(action Action) types.AppState {
	s.state = Reduce(s.state, action)

	if _, loggedOut := action.(Logout); loggedOut {
		s.epoch++
		if s.persister != nil {
			if err := s.persister.DeleteState(); err != nil {
				s.logWarn("could not delete persisted state on logout", err)
			}
			if err := s.persister.SaveTheme(s.state.Theme); err != nil {
				s.logWarn("could not persist theme", err)
			}
		}
		return s.state
	}

	if s.persister != nil {
		if err := s.persister.SaveState(s.state); err != nil {
			s.logWarn("could not persist state", err)
		}
		if err := s.persister.SaveTheme(s.state.Theme); err != nil {
			s.logWarn("could not persist theme", err)
		}
	}
	return s.state
}

func (s *Store) logWarn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, "error", err)
	}
}

// NewProject builds a portfolio project with a collision-free id.
func NewProject(title, description, link string) types.Project {
	return types.Project{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Link:        link,
	}
}

// normalize repairs nil collections after JSON decoding so the reducer can
// rely on non-nil slices and maps.
func normalize(s types.AppState) types.AppState {
	if s.Roadmap == nil {
		s.Roadmap = []types.RoadmapWeek{}
	}
	if s.Portfolio == nil {
		s.Portfolio = []types.Project{}
	}
	if s.AssessmentAttempts == nil {
		s.AssessmentAttempts = []types.AssessmentAttempt{}
	}
	if s.InterviewMessages == nil {
		s.InterviewMessages = []types.ChatMessage{}
	}
	if s.IsLoading == nil {
		s.IsLoading = map[string]bool{}
	}
	if s.ActiveAssessment != nil && s.ActiveAssessment.Answers == nil {
		s.ActiveAssessment.Answers = map[string]string{}
	}
	if s.ActivePage == "" {
		s.ActivePage = types.PageHome
	}
	return s
}
