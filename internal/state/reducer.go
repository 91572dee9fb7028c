package state

import (
	"maps"
	"slices"

	"careercompass/internal/types"
)

// InitialState returns the default application state: logged out, light
// theme, home page, every dashboard widget visible.
func InitialState() types.AppState {
	return types.AppState{
		Theme:              types.ThemeLight,
		ActivePage:         types.PageHome,
		Roadmap:            []types.RoadmapWeek{},
		Portfolio:          []types.Project{},
		AssessmentAttempts: []types.AssessmentAttempt{},
		InterviewMessages:  []types.ChatMessage{},
		IsLoading:          map[string]bool{},
		DashboardWidgets: types.DashboardWidgets{
			NextGoal:              true,
			SkillsToDevelop:       true,
			RecommendedAssessment: true,
			ActiveSessions:        true,
		},
	}
}

// Reduce applies one action to a state and returns the next state. It is
// pure: no I/O, no mutation of the input or of any structure the input
// aliases. Unrecognized actions and out-of-range indices leave the state
// unchanged.
func Reduce(s types.AppState, action Action) types.AppState {
	switch a := action.(type) {
	case Navigate:
		s.ActivePage = a.Page
		return s

	case LoginSuccess:
		user := a.User
		s.User = &user
		if s.UserProfile == nil || s.UserProfile.Name == "" {
			s.ActivePage = types.PageProfile
		} else {
			s.ActivePage = types.PageDashboard
		}
		return s

	case Logout:
		next := InitialState()
		next.Theme = s.Theme
		return next

	case ToggleTheme:
		if s.Theme == types.ThemeLight {
			s.Theme = types.ThemeDark
		} else {
			s.Theme = types.ThemeLight
		}
		return s

	case SetProfile:
		profile := a.Profile
		s.UserProfile = &profile
		s.ActivePage = types.PageRoleFit
		return s

	case SetRole:
		role := a.Role
		s.SelectedRole = &role
		s.Roadmap = []types.RoadmapWeek{}
		s.ActivePage = types.PageRoadmap
		return s

	case SetRoadmap:
		s.Roadmap = copyRoadmap(a.Roadmap)
		return s

	case ToggleGoal:
		if a.WeekIndex < 0 || a.WeekIndex >= len(s.Roadmap) {
			return s
		}
		week := s.Roadmap[a.WeekIndex]
		if a.GoalIndex < 0 || a.GoalIndex >= len(week.Goals) {
			return s
		}
		roadmap := copyRoadmap(s.Roadmap)
		goal := &roadmap[a.WeekIndex].Goals[a.GoalIndex]
		goal.Completed = !goal.Completed
		s.Roadmap = roadmap
		return s

	case UpdateNote:
		if a.WeekIndex < 0 || a.WeekIndex >= len(s.Roadmap) {
			return s
		}
		roadmap := copyRoadmap(s.Roadmap)
		roadmap[a.WeekIndex].Notes = a.Note
		s.Roadmap = roadmap
		return s

	case AddProject:
		s.Portfolio = append(slices.Clone(s.Portfolio), a.Project)
		return s

	case RemoveProject:
		s.Portfolio = slices.DeleteFunc(slices.Clone(s.Portfolio), func(p types.Project) bool {
			return p.ID == a.ProjectID
		})
		return s

	case SubmitAssessment:
		attempts := slices.DeleteFunc(slices.Clone(s.AssessmentAttempts), func(at types.AssessmentAttempt) bool {
			return at.AssessmentID == a.Attempt.AssessmentID
		})
		s.AssessmentAttempts = append(attempts, a.Attempt)
		return s

	case SetLoading:
		loading := maps.Clone(s.IsLoading)
		if loading == nil {
			loading = map[string]bool{}
		}
		loading[a.Key] = a.Value
		s.IsLoading = loading
		return s

	case SetInterviewMessages:
		s.InterviewMessages = slices.Clone(a.Messages)
		s.InterviewSummary = nil
		return s

	case SetInterviewSummary:
		summary := a.Summary
		s.InterviewSummary = &summary
		return s

	case SetInterviewField:
		s.InterviewField = a.Field
		return s

	case ClearInterview:
		s.InterviewMessages = []types.ChatMessage{}
		s.InterviewSummary = nil
		s.InterviewField = ""
		return s

	case StartAssessment:
		s.ActiveAssessment = &types.ActiveAssessment{
			ID:      a.AssessmentID,
			Answers: map[string]string{},
		}
		return s

	case UpdateAssessmentProgress:
		if s.ActiveAssessment == nil {
			return s
		}
		next := types.ActiveAssessment{
			ID:                   s.ActiveAssessment.ID,
			Answers:              maps.Clone(a.Answers),
			CurrentQuestionIndex: a.CurrentQuestionIndex,
		}
		if next.Answers == nil {
			next.Answers = map[string]string{}
		}
		s.ActiveAssessment = &next
		return s

	case ClearActiveAssessment:
		s.ActiveAssessment = nil
		return s

	case UpdateWidgetVisibility:
		switch a.Widget {
		case types.WidgetNextGoal:
			s.DashboardWidgets.NextGoal = a.IsVisible
		case types.WidgetSkillsToDevelop:
			s.DashboardWidgets.SkillsToDevelop = a.IsVisible
		case types.WidgetRecommendedAssessment:
			s.DashboardWidgets.RecommendedAssessment = a.IsVisible
		case types.WidgetActiveSessions:
			s.DashboardWidgets.ActiveSessions = a.IsVisible
		}
		return s

	default:
		return s
	}
}

// Progress derives the completion summary for a roadmap.
func Progress(roadmap []types.RoadmapWeek) types.RoadmapProgress {
	var p types.RoadmapProgress
	for _, week := range roadmap {
		for _, g := range week.Goals {
			p.TotalGoals++
			if g.Completed {
				p.CompletedGoals++
			}
		}
	}
	if p.TotalGoals > 0 {
		p.Percent = float64(p.CompletedGoals) / float64(p.TotalGoals) * 100
	}
	return p
}

func copyRoadmap(roadmap []types.RoadmapWeek) []types.RoadmapWeek {
	out := make([]types.RoadmapWeek, len(roadmap))
	for i, week := range roadmap {
		out[i] = week
		out[i].Goals = slices.Clone(week.Goals)
	}
	return out
}
