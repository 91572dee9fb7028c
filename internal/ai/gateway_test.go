package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"careercompass/internal/catalog"
	"careercompass/internal/config"
	"careercompass/internal/errors"
	"careercompass/internal/types"
)

var testLogger = errors.NewLogger(slog.LevelError)

// stubProvider lets tests script individual operations; unscripted methods
// fail so the fallback path runs.
type stubProvider struct {
	suggestRoles      func(ctx context.Context, profile types.UserProfile, roles []types.CareerRole) (types.RoleFitModelOutput, *TokenUsage, error)
	generateRoadmap   func(ctx context.Context, role types.CareerRole) (types.RoadmapModelOutput, *TokenUsage, error)
	interviewReply    func(ctx context.Context, messages []types.ChatMessage, field string) (string, *TokenUsage, error)
	summarize         func(ctx context.Context, messages []types.ChatMessage, field string) (types.InterviewSummary, *TokenUsage, error)
	generateQuestions func(ctx context.Context, skill string) (types.GeneratedQuestionsOutput, *TokenUsage, error)
	recommend         func(ctx context.Context, missingSkills []string, assessments []types.Assessment) (types.AssessmentRecommendationOutput, *TokenUsage, error)
	matchJobs         func(ctx context.Context, filters types.JobFilters, profile *types.UserProfile, role *types.CareerRole, jobs []types.JobListing) (types.JobMatchOutput, *TokenUsage, error)
}

func (s *stubProvider) SuggestRoles(ctx context.Context, profile types.UserProfile, roles []types.CareerRole) (types.RoleFitModelOutput, *TokenUsage, error) {
	if s.suggestRoles == nil {
		return types.RoleFitModelOutput{}, nil, fmt.Errorf("not scripted")
	}
	return s.suggestRoles(ctx, profile, roles)
}

func (s *stubProvider) GenerateRoadmap(ctx context.Context, role types.CareerRole) (types.RoadmapModelOutput, *TokenUsage, error) {
	if s.generateRoadmap == nil {
		return types.RoadmapModelOutput{}, nil, fmt.Errorf("not scripted")
	}
	return s.generateRoadmap(ctx, role)
}

func (s *stubProvider) InterviewReply(ctx context.Context, messages []types.ChatMessage, field string) (string, *TokenUsage, error) {
	if s.interviewReply == nil {
		return "", nil, fmt.Errorf("not scripted")
	}
	return s.interviewReply(ctx, messages, field)
}

func (s *stubProvider) SummarizeInterview(ctx context.Context, messages []types.ChatMessage, field string) (types.InterviewSummary, *TokenUsage, error) {
	if s.summarize == nil {
		return types.InterviewSummary{}, nil, fmt.Errorf("not scripted")
	}
	return s.summarize(ctx, messages, field)
}

func (s *stubProvider) GenerateQuestions(ctx context.Context, skill string) (types.GeneratedQuestionsOutput, *TokenUsage, error) {
	if s.generateQuestions == nil {
		return types.GeneratedQuestionsOutput{}, nil, fmt.Errorf("not scripted")
	}
	return s.generateQuestions(ctx, skill)
}

func (s *stubProvider) RecommendAssessments(ctx context.Context, missingSkills []string, assessments []types.Assessment) (types.AssessmentRecommendationOutput, *TokenUsage, error) {
	if s.recommend == nil {
		return types.AssessmentRecommendationOutput{}, nil, fmt.Errorf("not scripted")
	}
	return s.recommend(ctx, missingSkills, assessments)
}

func (s *stubProvider) MatchJobs(ctx context.Context, filters types.JobFilters, profile *types.UserProfile, role *types.CareerRole, jobs []types.JobListing) (types.JobMatchOutput, *TokenUsage, error) {
	if s.matchJobs == nil {
		return types.JobMatchOutput{}, nil, fmt.Errorf("not scripted")
	}
	return s.matchJobs(ctx, filters, profile, role, jobs)
}

func (s *stubProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	return &ModelInfo{Name: "stub", Available: true}
}

func (s *stubProvider) Close() error { return nil }

// recordingHook counts gateway outcome notifications.
type recordingHook struct {
	mu         sync.Mutex
	operations []string
	fallbacks  []string
}

func (h *recordingHook) RecordAIOperation(ctx context.Context, operation string, duration time.Duration, success bool, usage *TokenUsage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.operations = append(h.operations, operation)
}

func (h *recordingHook) RecordFallback(ctx context.Context, operation string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fallbacks = append(h.fallbacks, operation)
}

func (h *recordingHook) fallbackCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.fallbacks)
}

func testGatewayConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Gateway.ResumeFeedbackDelay = time.Millisecond
	cfg.Gateway.AuthDelay = time.Millisecond
	cfg.Gateway.InterviewContextMessages = 10
	return cfg
}

// fallbackGateway has no providers wired at all.
func fallbackGateway(t *testing.T, hooks MetricsHook) *Gateway {
	t.Helper()
	g, err := NewGateway(testGatewayConfig(), testLogger, hooks)
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	return g
}

func TestGetRoleFitEmptyProfile(t *testing.T) {
	g := fallbackGateway(t, nil)

	tests := []struct {
		name    string
		profile *types.UserProfile
	}{
		{"nil profile", nil},
		{"missing stream", &types.UserProfile{Interests: "coding"}},
		{"missing interests", &types.UserProfile{Stream: "Computer Science & Engineering"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := g.GetRoleFit(context.Background(), tt.profile)
			if len(result.Recommended) != 0 || len(result.Additional) != 0 {
				t.Errorf("expected empty result, got %d recommended, %d additional",
					len(result.Recommended), len(result.Additional))
			}
			if result.Recommended == nil || result.Additional == nil {
				t.Error("result slices should be non-nil so they encode as [] not null")
			}
		})
	}
}

func TestGetRoleFitFallbackUsesStreamRoles(t *testing.T) {
	hook := &recordingHook{}
	g := fallbackGateway(t, hook)

	stream := "Computer Science & Engineering"
	profile := &types.UserProfile{Stream: stream, Interests: "building web apps"}

	result := g.GetRoleFit(context.Background(), profile)

	streamRoles := catalog.RolesForStream(stream)
	wantRecommended := min(len(streamRoles), 3)
	if len(result.Recommended) != wantRecommended {
		t.Fatalf("expected %d recommended roles, got %d", wantRecommended, len(result.Recommended))
	}
	for i, role := range result.Recommended {
		if role.ID != streamRoles[i].ID {
			t.Errorf("recommended[%d] = %s, want %s", i, role.ID, streamRoles[i].ID)
		}
	}
	if len(streamRoles) > 3 {
		wantAdditional := min(len(streamRoles), 8) - 3
		if len(result.Additional) != wantAdditional {
			t.Errorf("expected %d additional roles, got %d", wantAdditional, len(result.Additional))
		}
	}
	if hook.fallbackCount() != 1 {
		t.Errorf("expected 1 fallback notification, got %d", hook.fallbackCount())
	}
}

func TestGetRoleFitMergesModelScores(t *testing.T) {
	g := fallbackGateway(t, nil)
	g.roleFit = &stubProvider{
		suggestRoles: func(ctx context.Context, profile types.UserProfile, roles []types.CareerRole) (types.RoleFitModelOutput, *TokenUsage, error) {
			return types.RoleFitModelOutput{Recommendations: []types.RoleRecommendation{
				{ID: "frontend_dev", FitScore: 70, Explanation: "solid base", MissingSkills: []string{"TypeScript"}},
				{ID: "backend_dev", FitScore: 90, Explanation: "strong match", MissingSkills: []string{"System Design"}},
			}}, nil, nil
		},
	}

	stream := "Computer Science & Engineering"
	result := g.GetRoleFit(context.Background(), &types.UserProfile{Stream: stream, Interests: "apis"})

	if len(result.Recommended) != 2 {
		t.Fatalf("expected 2 recommended roles, got %d", len(result.Recommended))
	}
	// Sorted by fit score descending.
	if result.Recommended[0].ID != "backend_dev" || result.Recommended[0].FitScore != 90 {
		t.Errorf("recommended[0] = %s (%d), want backend_dev (90)",
			result.Recommended[0].ID, result.Recommended[0].FitScore)
	}
	if result.Recommended[1].Explanation != "solid base" {
		t.Errorf("explanation not carried over: %q", result.Recommended[1].Explanation)
	}

	// Additional excludes the recommended ids.
	for _, role := range result.Additional {
		if role.ID == "backend_dev" || role.ID == "frontend_dev" {
			t.Errorf("recommended role %s leaked into additional", role.ID)
		}
	}
}

func TestGetRoadmapFallbackTemplate(t *testing.T) {
	g := fallbackGateway(t, nil)

	role, ok := catalog.RoleByID("frontend_dev")
	if !ok {
		t.Fatal("catalog missing frontend_dev")
	}

	weeks := g.GetRoadmap(context.Background(), role)
	want := catalog.RoadmapTemplate(role.ID)
	if len(weeks) != len(want) {
		t.Fatalf("expected %d weeks, got %d", len(want), len(weeks))
	}
	for _, week := range weeks {
		for _, goal := range week.Goals {
			if goal.Completed {
				t.Errorf("week %d goal %q should start unchecked", week.Week, goal.Text)
			}
		}
	}
}

func TestGetRoadmapFromModel(t *testing.T) {
	g := fallbackGateway(t, nil)
	g.roadmap = &stubProvider{
		generateRoadmap: func(ctx context.Context, role types.CareerRole) (types.RoadmapModelOutput, *TokenUsage, error) {
			return types.RoadmapModelOutput{Roadmap: []types.GeneratedRoadmapWeek{
				{Week: 1, Title: "Basics", Goals: []string{"Learn HTML", "Learn CSS"}},
				{Week: 2, Title: "JavaScript", Goals: []string{"Learn JS"}},
			}}, nil, nil
		},
	}

	role, _ := catalog.RoleByID("frontend_dev")
	weeks := g.GetRoadmap(context.Background(), role)

	if len(weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(weeks))
	}
	if weeks[0].Title != "Basics" || len(weeks[0].Goals) != 2 {
		t.Errorf("week 1 = %q with %d goals, want Basics with 2", weeks[0].Title, len(weeks[0].Goals))
	}
	if weeks[0].Goals[0].Text != "Learn HTML" || weeks[0].Goals[0].Completed {
		t.Errorf("goal conversion wrong: %+v", weeks[0].Goals[0])
	}
}

func TestGetResumeFeedback(t *testing.T) {
	g := fallbackGateway(t, nil)

	fb, err := g.GetResumeFeedback(context.Background())
	if err != nil {
		t.Fatalf("GetResumeFeedback: %v", err)
	}
	want := catalog.StaticResumeFeedback()
	if fb.Strengths != want.Strengths || len(fb.Points) != len(want.Points) {
		t.Errorf("feedback does not match static payload")
	}
}

func TestGetResumeFeedbackCancelled(t *testing.T) {
	cfg := testGatewayConfig()
	cfg.Gateway.ResumeFeedbackDelay = time.Minute
	g, err := NewGateway(cfg, testLogger, nil)
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.GetResumeFeedback(ctx); err == nil {
		t.Error("expected context error when cancelled before the delay elapses")
	}
}

func TestGetInterviewResponseFallback(t *testing.T) {
	g := fallbackGateway(t, nil)

	msg := g.GetInterviewResponse(context.Background(), []types.ChatMessage{
		{Sender: types.SenderUser, Text: "Tell me about the role."},
	}, "Software Engineering")

	if msg.Sender != types.SenderAI {
		t.Errorf("sender = %q, want %q", msg.Sender, types.SenderAI)
	}
	if msg.Text != fallbackInterviewReply {
		t.Errorf("text = %q, want fallback reply", msg.Text)
	}
}

func TestGetInterviewResponseWindowsTranscript(t *testing.T) {
	cfg := testGatewayConfig()
	cfg.Gateway.InterviewContextMessages = 3

	g, err := NewGateway(cfg, testLogger, nil)
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}

	var seen int
	g.interview = &stubProvider{
		interviewReply: func(ctx context.Context, messages []types.ChatMessage, field string) (string, *TokenUsage, error) {
			seen = len(messages)
			return "Next question.", nil, nil
		},
	}

	transcript := make([]types.ChatMessage, 8)
	for i := range transcript {
		transcript[i] = types.ChatMessage{Sender: types.SenderUser, Text: fmt.Sprintf("answer %d", i)}
	}

	msg := g.GetInterviewResponse(context.Background(), transcript, "Data Science")
	if seen != 3 {
		t.Errorf("provider saw %d messages, want the 3-message tail", seen)
	}
	if msg.Text != "Next question." {
		t.Errorf("text = %q", msg.Text)
	}
}

func TestGetInterviewSummaryShortTranscript(t *testing.T) {
	g := fallbackGateway(t, nil)
	g.interview = &stubProvider{
		summarize: func(ctx context.Context, messages []types.ChatMessage, field string) (types.InterviewSummary, *TokenUsage, error) {
			t.Error("provider should not be called for a one-message transcript")
			return types.InterviewSummary{}, nil, nil
		},
	}

	summary := g.GetInterviewSummary(context.Background(), []types.ChatMessage{
		{Sender: types.SenderAI, Text: "Hello, shall we begin?"},
	}, "Software Engineering")

	want := catalog.StaticInterviewSummary()
	if summary.Strengths != want.Strengths {
		t.Error("expected the static summary for a short transcript")
	}
}

func TestGetAssessmentUnknownID(t *testing.T) {
	g := fallbackGateway(t, nil)
	if a := g.GetAssessment(context.Background(), "no_such_assessment"); a != nil {
		t.Errorf("expected nil for unknown id, got %+v", a)
	}
}

func TestGetAssessmentPreSeededQuestions(t *testing.T) {
	g := fallbackGateway(t, nil)
	g.assessment = &stubProvider{
		generateQuestions: func(ctx context.Context, skill string) (types.GeneratedQuestionsOutput, *TokenUsage, error) {
			t.Error("provider should not be called when questions ship with the catalog")
			return types.GeneratedQuestionsOutput{}, nil, nil
		},
	}

	a := g.GetAssessment(context.Background(), "sql_adv_1")
	if a == nil {
		t.Fatal("catalog missing sql_adv_1")
	}
	if len(a.Questions) == 0 {
		t.Error("pre-seeded questions missing")
	}
}

func TestGetAssessmentGeneratesAndCaches(t *testing.T) {
	g := fallbackGateway(t, nil)

	var calls int
	g.assessment = &stubProvider{
		generateQuestions: func(ctx context.Context, skill string) (types.GeneratedQuestionsOutput, *TokenUsage, error) {
			calls++
			return types.GeneratedQuestionsOutput{Questions: []types.AssessmentQuestion{
				{ID: "q1", Question: "What is a list comprehension?", Options: []string{"a", "b"}, Answer: "a"},
			}}, nil, nil
		},
	}

	first := g.GetAssessment(context.Background(), "python_basics_1")
	if first == nil || len(first.Questions) != 1 {
		t.Fatalf("expected 1 generated question, got %+v", first)
	}

	second := g.GetAssessment(context.Background(), "python_basics_1")
	if second == nil || len(second.Questions) != 1 {
		t.Fatal("cached questions missing on second access")
	}
	if calls != 1 {
		t.Errorf("provider called %d times, want 1 (cache hit)", calls)
	}
}

func TestGetAssessmentGenerationFailureLeavesQuestionsEmpty(t *testing.T) {
	hook := &recordingHook{}
	g := fallbackGateway(t, hook)

	a := g.GetAssessment(context.Background(), "python_basics_1")
	if a == nil {
		t.Fatal("catalog missing python_basics_1")
	}
	if len(a.Questions) != 0 {
		t.Errorf("expected empty questions on fallback, got %d", len(a.Questions))
	}
	if hook.fallbackCount() != 1 {
		t.Errorf("expected 1 fallback notification, got %d", hook.fallbackCount())
	}
}

func TestGetRecommendedAssessmentsFallback(t *testing.T) {
	g := fallbackGateway(t, nil)

	role := types.CareerRole{
		ID:            "custom",
		MissingSkills: []string{"Advanced SQL", "React.js / Next.js", "Python", "Network Security"},
	}

	picked := g.GetRecommendedAssessments(context.Background(), role)
	if len(picked) != 3 {
		t.Fatalf("expected at most 3 recommendations, got %d", len(picked))
	}
	for _, a := range picked {
		found := false
		for _, s := range role.MissingSkills {
			if a.Skill == s {
				found = true
			}
		}
		if !found {
			t.Errorf("assessment %s targets %q which is not a missing skill", a.ID, a.Skill)
		}
	}
}

func TestGetRecommendedAssessmentsFromModel(t *testing.T) {
	g := fallbackGateway(t, nil)
	g.assessment = &stubProvider{
		recommend: func(ctx context.Context, missingSkills []string, assessments []types.Assessment) (types.AssessmentRecommendationOutput, *TokenUsage, error) {
			return types.AssessmentRecommendationOutput{Recommendations: []string{"sql_adv_1", "bogus_id"}}, nil, nil
		},
	}

	picked := g.GetRecommendedAssessments(context.Background(), types.CareerRole{ID: "x"})
	if len(picked) != 1 || picked[0].ID != "sql_adv_1" {
		t.Errorf("expected only the known id sql_adv_1, got %+v", picked)
	}
}

func TestGetAssessmentsForRole(t *testing.T) {
	g := fallbackGateway(t, nil)

	role := types.CareerRole{
		ID:          "custom",
		TotalSkills: []string{"Advanced SQL", "Python", "Something Nobody Tests"},
	}

	matched := g.GetAssessmentsForRole(role)
	if len(matched) != 2 {
		t.Fatalf("expected 2 matching assessments, got %d", len(matched))
	}
	for _, a := range matched {
		if a.Skill != "Advanced SQL" && a.Skill != "Python" {
			t.Errorf("unexpected assessment %s for skill %q", a.ID, a.Skill)
		}
	}

	if got := g.GetAssessmentsForRole(types.CareerRole{ID: "empty"}); len(got) != 0 {
		t.Errorf("role with no skills matched %d assessments", len(got))
	}
}

func TestGetJobsFallbackFilters(t *testing.T) {
	g := fallbackGateway(t, nil)

	allFilters := types.JobFilters{
		Experience:  types.FilterAll,
		CompanySize: types.FilterAll,
		Industry:    types.FilterAll,
		WorkStyle:   types.FilterAll,
		Stream:      types.FilterAll,
	}

	t.Run("no filters returns whole catalog", func(t *testing.T) {
		jobs := g.GetJobs(context.Background(), allFilters, nil, nil)
		if len(jobs) != len(catalog.Jobs()) {
			t.Errorf("expected %d jobs, got %d", len(catalog.Jobs()), len(jobs))
		}
		for _, job := range jobs {
			if job.MatchScore != nil {
				t.Errorf("fallback job %s carries a match score", job.ID)
			}
		}
	})

	t.Run("role substring match", func(t *testing.T) {
		filters := allFilters
		filters.Role = "data analyst"
		jobs := g.GetJobs(context.Background(), filters, nil, nil)
		if len(jobs) == 0 {
			t.Fatal("expected at least one data analyst job")
		}
		for _, job := range jobs {
			if job.ID == "" {
				t.Error("empty job returned")
			}
		}
	})

	t.Run("location substring match", func(t *testing.T) {
		filters := allFilters
		filters.Location = "bengaluru"
		jobs := g.GetJobs(context.Background(), filters, nil, nil)
		for _, job := range jobs {
			if job.Location != "Bengaluru" {
				t.Errorf("job %s location %q does not match filter", job.ID, job.Location)
			}
		}
	})

	t.Run("exact filters combine", func(t *testing.T) {
		filters := allFilters
		filters.Experience = "Internship"
		filters.WorkStyle = "On-site"
		jobs := g.GetJobs(context.Background(), filters, nil, nil)
		for _, job := range jobs {
			if job.Experience != "Internship" || job.WorkStyle != "On-site" {
				t.Errorf("job %s does not satisfy both filters", job.ID)
			}
		}
	})

	t.Run("impossible filter yields empty non-nil slice", func(t *testing.T) {
		filters := allFilters
		filters.Industry = "Deep Sea Mining"
		jobs := g.GetJobs(context.Background(), filters, nil, nil)
		if jobs == nil {
			t.Fatal("expected empty slice, got nil")
		}
		if len(jobs) != 0 {
			t.Errorf("expected no jobs, got %d", len(jobs))
		}
	})
}

func TestGetJobsFromModel(t *testing.T) {
	g := fallbackGateway(t, nil)
	g.jobs = &stubProvider{
		matchJobs: func(ctx context.Context, filters types.JobFilters, profile *types.UserProfile, role *types.CareerRole, jobs []types.JobListing) (types.JobMatchOutput, *TokenUsage, error) {
			return types.JobMatchOutput{Jobs: []types.JobMatch{
				{ID: "job2", MatchScore: 85, MatchReason: "skills align"},
				{ID: "unknown_job", MatchScore: 99, MatchReason: "hallucinated"},
			}}, nil, nil
		},
	}

	jobs := g.GetJobs(context.Background(), types.JobFilters{}, nil, nil)
	if len(jobs) != 1 {
		t.Fatalf("expected 1 matched job, got %d", len(jobs))
	}
	if jobs[0].ID != "job2" {
		t.Errorf("job id = %s, want job2", jobs[0].ID)
	}
	if jobs[0].MatchScore == nil || *jobs[0].MatchScore != 85 {
		t.Error("match score not carried onto the listing")
	}
	if jobs[0].MatchReason != "skills align" {
		t.Errorf("match reason = %q", jobs[0].MatchReason)
	}
}

func TestGatewayStatsUnconfiguredGroups(t *testing.T) {
	g := fallbackGateway(t, nil)

	stats := g.Stats()
	for _, name := range []string{"role_fit", "roadmap", "interview", "assessment", "jobs"} {
		entry, ok := stats[name].(map[string]any)
		if !ok {
			t.Fatalf("missing stats entry for %s", name)
		}
		if configured, _ := entry["configured"].(bool); configured {
			t.Errorf("group %s should report configured=false", name)
		}
	}
}

func TestGatewayModelInfoSkipsUnconfigured(t *testing.T) {
	g := fallbackGateway(t, nil)
	if info := g.ModelInfo(context.Background()); len(info) != 0 {
		t.Errorf("expected no model info without providers, got %d entries", len(info))
	}

	g.interview = &stubProvider{}
	info := g.ModelInfo(context.Background())
	if len(info) != 1 || info["interview"] == nil {
		t.Errorf("expected only the interview entry, got %v", info)
	}
}
