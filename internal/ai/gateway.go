package ai

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"careercompass/internal/catalog"
	"careercompass/internal/config"
	"careercompass/internal/errors"
	"careercompass/internal/types"
)

// fallbackInterviewReply is returned when the interviewer model is unreachable.
const fallbackInterviewReply = "I'm having a bit of trouble connecting. Could you please repeat your last answer?"

// MetricsHook receives gateway outcome notifications. Implementations must be
// safe for concurrent use.
type MetricsHook interface {
	RecordAIOperation(ctx context.Context, operation string, duration time.Duration, success bool, usage *TokenUsage)
	RecordFallback(ctx context.Context, operation string)
}

// Gateway is the single entry point for every AI-backed feature. Each
// operation degrades to a deterministic local result when its model is
// unreachable or misconfigured; callers never see a remote failure.
type Gateway struct {
	cfg    *config.Config
	logger *errors.Logger
	hooks  MetricsHook

	roleFit    Provider
	roadmap    Provider
	interview  Provider
	assessment Provider
	jobs       Provider

	// Generated question sets, keyed by assessment id. First writer wins.
	cacheMu       sync.Mutex
	questionCache map[string][]types.AssessmentQuestion
}

// NewGateway wires one provider per operation group. Operation groups without
// an API key get no provider and serve fallbacks only.
func NewGateway(cfg *config.Config, logger *errors.Logger, hooks MetricsHook) (*Gateway, error) {
	g := &Gateway{
		cfg:           cfg,
		logger:        logger,
		hooks:         hooks,
		questionCache: make(map[string][]types.AssessmentQuestion),
	}

	groups := []struct {
		name   string
		opCfg  config.OperationAIConfig
		target *Provider
	}{
		{"role_fit", cfg.GetRoleFitConfig(), &g.roleFit},
		{"roadmap", cfg.GetRoadmapConfig(), &g.roadmap},
		{"interview", cfg.GetInterviewConfig(), &g.interview},
		{"assessment", cfg.GetAssessmentConfig(), &g.assessment},
		{"jobs", cfg.GetJobsConfig(), &g.jobs},
	}

	for i := range groups {
		group := &groups[i]
		if group.opCfg.APIKey == "" {
			logger.Warn("No API key configured, operation group will serve fallbacks only",
				"operation_group", group.name)
			continue
		}
		svc, err := NewService(&group.opCfg, &cfg.AI.CustomPrompts, group.name, logger)
		if err != nil {
			return nil, err
		}
		*group.target = svc.Provider
	}

	return g, nil
}

// Close releases every provider.
func (g *Gateway) Close() error {
	for _, p := range g.providers() {
		if p != nil {
			_ = p.Close()
		}
	}
	return nil
}

func (g *Gateway) providers() []Provider {
	return []Provider{g.roleFit, g.roadmap, g.interview, g.assessment, g.jobs}
}

// Stats returns circuit breaker statistics for every provider group.
func (g *Gateway) Stats() map[string]any {
	names := []string{"role_fit", "roadmap", "interview", "assessment", "jobs"}
	stats := make(map[string]any, len(names))
	for i, p := range g.providers() {
		if p == nil {
			stats[names[i]] = map[string]any{"configured": false}
			continue
		}
		if sp, ok := p.(interface{ GetCircuitBreakerStats() map[string]any }); ok {
			stats[names[i]] = sp.GetCircuitBreakerStats()
		}
	}
	return stats
}

// ModelInfo reports model availability per configured provider group.
func (g *Gateway) ModelInfo(ctx context.Context) map[string]*ModelInfo {
	names := []string{"role_fit", "roadmap", "interview", "assessment", "jobs"}
	info := make(map[string]*ModelInfo, len(names))
	for i, p := range g.providers() {
		if p == nil {
			continue
		}
		info[names[i]] = p.GetModelInfo(ctx)
	}
	return info
}

func (g *Gateway) recordOutcome(ctx context.Context, operation string, start time.Time, success bool, usage *TokenUsage) {
	if g.hooks != nil {
		g.hooks.RecordAIOperation(ctx, operation, time.Since(start), success, usage)
	}
}

func (g *Gateway) fallback(ctx context.Context, operation string, err error) {
	if err != nil {
		g.logger.Warn("AI operation failed, serving fallback",
			"operation", operation,
			"error", err.Error())
	}
	if g.hooks != nil {
		g.hooks.RecordFallback(ctx, operation)
	}
}

// GetRoleFit recommends career roles for a profile. Profiles without a stream
// or interests produce an empty result with no remote call.
func (g *Gateway) GetRoleFit(ctx context.Context, profile *types.UserProfile) types.RoleFitResult {
	empty := types.RoleFitResult{Recommended: []types.CareerRole{}, Additional: []types.CareerRole{}}
	if profile == nil || profile.Stream == "" || profile.Interests == "" {
		return empty
	}

	if g.roleFit != nil {
		start := time.Now()
		out, usage, err := g.roleFit.SuggestRoles(ctx, *profile, catalog.Roles())
		g.recordOutcome(ctx, "role_fit", start, err == nil, usage)
		if err == nil {
			return g.mergeRoleFit(ctx, profile.Stream, out)
		}
		g.fallback(ctx, "role_fit", err)
	} else {
		g.fallback(ctx, "role_fit", nil)
	}

	streamRoles := catalog.RolesForStream(profile.Stream)
	result := types.RoleFitResult{Recommended: []types.CareerRole{}, Additional: []types.CareerRole{}}
	if len(streamRoles) > 3 {
		result.Recommended = streamRoles[:3]
		result.Additional = streamRoles[3:min(len(streamRoles), 8)]
	} else {
		result.Recommended = streamRoles
	}
	return result
}

// mergeRoleFit decorates catalog roles with the model's scores and splits the
// remainder into additional stream-relevant suggestions.
func (g *Gateway) mergeRoleFit(ctx context.Context, stream string, out types.RoleFitModelOutput) types.RoleFitResult {
	byID := make(map[string]types.RoleRecommendation, len(out.Recommendations))
	for _, rec := range out.Recommendations {
		byID[rec.ID] = rec
	}

	recommended := []types.CareerRole{}
	for _, role := range catalog.Roles() {
		rec, ok := byID[role.ID]
		if !ok {
			continue
		}
		role.FitScore = rec.FitScore
		role.Explanation = rec.Explanation
		role.MissingSkills = rec.MissingSkills
		recommended = append(recommended, role)
	}
	sort.SliceStable(recommended, func(i, j int) bool {
		return recommended[i].FitScore > recommended[j].FitScore
	})

	additional := []types.CareerRole{}
	for _, role := range catalog.RolesForStream(stream) {
		if _, ok := byID[role.ID]; ok {
			continue
		}
		additional = append(additional, role)
	}

	return types.RoleFitResult{Recommended: recommended, Additional: additional}
}

// GetRoadmap generates a 4-week learning plan for a role. Unknown roles and
// model failures fall back to the per-role template catalog.
func (g *Gateway) GetRoadmap(ctx context.Context, role types.CareerRole) []types.RoadmapWeek {
	if g.roadmap != nil {
		start := time.Now()
		out, usage, err := g.roadmap.GenerateRoadmap(ctx, role)
		g.recordOutcome(ctx, "roadmap", start, err == nil, usage)
		if err == nil {
			weeks := make([]types.RoadmapWeek, len(out.Roadmap))
			for i, w := range out.Roadmap {
				goals := make([]types.RoadmapGoal, len(w.Goals))
				for j, text := range w.Goals {
					goals[j] = types.RoadmapGoal{Text: text, Completed: false}
				}
				weeks[i] = types.RoadmapWeek{Week: w.Week, Title: w.Title, Goals: goals, Notes: ""}
			}
			return weeks
		}
		g.fallback(ctx, "roadmap", err)
	} else {
		g.fallback(ctx, "roadmap", nil)
	}

	return catalog.RoadmapTemplate(role.ID)
}

// GetResumeFeedback returns static review feedback after a fixed delay that
// stands in for an upload-and-analyze round trip.
func (g *Gateway) GetResumeFeedback(ctx context.Context) (types.ResumeFeedback, error) {
	select {
	case <-time.After(g.cfg.Gateway.ResumeFeedbackDelay):
	case <-ctx.Done():
		return types.ResumeFeedback{}, ctx.Err()
	}
	return catalog.StaticResumeFeedback(), nil
}

// GetInterviewResponse produces the interviewer's next turn from the tail of
// the transcript.
func (g *Gateway) GetInterviewResponse(ctx context.Context, messages []types.ChatMessage, field string) types.ChatMessage {
	if g.interview != nil {
		window := g.cfg.Gateway.InterviewContextMessages
		tail := messages
		if len(tail) > window {
			tail = tail[len(tail)-window:]
		}

		start := time.Now()
		text, usage, err := g.interview.InterviewReply(ctx, tail, field)
		g.recordOutcome(ctx, "interview_response", start, err == nil, usage)
		if err == nil {
			return types.ChatMessage{Sender: types.SenderAI, Text: text}
		}
		g.fallback(ctx, "interview_response", err)
	} else {
		g.fallback(ctx, "interview_response", nil)
	}

	return types.ChatMessage{Sender: types.SenderAI, Text: fallbackInterviewReply}
}

// GetInterviewSummary produces end-of-interview feedback. Transcripts with at
// most one message get the static summary without a remote call.
func (g *Gateway) GetInterviewSummary(ctx context.Context, messages []types.ChatMessage, field string) types.InterviewSummary {
	if len(messages) <= 1 {
		return catalog.StaticInterviewSummary()
	}

	if g.interview != nil {
		start := time.Now()
		summary, usage, err := g.interview.SummarizeInterview(ctx, messages, field)
		g.recordOutcome(ctx, "interview_summary", start, err == nil, usage)
		if err == nil {
			return summary
		}
		g.fallback(ctx, "interview_summary", err)
	} else {
		g.fallback(ctx, "interview_summary", nil)
	}

	return catalog.StaticInterviewSummary()
}

// GetAssessment resolves an assessment by id, generating its question set on
// first access when the catalog ships it empty. Returns nil for unknown ids.
func (g *Gateway) GetAssessment(ctx context.Context, assessmentID string) *types.Assessment {
	assessment, ok := catalog.AssessmentByID(assessmentID)
	if !ok {
		return nil
	}
	if len(assessment.Questions) > 0 {
		return &assessment
	}

	g.cacheMu.Lock()
	cached, hit := g.questionCache[assessmentID]
	g.cacheMu.Unlock()
	if hit {
		assessment.Questions = cached
		return &assessment
	}

	if g.assessment != nil {
		start := time.Now()
		out, usage, err := g.assessment.GenerateQuestions(ctx, assessment.Skill)
		g.recordOutcome(ctx, "assessment_questions", start, err == nil, usage)
		if err == nil && len(out.Questions) > 0 {
			g.cacheMu.Lock()
			// Another request may have generated meanwhile; keep the first set
			if existing, ok := g.questionCache[assessmentID]; ok {
				out.Questions = existing
			} else {
				g.questionCache[assessmentID] = out.Questions
			}
			g.cacheMu.Unlock()
			assessment.Questions = out.Questions
			return &assessment
		}
		g.fallback(ctx, "assessment_questions", err)
	} else {
		g.fallback(ctx, "assessment_questions", nil)
	}

	// Questions stay empty so a later attempt can generate them
	return &assessment
}

// GetRecommendedAssessments picks up to three assessments targeting the
// role's missing skills.
func (g *Gateway) GetRecommendedAssessments(ctx context.Context, role types.CareerRole) []types.Assessment {
	if g.assessment != nil {
		start := time.Now()
		out, usage, err := g.assessment.RecommendAssessments(ctx, role.MissingSkills, catalog.Assessments())
		g.recordOutcome(ctx, "recommend_assessments", start, err == nil, usage)
		if err == nil {
			ids := make(map[string]struct{}, len(out.Recommendations))
			for _, id := range out.Recommendations {
				ids[id] = struct{}{}
			}
			picked := []types.Assessment{}
			for _, a := range catalog.Assessments() {
				if _, ok := ids[a.ID]; ok {
					picked = append(picked, a)
				}
			}
			return picked
		}
		g.fallback(ctx, "recommend_assessments", err)
	} else {
		g.fallback(ctx, "recommend_assessments", nil)
	}

	skills := make(map[string]struct{}, len(role.MissingSkills))
	for _, s := range role.MissingSkills {
		skills[s] = struct{}{}
	}
	picked := []types.Assessment{}
	for _, a := range catalog.Assessments() {
		if _, ok := skills[a.Skill]; ok {
			picked = append(picked, a)
			if len(picked) == 3 {
				break
			}
		}
	}
	return picked
}

// GetAssessmentsForRole returns every assessment whose skill appears in the
// role's full skill list. Purely local.
func (g *Gateway) GetAssessmentsForRole(role types.CareerRole) []types.Assessment {
	skills := make(map[string]struct{}, len(role.TotalSkills))
	for _, s := range role.TotalSkills {
		skills[s] = struct{}{}
	}
	matched := []types.Assessment{}
	for _, a := range catalog.Assessments() {
		if _, ok := skills[a.Skill]; ok {
			matched = append(matched, a)
		}
	}
	return matched
}

// GetJobs matches catalog jobs against the user's filters and profile. The
// fallback applies the filters literally and carries no match scores.
func (g *Gateway) GetJobs(ctx context.Context, filters types.JobFilters, profile *types.UserProfile, role *types.CareerRole) []types.JobListing {
	if g.jobs != nil {
		start := time.Now()
		out, usage, err := g.jobs.MatchJobs(ctx, filters, profile, role, catalog.Jobs())
		g.recordOutcome(ctx, "job_match", start, err == nil, usage)
		if err == nil {
			byID := make(map[string]types.JobMatch, len(out.Jobs))
			for _, m := range out.Jobs {
				byID[m.ID] = m
			}
			matched := []types.JobListing{}
			for _, job := range catalog.Jobs() {
				m, ok := byID[job.ID]
				if !ok {
					continue
				}
				score := m.MatchScore
				job.MatchScore = &score
				job.MatchReason = m.MatchReason
				matched = append(matched, job)
			}
			return matched
		}
		g.fallback(ctx, "job_match", err)
	} else {
		g.fallback(ctx, "job_match", nil)
	}

	return filterJobs(catalog.Jobs(), filters)
}

// filterJobs applies the search filters literally: substring matches for role
// and location, exact matches elsewhere unless the filter is "all".
func filterJobs(jobs []types.JobListing, filters types.JobFilters) []types.JobListing {
	matched := []types.JobListing{}
	for _, job := range jobs {
		if filters.Role != "" && !strings.Contains(strings.ToLower(job.Title), strings.ToLower(filters.Role)) {
			continue
		}
		if filters.Location != "" && !strings.Contains(strings.ToLower(job.Location), strings.ToLower(filters.Location)) {
			continue
		}
		if filters.Experience != types.FilterAll && job.Experience != filters.Experience {
			continue
		}
		if filters.CompanySize != types.FilterAll && job.CompanySize != filters.CompanySize {
			continue
		}
		if filters.Industry != types.FilterAll && job.Industry != filters.Industry {
			continue
		}
		if filters.WorkStyle != types.FilterAll && job.WorkStyle != filters.WorkStyle {
			continue
		}
		if filters.Stream != types.FilterAll && !slices.Contains(job.RelevantStreams, filters.Stream) {
			continue
		}
		matched = append(matched, job)
	}
	return matched
}
