package ai

import (
	"context"

	"careercompass/internal/types"
)

// Provider is the interface for AI model backends.
// All methods return token usage information - callers can ignore it if not needed.
type Provider interface {
	SuggestRoles(ctx context.Context, profile types.UserProfile, roles []types.CareerRole) (types.RoleFitModelOutput, *TokenUsage, error)
	GenerateRoadmap(ctx context.Context, role types.CareerRole) (types.RoadmapModelOutput, *TokenUsage, error)
	InterviewReply(ctx context.Context, messages []types.ChatMessage, field string) (string, *TokenUsage, error)
	SummarizeInterview(ctx context.Context, messages []types.ChatMessage, field string) (types.InterviewSummary, *TokenUsage, error)
	GenerateQuestions(ctx context.Context, skill string) (types.GeneratedQuestionsOutput, *TokenUsage, error)
	RecommendAssessments(ctx context.Context, missingSkills []string, assessments []types.Assessment) (types.AssessmentRecommendationOutput, *TokenUsage, error)
	MatchJobs(ctx context.Context, filters types.JobFilters, profile *types.UserProfile, role *types.CareerRole, jobs []types.JobListing) (types.JobMatchOutput, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
