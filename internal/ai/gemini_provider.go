package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"careercompass/internal/config"
	ccErrors "careercompass/internal/errors"
	"careercompass/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	httpClient     *http.Client
	config         *config.OperationAIConfig
	prompts        *config.PromptConfig
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	logger         *ccErrors.Logger
}

// Ensure GeminiProvider implements Provider
var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, prompts *config.PromptConfig, operationType string, logger *ccErrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, ccErrors.NewAIError(ccErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	circuitBreaker := NewAICircuitBreaker(operationType, cfg, logger)
	modelBreaker := NewModelCircuitBreaker(operationType, cfg, logger)

	return &GeminiProvider{
		client: client,
		httpClient: &http.Client{
			Timeout: *cfg.Timeout,
		},
		config:         cfg,
		prompts:        prompts,
		circuitBreaker: circuitBreaker,
		modelBreaker:   modelBreaker,
		logger:         logger,
	}, nil
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

const modelCheckTimeout = 10 * time.Second

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= *g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", *g.config.MaxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			// Cap maximum backoff at 30 seconds
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		// Don't retry on certain errors (auth, invalid input, etc.)
		if !g.isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", *g.config.MaxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, *g.config.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func (g *GeminiProvider) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Network errors (timeouts, connection issues) are worth retrying
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// generate runs the traced, breaker-protected, retried content generation and
// returns the raw response.
func (g *GeminiProvider) generate(ctx context.Context, operationName, userPrompt, systemPrompt string, genaiConfig *genai.GenerateContentConfig, spanAttributes ...attribute.KeyValue) (*genai.GenerateContentResponse, error) {
	tracer := otel.Tracer("careercompass.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, ccErrors.NewAIError(ccErrors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
	}

	if usage := extractTokenUsage(result); usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return result, nil
}

// executeAIOperation is a generic helper to run AI operations with common tracing, circuit breaker, and parsing logic.
func executeAIOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out

	result, err := g.generate(ctx, operationName, userPrompt, systemPrompt, genaiConfig, spanAttributes...)
	if err != nil {
		return output, nil, err
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		return output, nil, ccErrors.NewAIError("AI_RESPONSE_PARSE_FAILED", "Failed to parse AI response for "+operationName, err)
	}

	return output, extractTokenUsage(result), nil
}

// SuggestRoles implements Provider for role-fit recommendations
func (g *GeminiProvider) SuggestRoles(ctx context.Context, profile types.UserProfile, roles []types.CareerRole) (types.RoleFitModelOutput, *TokenUsage, error) {
	// Trim the catalog to the fields the model needs
	type promptRole struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		TotalSkills []string `json:"totalSkills"`
	}
	promptRoles := make([]promptRole, len(roles))
	for i, role := range roles {
		promptRoles[i] = promptRole{
			ID:          role.ID,
			Title:       role.Title,
			Description: role.Description,
			TotalSkills: role.TotalSkills,
		}
	}
	rolesJSON, err := json.MarshalIndent(promptRoles, "", "  ")
	if err != nil {
		return types.RoleFitModelOutput{}, nil, ccErrors.NewAIError(ccErrors.ErrCodeAIServiceFailed, "Failed to encode role catalog", err)
	}

	systemPrompt := g.getSystemPrompt("roleFit")
	userPrompt := fmt.Sprintf(g.getUserPrompt("roleFit"),
		profile.Stream, profile.Interests, profile.Goals, string(rolesJSON))

	return executeAIOperation[types.RoleFitModelOutput](
		g,
		ctx,
		"suggest_roles",
		userPrompt,
		systemPrompt,
		g.buildRoleFitSchema(),
		attribute.String("input.stream", profile.Stream),
		attribute.Int("input.catalog_size", len(roles)),
	)
}

// GenerateRoadmap implements Provider for learning roadmap generation
func (g *GeminiProvider) GenerateRoadmap(ctx context.Context, role types.CareerRole) (types.RoadmapModelOutput, *TokenUsage, error) {
	systemPrompt := g.getSystemPrompt("roadmap")
	userPrompt := fmt.Sprintf(g.getUserPrompt("roadmap"),
		role.Title, strings.Join(role.MissingSkills, ", "))

	return executeAIOperation[types.RoadmapModelOutput](
		g,
		ctx,
		"generate_roadmap",
		userPrompt,
		systemPrompt,
		g.buildRoadmapSchema(),
		attribute.String("input.role_id", role.ID),
		attribute.Int("input.missing_skills", len(role.MissingSkills)),
	)
}

// InterviewReply implements Provider for one mock-interview turn. The reply
// is conversational text, not structured JSON.
func (g *GeminiProvider) InterviewReply(ctx context.Context, messages []types.ChatMessage, field string) (string, *TokenUsage, error) {
	lines := make([]string, len(messages))
	for i, m := range messages {
		lines[i] = fmt.Sprintf("%s: %s", m.Sender, m.Text)
	}

	systemPrompt := fmt.Sprintf(g.getSystemPrompt("interviewResponse"), field)
	userPrompt := fmt.Sprintf(g.getUserPrompt("interviewResponse"), strings.Join(lines, "\n"))

	genaiConfig := &genai.GenerateContentConfig{}
	g.applyTemperature(genaiConfig)

	result, err := g.generate(ctx, "interview_reply", userPrompt, systemPrompt, genaiConfig,
		attribute.String("input.field", field),
		attribute.Int("input.messages", len(messages)),
	)
	if err != nil {
		return "", nil, err
	}

	return result.Text(), extractTokenUsage(result), nil
}

// SummarizeInterview implements Provider for end-of-interview feedback
func (g *GeminiProvider) SummarizeInterview(ctx context.Context, messages []types.ChatMessage, field string) (types.InterviewSummary, *TokenUsage, error) {
	lines := make([]string, len(messages))
	for i, m := range messages {
		speaker := "Candidate"
		if m.Sender == types.SenderAI {
			speaker = "Interviewer"
		}
		lines[i] = fmt.Sprintf("%s: %s", speaker, m.Text)
	}

	systemPrompt := g.getSystemPrompt("interviewSummary")
	userPrompt := fmt.Sprintf(g.getUserPrompt("interviewSummary"), field, strings.Join(lines, "\n"))

	return executeAIOperation[types.InterviewSummary](
		g,
		ctx,
		"summarize_interview",
		userPrompt,
		systemPrompt,
		g.buildSummarySchema(),
		attribute.String("input.field", field),
		attribute.Int("input.messages", len(messages)),
	)
}

// GenerateQuestions implements Provider for on-demand assessment questions
func (g *GeminiProvider) GenerateQuestions(ctx context.Context, skill string) (types.GeneratedQuestionsOutput, *TokenUsage, error) {
	systemPrompt := g.getSystemPrompt("assessmentQuestions")
	userPrompt := fmt.Sprintf(g.getUserPrompt("assessmentQuestions"), skill)

	return executeAIOperation[types.GeneratedQuestionsOutput](
		g,
		ctx,
		"generate_questions",
		userPrompt,
		systemPrompt,
		g.buildQuestionsSchema(),
		attribute.String("input.skill", skill),
	)
}

// RecommendAssessments implements Provider for ranking assessments against
// the user's skill gaps
func (g *GeminiProvider) RecommendAssessments(ctx context.Context, missingSkills []string, assessments []types.Assessment) (types.AssessmentRecommendationOutput, *TokenUsage, error) {
	type promptAssessment struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Skill string `json:"skill"`
	}
	promptAssessments := make([]promptAssessment, len(assessments))
	for i, a := range assessments {
		promptAssessments[i] = promptAssessment{ID: a.ID, Title: a.Title, Skill: a.Skill}
	}
	assessmentsJSON, err := json.Marshal(promptAssessments)
	if err != nil {
		return types.AssessmentRecommendationOutput{}, nil, ccErrors.NewAIError(ccErrors.ErrCodeAIServiceFailed, "Failed to encode assessment catalog", err)
	}

	systemPrompt := g.getSystemPrompt("recommendAssessments")
	userPrompt := fmt.Sprintf(g.getUserPrompt("recommendAssessments"),
		strings.Join(missingSkills, ", "), string(assessmentsJSON))

	return executeAIOperation[types.AssessmentRecommendationOutput](
		g,
		ctx,
		"recommend_assessments",
		userPrompt,
		systemPrompt,
		g.buildRecommendationsSchema(),
		attribute.Int("input.missing_skills", len(missingSkills)),
		attribute.Int("input.catalog_size", len(assessments)),
	)
}

// MatchJobs implements Provider for scoring job listings
func (g *GeminiProvider) MatchJobs(ctx context.Context, filters types.JobFilters, profile *types.UserProfile, role *types.CareerRole, jobs []types.JobListing) (types.JobMatchOutput, *TokenUsage, error) {
	type promptJob struct {
		ID             string   `json:"id"`
		Title          string   `json:"title"`
		Company        string   `json:"company"`
		Location       string   `json:"location"`
		Experience     string   `json:"experience"`
		RequiredSkills []string `json:"requiredSkills"`
		Industry       string   `json:"industry"`
		WorkStyle      string   `json:"workStyle"`
	}
	promptJobs := make([]promptJob, len(jobs))
	for i, job := range jobs {
		promptJobs[i] = promptJob{
			ID:             job.ID,
			Title:          job.Title,
			Company:        job.Company,
			Location:       job.Location,
			Experience:     job.Experience,
			RequiredSkills: job.RequiredSkills,
			Industry:       job.Industry,
			WorkStyle:      job.WorkStyle,
		}
	}
	jobsJSON, err := json.MarshalIndent(promptJobs, "", "  ")
	if err != nil {
		return types.JobMatchOutput{}, nil, ccErrors.NewAIError(ccErrors.ErrCodeAIServiceFailed, "Failed to encode job catalog", err)
	}
	filtersJSON, err := json.MarshalIndent(filters, "", "  ")
	if err != nil {
		return types.JobMatchOutput{}, nil, ccErrors.NewAIError(ccErrors.ErrCodeAIServiceFailed, "Failed to encode job filters", err)
	}

	stream, interests, skills := "Not provided", "Not provided", "Not provided"
	if profile != nil {
		if profile.Stream != "" {
			stream = profile.Stream
		}
		if profile.Interests != "" {
			interests = profile.Interests
		}
	}
	if role != nil && len(role.TotalSkills) > 0 {
		skills = strings.Join(role.TotalSkills, ", ")
	}

	systemPrompt := g.getSystemPrompt("jobMatch")
	userPrompt := fmt.Sprintf(g.getUserPrompt("jobMatch"),
		stream, interests, skills, string(filtersJSON), string(jobsJSON))

	return executeAIOperation[types.JobMatchOutput](
		g,
		ctx,
		"match_jobs",
		userPrompt,
		systemPrompt,
		g.buildJobMatchSchema(),
		attribute.Int("input.catalog_size", len(jobs)),
	)
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
	}

	// Overall health - both breakers must be healthy
	aiHealthy := g.circuitBreaker.IsHealthy()
	modelHealthy := g.modelBreaker.IsModelHealthy()
	stats["overall_healthy"] = aiHealthy && modelHealthy

	return stats
}

// Close implements Provider interface
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}

// applyTemperature applies temperature configuration if set
func (g *GeminiProvider) applyTemperature(cfg *genai.GenerateContentConfig) {
	if *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}
}

// buildRoleFitSchema creates the schema for role-fit requests
func (g *GeminiProvider) buildRoleFitSchema() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"recommendations": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"id":          {Type: genai.TypeString},
							"fitScore":    {Type: genai.TypeInteger},
							"explanation": {Type: genai.TypeString},
							"missingSkills": {
								Type:  genai.TypeArray,
								Items: &genai.Schema{Type: genai.TypeString},
							},
						},
						Required: []string{"id", "fitScore", "explanation", "missingSkills"},
					},
				},
			},
			Required: []string{"recommendations"},
		},
	}
	g.applyTemperature(cfg)
	return cfg
}

// buildRoadmapSchema creates the schema for roadmap requests
func (g *GeminiProvider) buildRoadmapSchema() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"roadmap": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"week":  {Type: genai.TypeInteger},
							"title": {Type: genai.TypeString},
							"goals": {
								Type:  genai.TypeArray,
								Items: &genai.Schema{Type: genai.TypeString},
							},
						},
						Required: []string{"week", "title", "goals"},
					},
				},
			},
			Required: []string{"roadmap"},
		},
	}
	g.applyTemperature(cfg)
	return cfg
}

// buildSummarySchema creates the schema for interview summary requests
func (g *GeminiProvider) buildSummarySchema() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"strengths":    {Type: genai.TypeString},
				"improvements": {Type: genai.TypeString},
			},
			Required: []string{"strengths", "improvements"},
		},
	}
	g.applyTemperature(cfg)
	return cfg
}

// buildQuestionsSchema creates the schema for assessment question generation
func (g *GeminiProvider) buildQuestionsSchema() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"questions": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"id":       {Type: genai.TypeString},
							"question": {Type: genai.TypeString},
							"options": {
								Type:  genai.TypeArray,
								Items: &genai.Schema{Type: genai.TypeString},
							},
							"answer": {Type: genai.TypeString},
						},
						Required: []string{"id", "question", "options", "answer"},
					},
				},
			},
			Required: []string{"questions"},
		},
	}
	g.applyTemperature(cfg)
	return cfg
}

// buildRecommendationsSchema creates the schema for assessment recommendations
func (g *GeminiProvider) buildRecommendationsSchema() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"recommendations": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"recommendations"},
		},
	}
	g.applyTemperature(cfg)
	return cfg
}

// buildJobMatchSchema creates the schema for job matching requests
func (g *GeminiProvider) buildJobMatchSchema() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"jobs": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"id":          {Type: genai.TypeString},
							"matchScore":  {Type: genai.TypeInteger},
							"matchReason": {Type: genai.TypeString},
						},
						Required: []string{"id", "matchScore", "matchReason"},
					},
				},
			},
			Required: []string{"jobs"},
		},
	}
	g.applyTemperature(cfg)
	return cfg
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

// getSystemPrompt returns the appropriate system prompt
func (g *GeminiProvider) getSystemPrompt(promptType string) string {
	loaded := config.GetLoadedPrompts().SystemPrompts
	var cfg config.SystemPrompts
	if g.prompts != nil {
		cfg = g.prompts.SystemPrompts
	}

	switch promptType {
	case "roleFit":
		return resolvePrompt(loaded.RoleFit, cfg.RoleFit, DefaultSystemPrompts.RoleFit)
	case "roadmap":
		return resolvePrompt(loaded.Roadmap, cfg.Roadmap, DefaultSystemPrompts.Roadmap)
	case "interviewResponse":
		return resolvePrompt(loaded.InterviewResponse, cfg.InterviewResponse, DefaultSystemPrompts.InterviewResponse)
	case "interviewSummary":
		return resolvePrompt(loaded.InterviewSummary, cfg.InterviewSummary, DefaultSystemPrompts.InterviewSummary)
	case "assessmentQuestions":
		return resolvePrompt(loaded.AssessmentQuestions, cfg.AssessmentQuestions, DefaultSystemPrompts.AssessmentQuestions)
	case "recommendAssessments":
		return resolvePrompt(loaded.RecommendAssessments, cfg.RecommendAssessments, DefaultSystemPrompts.RecommendAssessments)
	case "jobMatch":
		return resolvePrompt(loaded.JobMatch, cfg.JobMatch, DefaultSystemPrompts.JobMatch)
	default:
		return ""
	}
}

// getUserPrompt returns the appropriate user prompt template
func (g *GeminiProvider) getUserPrompt(promptType string) string {
	loaded := config.GetLoadedPrompts().UserPrompts
	var cfg config.UserPrompts
	if g.prompts != nil {
		cfg = g.prompts.UserPrompts
	}

	switch promptType {
	case "roleFit":
		return resolvePrompt(loaded.RoleFit, cfg.RoleFit, DefaultUserPrompts.RoleFit)
	case "roadmap":
		return resolvePrompt(loaded.Roadmap, cfg.Roadmap, DefaultUserPrompts.Roadmap)
	case "interviewResponse":
		return resolvePrompt(loaded.InterviewResponse, cfg.InterviewResponse, DefaultUserPrompts.InterviewResponse)
	case "interviewSummary":
		return resolvePrompt(loaded.InterviewSummary, cfg.InterviewSummary, DefaultUserPrompts.InterviewSummary)
	case "assessmentQuestions":
		return resolvePrompt(loaded.AssessmentQuestions, cfg.AssessmentQuestions, DefaultUserPrompts.AssessmentQuestions)
	case "recommendAssessments":
		return resolvePrompt(loaded.RecommendAssessments, cfg.RecommendAssessments, DefaultUserPrompts.RecommendAssessments)
	case "jobMatch":
		return resolvePrompt(loaded.JobMatch, cfg.JobMatch, DefaultUserPrompts.JobMatch)
	default:
		return ""
	}
}

// resolvePrompt selects the correct prompt string based on a clear priority order:
// 1. A prompt loaded from a file.
// 2. A prompt defined directly in the configuration.
// 3. A hardcoded default prompt.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
