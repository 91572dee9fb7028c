package server

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"careercompass/internal/catalog"
	"careercompass/internal/observability"
	"careercompass/internal/types"
)

// RoleFitRequest asks for role recommendations against a user profile.
type RoleFitRequest struct {
	Profile types.UserProfile `json:"profile"`
}

// RoadmapRequest asks for a learning roadmap for a catalog role.
type RoadmapRequest struct {
	RoleID string `json:"roleId"`
}

// InterviewRequest carries the running transcript of a mock interview.
type InterviewRequest struct {
	Messages []types.ChatMessage `json:"messages"`
	Field    string              `json:"field"`
}

// AssessmentRecommendRequest asks for skill assessments matching a role's
// gaps.
type AssessmentRecommendRequest struct {
	RoleID string `json:"roleId"`
}

// JobsRequest asks for job matches under a set of filters.
type JobsRequest struct {
	Filters types.JobFilters   `json:"filters"`
	Profile *types.UserProfile `json:"profile,omitempty"`
	RoleID  string             `json:"roleId,omitempty"`
}

// createRoleFitHandler creates the role recommendation endpoint handler
func (s *Server) createRoleFitHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	tracer := om.Tracer("careercompass.api")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "role_fit_request")
		defer span.End()

		var req RoleFitRequest
		if !parseJSONRequest(w, r, &req) {
			span.SetAttributes(attribute.String("error.type", "parse"))
			return
		}

		if strings.TrimSpace(req.Profile.Stream) == "" || strings.TrimSpace(req.Profile.Interests) == "" {
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request", "profile.stream and profile.interests are required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(attribute.String("profile.stream", req.Profile.Stream))
		result := s.Gateway.GetRoleFit(ctx, &req.Profile)
		span.SetAttributes(
			attribute.Int("result.recommended", len(result.Recommended)),
			attribute.Int("result.additional", len(result.Additional)),
		)

		writeJSON(w, http.StatusOK, result)
	}
}

// createRoadmapHandler creates the roadmap generation endpoint handler
func (s *Server) createRoadmapHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	tracer := om.Tracer("careercompass.api")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "roadmap_request")
		defer span.End()

		var req RoadmapRequest
		if !parseJSONRequest(w, r, &req) {
			span.SetAttributes(attribute.String("error.type", "parse"))
			return
		}

		role, ok := catalog.RoleByID(req.RoleID)
		if !ok {
			span.SetAttributes(attribute.String("error.type", "unknown_role"))
			writeErrorResponse(w, "Unknown role", "No role with id "+req.RoleID, http.StatusNotFound)
			return
		}

		span.SetAttributes(attribute.String("role.id", role.ID))
		weeks := s.Gateway.GetRoadmap(ctx, role)

		writeJSON(w, http.StatusOK, weeks)
	}
}

// createInterviewReplyHandler creates the mock interviewer reply handler
func (s *Server) createInterviewReplyHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	tracer := om.Tracer("careercompass.api")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "interview_reply_request")
		defer span.End()

		req, ok := s.parseInterviewRequest(w, r, span)
		if !ok {
			return
		}

		reply := s.Gateway.GetInterviewResponse(ctx, req.Messages, req.Field)
		writeJSON(w, http.StatusOK, reply)
	}
}

// createInterviewSummaryHandler creates the interview feedback handler
func (s *Server) createInterviewSummaryHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	tracer := om.Tracer("careercompass.api")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "interview_summary_request")
		defer span.End()

		req, ok := s.parseInterviewRequest(w, r, span)
		if !ok {
			return
		}

		summary := s.Gateway.GetInterviewSummary(ctx, req.Messages, req.Field)
		writeJSON(w, http.StatusOK, summary)
	}
}

// parseInterviewRequest decodes and validates the shared interview payload
func (s *Server) parseInterviewRequest(w http.ResponseWriter, r *http.Request, span trace.Span) (InterviewRequest, bool) {
	var req InterviewRequest
	if !parseJSONRequest(w, r, &req) {
		span.SetAttributes(attribute.String("error.type", "parse"))
		return req, false
	}

	if strings.TrimSpace(req.Field) == "" {
		span.SetAttributes(attribute.String("error.type", "validation"))
		writeErrorResponse(w, "Invalid request", "field is required", http.StatusBadRequest)
		return req, false
	}

	span.SetAttributes(
		attribute.String("interview.field", req.Field),
		attribute.Int("interview.messages", len(req.Messages)),
	)
	return req, true
}

// createResumeFeedbackHandler creates the resume feedback endpoint handler
func (s *Server) createResumeFeedbackHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	tracer := om.Tracer("careercompass.api")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "resume_feedback_request")
		defer span.End()

		feedback, err := s.Gateway.GetResumeFeedback(ctx)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Request cancelled", err.Error(), http.StatusServiceUnavailable)
			return
		}

		writeJSON(w, http.StatusOK, feedback)
	}
}

// createAssessmentHandler creates the assessment fetch endpoint handler
func (s *Server) createAssessmentHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	tracer := om.Tracer("careercompass.api")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "assessment_request")
		defer span.End()

		id := r.PathValue("id")
		span.SetAttributes(attribute.String("assessment.id", id))

		assessment := s.Gateway.GetAssessment(ctx, id)
		if assessment == nil {
			span.SetAttributes(attribute.String("error.type", "unknown_assessment"))
			writeErrorResponse(w, "Unknown assessment", "No assessment with id "+id, http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, assessment)
	}
}

// createAssessmentRecommendHandler creates the assessment recommendation handler
func (s *Server) createAssessmentRecommendHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	tracer := om.Tracer("careercompass.api")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "assessment_recommend_request")
		defer span.End()

		var req AssessmentRecommendRequest
		if !parseJSONRequest(w, r, &req) {
			span.SetAttributes(attribute.String("error.type", "parse"))
			return
		}

		role, ok := catalog.RoleByID(req.RoleID)
		if !ok {
			span.SetAttributes(attribute.String("error.type", "unknown_role"))
			writeErrorResponse(w, "Unknown role", "No role with id "+req.RoleID, http.StatusNotFound)
			return
		}

		assessments := s.Gateway.GetRecommendedAssessments(ctx, role)
		span.SetAttributes(attribute.Int("result.assessments", len(assessments)))

		writeJSON(w, http.StatusOK, assessments)
	}
}

// createJobsHandler creates the job matching endpoint handler
func (s *Server) createJobsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	tracer := om.Tracer("careercompass.api")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "job_match_request")
		defer span.End()

		var req JobsRequest
		if !parseJSONRequest(w, r, &req) {
			span.SetAttributes(attribute.String("error.type", "parse"))
			return
		}

		var role *types.CareerRole
		if req.RoleID != "" {
			if found, ok := catalog.RoleByID(req.RoleID); ok {
				role = &found
			}
		}

		jobs := s.Gateway.GetJobs(ctx, req.Filters, req.Profile, role)
		span.SetAttributes(attribute.Int("result.jobs", len(jobs)))

		writeJSON(w, http.StatusOK, jobs)
	}
}
