package server

import (
	"net/http"
	"strings"

	"careercompass/internal/observability"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes(om *observability.ObservabilityManager) *http.ServeMux {
	mux := http.NewServeMux()

	rateLimitHandler := s.createRateLimitMiddleware(om)
	requestLimitHandler := s.requestSizeLimitMiddleware()

	// protect composes the middleware chain shared by the API endpoints
	protect := func(h http.HandlerFunc) http.HandlerFunc {
		return rateLimitHandler(s.authMiddleware(requestLimitHandler(h)))
	}

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)

	mux.HandleFunc("POST /session", protect(s.createSessionCreateHandler(om)))
	mux.HandleFunc("GET /session/{id}/state", protect(s.createSessionStateHandler(om)))
	mux.HandleFunc("POST /session/{id}/dispatch", protect(s.createDispatchHandler(om)))

	mux.HandleFunc("POST /auth/login", protect(s.createLoginHandler(om)))
	mux.HandleFunc("POST /auth/signup", protect(s.createSignUpHandler(om)))

	mux.HandleFunc("POST /rolefit", protect(s.createRoleFitHandler(om)))
	mux.HandleFunc("POST /roadmap", protect(s.createRoadmapHandler(om)))
	mux.HandleFunc("POST /interview/respond", protect(s.createInterviewReplyHandler(om)))
	mux.HandleFunc("POST /interview/summary", protect(s.createInterviewSummaryHandler(om)))
	mux.HandleFunc("GET /resume/feedback", protect(s.createResumeFeedbackHandler(om)))
	mux.HandleFunc("GET /assessments/{id}", protect(s.createAssessmentHandler(om)))
	mux.HandleFunc("POST /assessments/recommend", protect(s.createAssessmentRecommendHandler(om)))
	mux.HandleFunc("POST /jobs/match", protect(s.createJobsHandler(om)))

	return mux
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication if no API keys are configured
		if s.apiKeyCount() == 0 {
			next(w, r)
			return
		}

		apiKey := extractAPIKey(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr)
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.isValidAPIKey(apiKey) {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr,
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"client_ip", r.RemoteAddr,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}

			next(w, r)
		}
	}
}

// extractAPIKey reads the API key from the X-API-Key header, falling back to
// an Authorization Bearer token.
func extractAPIKey(r *http.Request) string {
	if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		return apiKey
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
