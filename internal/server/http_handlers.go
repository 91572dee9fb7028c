package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// healthHandler returns server health status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.healthCheckTimeout())
	defer cancel()

	health := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   s.Version,
		"service":   "careercompass",
	}

	providers := map[string]any{}
	for operation, info := range s.Gateway.ModelInfo(ctx) {
		if info == nil {
			providers[operation] = map[string]any{"configured": false}
			continue
		}
		entry := map[string]any{
			"configured": true,
			"model":      info.Name,
			"available":  info.Available,
		}
		if info.Error != "" {
			entry["error"] = info.Error
			health["status"] = "degraded"
		}
		providers[operation] = entry
	}
	health["ai_providers"] = providers
	health["circuit_breakers"] = s.Gateway.Stats()

	if s.CertificateManager != nil {
		health["certificates"] = s.certificateHealth()
	}

	writeJSON(w, http.StatusOK, health)
}

// certificateHealth summarizes the TLS certificate state for health checks
func (s *Server) certificateHealth() map[string]any {
	certHealth := map[string]any{
		"auto_reload": true,
	}

	if expiry, err := s.CertificateManager.CheckExpiry(); err == nil {
		certHealth["expires_in"] = expiry.String()
		certHealth["expiring_soon"] = expiry < 30*24*time.Hour
	} else {
		certHealth["error"] = err.Error()
	}

	metrics := s.CertificateManager.GetMetrics()
	certHealth["reloads"] = metrics.ReloadCount
	certHealth["last_reload_success"] = metrics.LastReloadSuccess

	return certHealth
}

// statsHandler returns server statistics
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   s.Version,
		"runtime": map[string]any{
			"goroutines":      runtime.NumGoroutine(),
			"memory_alloc_mb": memStats.Alloc / 1024 / 1024,
			"memory_sys_mb":   memStats.Sys / 1024 / 1024,
			"gc_runs":         memStats.NumGC,
		},
		"sessions": map[string]any{
			"active": s.Sessions.Count(),
		},
		"auth": map[string]any{
			"api_keys_configured": s.apiKeyCount(),
		},
	}

	if s.RateLimiter != nil {
		stats["rate_limiter"] = s.RateLimiter.GetStats()
	}
	stats["circuit_breakers"] = s.Gateway.Stats()

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) healthCheckTimeout() time.Duration {
	if t := s.AppConfig.Observability.HealthCheck.Timeout; t > 0 {
		return t
	}
	return 5 * time.Second
}

// parseJSONRequest decodes a JSON request body into dst with size and
// content-type checks already applied by the middleware chain.
func parseJSONRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		writeErrorResponse(w, "Unsupported media type", "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeErrorResponse(w, "Request too large", "Request body exceeds the configured size limit", http.StatusRequestEntityTooLarge)
			return false
		}
		writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}

	return true
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, errorMsg, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   errorMsg,
		Message: message,
		Code:    statusCode,
	})
}
