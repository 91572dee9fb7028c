package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	apperrors "careercompass/internal/errors"
	"careercompass/internal/observability"
	"careercompass/internal/state"
	"careercompass/internal/types"
)

// AuthRequest carries mock sign-in credentials.
type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DispatchRequest is one action to run through a session's reducer. Epoch,
// when present, fences the action against a logout that happened after the
// caller captured it.
type DispatchRequest struct {
	Type    state.ActionType `json:"type"`
	Payload json.RawMessage  `json:"payload,omitempty"`
	Epoch   *uint64          `json:"epoch,omitempty"`
}

// SessionResponse is the envelope returned by the session endpoints.
type SessionResponse struct {
	SessionID string         `json:"sessionId"`
	Epoch     uint64         `json:"epoch"`
	State     types.AppState `json:"state"`
}

// DispatchResponse reports the state after a dispatch attempt.
type DispatchResponse struct {
	Applied bool           `json:"applied"`
	Epoch   uint64         `json:"epoch"`
	State   types.AppState `json:"state"`
}

// createSessionCreateHandler creates the session creation endpoint handler
func (s *Server) createSessionCreateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	tracer := om.Tracer("careercompass.api")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "session_create_request")
		defer span.End()

		id, store, err := s.Sessions.Create()
		if err != nil {
			span.RecordError(err)
			s.Logger.LogError(err, "Failed to create session")
			if metrics := om.GetMetrics(); metrics != nil {
				metrics.RecordBusinessMetric(ctx, "session_created", false, om)
			}
			writeErrorResponse(w, "Session creation failed", "Could not allocate session storage", http.StatusInternalServerError)
			return
		}

		span.SetAttributes(attribute.String("session.id", id))
		if metrics := om.GetMetrics(); metrics != nil {
			metrics.RecordBusinessMetric(ctx, "session_created", true, om)
		}

		writeJSON(w, http.StatusCreated, SessionResponse{
			SessionID: id,
			Epoch:     store.Epoch(),
			State:     store.State(),
		})
	}
}

// createSessionStateHandler creates the session state read endpoint handler
func (s *Server) createSessionStateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	tracer := om.Tracer("careercompass.api")

	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "session_state_request")
		defer span.End()

		id := r.PathValue("id")
		store, ok := s.Sessions.Get(id)
		if !ok {
			span.SetAttributes(attribute.String("error.type", "unknown_session"))
			writeErrorResponse(w, "Unknown session", "No session with id "+id, http.StatusNotFound)
			return
		}

		span.SetAttributes(attribute.String("session.id", id))
		writeJSON(w, http.StatusOK, SessionResponse{
			SessionID: id,
			Epoch:     store.Epoch(),
			State:     store.State(),
		})
	}
}

// createDispatchHandler creates the action dispatch endpoint handler
func (s *Server) createDispatchHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	tracer := om.Tracer("careercompass.api")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "dispatch_request")
		defer span.End()

		id := r.PathValue("id")
		store, ok := s.Sessions.Get(id)
		if !ok {
			span.SetAttributes(attribute.String("error.type", "unknown_session"))
			writeErrorResponse(w, "Unknown session", "No session with id "+id, http.StatusNotFound)
			return
		}

		var req DispatchRequest
		if !parseJSONRequest(w, r, &req) {
			span.SetAttributes(attribute.String("error.type", "parse"))
			return
		}

		action, err := state.DecodeAction(req.Type, req.Payload)
		if err != nil {
			span.SetAttributes(attribute.String("error.type", "unknown_action"))
			span.RecordError(err)
			writeErrorResponse(w, "Invalid action", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("session.id", id),
			attribute.String("action.type", string(req.Type)),
		)

		var (
			newState types.AppState
			applied  = true
		)
		if req.Epoch != nil {
			newState, applied = store.DispatchFenced(*req.Epoch, action)
		} else {
			newState = store.Dispatch(action)
		}

		if metrics := om.GetMetrics(); metrics != nil {
			metrics.RecordBusinessMetric(ctx, "action_dispatched", applied, om,
				attribute.String("action.type", string(req.Type)))
		}

		writeJSON(w, http.StatusOK, DispatchResponse{
			Applied: applied,
			Epoch:   store.Epoch(),
			State:   newState,
		})
	}
}

// createLoginHandler creates the mock login endpoint handler
func (s *Server) createLoginHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.createAuthHandler(om, "login_request", s.Auth.Login)
}

// createSignUpHandler creates the mock sign-up endpoint handler
func (s *Server) createSignUpHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return s.createAuthHandler(om, "signup_request", s.Auth.SignUp)
}

func (s *Server) createAuthHandler(om *observability.ObservabilityManager, spanName string, authenticate func(ctx context.Context, email, password string) (types.User, error)) http.HandlerFunc {
	tracer := om.Tracer("careercompass.api")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), spanName)
		defer span.End()

		var req AuthRequest
		if !parseJSONRequest(w, r, &req) {
			span.SetAttributes(attribute.String("error.type", "parse"))
			return
		}

		user, err := authenticate(ctx, req.Email, req.Password)
		if err != nil {
			span.RecordError(err)
			var appErr *apperrors.AppError
			if stderrors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation {
				span.SetAttributes(attribute.String("error.type", "validation"))
				writeErrorResponse(w, "Invalid credentials", appErr.Message, http.StatusBadRequest)
				return
			}
			writeErrorResponse(w, "Authentication unavailable", err.Error(), http.StatusServiceUnavailable)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
