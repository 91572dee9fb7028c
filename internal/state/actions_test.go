package state

import (
	"encoding/json"
	"errors"
	"testing"

	apperrors "careercompass/internal/errors"
	"careercompass/internal/types"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name       string
		actionType ActionType
		payload    string
		check      func(t *testing.T, a Action)
	}{
		{
			name:       "navigate",
			actionType: ActionNavigate,
			payload:    `{"page":"JOBS"}`,
			check: func(t *testing.T, a Action) {
				nav, ok := a.(Navigate)
				if !ok || nav.Page != types.PageJobs {
					t.Errorf("decoded %#v", a)
				}
			},
		},
		{
			name:       "toggle goal",
			actionType: ActionToggleGoal,
			payload:    `{"weekIndex":1,"goalIndex":2}`,
			check: func(t *testing.T, a Action) {
				tg, ok := a.(ToggleGoal)
				if !ok || tg.WeekIndex != 1 || tg.GoalIndex != 2 {
					t.Errorf("decoded %#v", a)
				}
			},
		},
		{
			name:       "submit assessment",
			actionType: ActionSubmitAssessment,
			payload:    `{"attempt":{"assessmentId":"sql_adv_1","score":80,"completedAt":"2026-08-30T12:00:00Z"}}`,
			check: func(t *testing.T, a Action) {
				sa, ok := a.(SubmitAssessment)
				if !ok || sa.Attempt.AssessmentID != "sql_adv_1" || sa.Attempt.Score != 80 {
					t.Errorf("decoded %#v", a)
				}
			},
		},
		{
			name:       "update widget visibility",
			actionType: ActionUpdateWidgetVisibility,
			payload:    `{"widget":"nextGoal","isVisible":false}`,
			check: func(t *testing.T, a Action) {
				uv, ok := a.(UpdateWidgetVisibility)
				if !ok || uv.Widget != types.WidgetNextGoal || uv.IsVisible {
					t.Errorf("decoded %#v", a)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := DecodeAction(tt.actionType, json.RawMessage(tt.payload))
			if err != nil {
				t.Fatalf("DecodeAction: %v", err)
			}
			if a.ActionType() != tt.actionType {
				t.Errorf("action type = %q, want %q", a.ActionType(), tt.actionType)
			}
			tt.check(t, a)
		})
	}
}

func TestDecodeActionPayloadFree(t *testing.T) {
	for _, at := range []ActionType{ActionLogout, ActionToggleTheme, ActionClearInterview, ActionClearActiveAssessment} {
		t.Run(string(at), func(t *testing.T) {
			a, err := DecodeAction(at, nil)
			if err != nil {
				t.Fatalf("DecodeAction(%s, nil): %v", at, err)
			}
			if a.ActionType() != at {
				t.Errorf("action type = %q", a.ActionType())
			}
		})
	}
}

func TestDecodeActionErrors(t *testing.T) {
	tests := []struct {
		name       string
		actionType ActionType
		payload    json.RawMessage
		wantCode   string
	}{
		{"unknown type", "EXPLODE", nil, apperrors.ErrCodeUnknownAction},
		{"missing payload", ActionNavigate, nil, apperrors.ErrCodeInvalidRequest},
		{"malformed payload", ActionSetRole, json.RawMessage(`{"role":`), apperrors.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAction(tt.actionType, tt.payload)
			if err == nil {
				t.Fatal("expected an error")
			}
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Type != apperrors.ErrorTypeValidation {
				t.Errorf("error type = %v, want validation", appErr.Type)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", appErr.Code, tt.wantCode)
			}
		})
	}
}
