package state

import (
	"encoding/json"
	"fmt"

	"careercompass/internal/errors"
	"careercompass/internal/types"
)

// ActionType is the wire name of a state transition.
type ActionType string

const (
	ActionNavigate                 ActionType = "NAVIGATE"
	ActionLoginSuccess             ActionType = "LOGIN_SUCCESS"
	ActionLogout                   ActionType = "LOGOUT"
	ActionToggleTheme              ActionType = "TOGGLE_THEME"
	ActionSetProfile               ActionType = "SET_PROFILE"
	ActionSetRole                  ActionType = "SET_ROLE"
	ActionSetRoadmap               ActionType = "SET_ROADMAP"
	ActionToggleGoal               ActionType = "TOGGLE_GOAL"
	ActionUpdateNote               ActionType = "UPDATE_NOTE"
	ActionAddProject               ActionType = "ADD_PROJECT"
	ActionRemoveProject            ActionType = "REMOVE_PROJECT"
	ActionSubmitAssessment         ActionType = "SUBMIT_ASSESSMENT"
	ActionSetLoading               ActionType = "SET_LOADING"
	ActionSetInterviewMessages     ActionType = "SET_INTERVIEW_MESSAGES"
	ActionSetInterviewSummary      ActionType = "SET_INTERVIEW_SUMMARY"
	ActionSetInterviewField        ActionType = "SET_INTERVIEW_FIELD"
	ActionClearInterview           ActionType = "CLEAR_INTERVIEW"
	ActionStartAssessment          ActionType = "START_ASSESSMENT"
	ActionUpdateAssessmentProgress ActionType = "UPDATE_ASSESSMENT_PROGRESS"
	ActionClearActiveAssessment    ActionType = "CLEAR_ACTIVE_ASSESSMENT"
	ActionUpdateWidgetVisibility   ActionType = "UPDATE_WIDGET_VISIBILITY"
)

// Action is a state transition request. Concrete action values carry their
// payload as exported fields.
type Action interface {
	ActionType() ActionType
}

type Navigate struct {
	Page types.AppPage `json:"page"`
}

type LoginSuccess struct {
	User types.User `json:"user"`
}

type Logout struct{}

type ToggleTheme struct{}

type SetProfile struct {
	Profile types.UserProfile `json:"profile"`
}

type SetRole struct {
	Role types.CareerRole `json:"role"`
}

type SetRoadmap struct {
	Roadmap []types.RoadmapWeek `json:"roadmap"`
}

type ToggleGoal struct {
	WeekIndex int `json:"weekIndex"`
	GoalIndex int `json:"goalIndex"`
}

type UpdateNote struct {
	WeekIndex int    `json:"weekIndex"`
	Note      string `json:"note"`
}

type AddProject struct {
	Project types.Project `json:"project"`
}

type RemoveProject struct {
	ProjectID string `json:"projectId"`
}

type SubmitAssessment struct {
	Attempt types.AssessmentAttempt `json:"attempt"`
}

type SetLoading struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

type SetInterviewMessages struct {
	Messages []types.ChatMessage `json:"messages"`
}

type SetInterviewSummary struct {
	Summary types.InterviewSummary `json:"summary"`
}

type SetInterviewField struct {
	Field string `json:"field"`
}

type ClearInterview struct{}

type StartAssessment struct {
	AssessmentID string `json:"assessmentId"`
}

type UpdateAssessmentProgress struct {
	Answers              map[string]string `json:"answers"`
	CurrentQuestionIndex int               `json:"currentQuestionIndex"`
}

type ClearActiveAssessment struct{}

type UpdateWidgetVisibility struct {
	Widget    string `json:"widget"`
	IsVisible bool   `json:"isVisible"`
}

func (Navigate) ActionType() ActionType                 { return ActionNavigate }
func (LoginSuccess) ActionType() ActionType             { return ActionLoginSuccess }
func (Logout) ActionType() ActionType                   { return ActionLogout }
func (ToggleTheme) ActionType() ActionType              { return ActionToggleTheme }
func (SetProfile) ActionType() ActionType               { return ActionSetProfile }
func (SetRole) ActionType() ActionType                  { return ActionSetRole }
func (SetRoadmap) ActionType() ActionType               { return ActionSetRoadmap }
func (ToggleGoal) ActionType() ActionType               { return ActionToggleGoal }
func (UpdateNote) ActionType() ActionType               { return ActionUpdateNote }
func (AddProject) ActionType() ActionType               { return ActionAddProject }
func (RemoveProject) ActionType() ActionType            { return ActionRemoveProject }
func (SubmitAssessment) ActionType() ActionType         { return ActionSubmitAssessment }
func (SetLoading) ActionType() ActionType               { return ActionSetLoading }
func (SetInterviewMessages) ActionType() ActionType     { return ActionSetInterviewMessages }
func (SetInterviewSummary) ActionType() ActionType      { return ActionSetInterviewSummary }
func (SetInterviewField) ActionType() ActionType        { return ActionSetInterviewField }
func (ClearInterview) ActionType() ActionType           { return ActionClearInterview }
func (StartAssessment) ActionType() ActionType          { return ActionStartAssessment }
func (UpdateAssessmentProgress) ActionType() ActionType { return ActionUpdateAssessmentProgress }
func (ClearActiveAssessment) ActionType() ActionType    { return ActionClearActiveAssessment }
func (UpdateWidgetVisibility) ActionType() ActionType   { return ActionUpdateWidgetVisibility }

func decodePayload[T Action](actionType ActionType, payload json.RawMessage) (Action, error) {
	var a T
	if len(payload) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("action %s requires a payload", actionType), nil)
	}
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("malformed payload for action %s", actionType), err)
	}
	return a, nil
}

// DecodeAction builds an Action from its wire name and JSON payload. Payload
// may be nil for payload-free actions.
func DecodeAction(actionType ActionType, payload json.RawMessage) (Action, error) {
	switch actionType {
	case ActionNavigate:
		return decodePayload[Navigate](actionType, payload)
	case ActionLoginSuccess:
		return decodePayload[LoginSuccess](actionType, payload)
	case ActionLogout:
		return Logout{}, nil
	case ActionToggleTheme:
		return ToggleTheme{}, nil
	case ActionSetProfile:
		return decodePayload[SetProfile](actionType, payload)
	case ActionSetRole:
		return decodePayload[SetRole](actionType, payload)
	case ActionSetRoadmap:
		return decodePayload[SetRoadmap](actionType, payload)
	case ActionToggleGoal:
		return decodePayload[ToggleGoal](actionType, payload)
	case ActionUpdateNote:
		return decodePayload[UpdateNote](actionType, payload)
	case ActionAddProject:
		return decodePayload[AddProject](actionType, payload)
	case ActionRemoveProject:
		return decodePayload[RemoveProject](actionType, payload)
	case ActionSubmitAssessment:
		return decodePayload[SubmitAssessment](actionType, payload)
	case ActionSetLoading:
		return decodePayload[SetLoading](actionType, payload)
	case ActionSetInterviewMessages:
		return decodePayload[SetInterviewMessages](actionType, payload)
	case ActionSetInterviewSummary:
		return decodePayload[SetInterviewSummary](actionType, payload)
	case ActionSetInterviewField:
		return decodePayload[SetInterviewField](actionType, payload)
	case ActionClearInterview:
		return ClearInterview{}, nil
	case ActionStartAssessment:
		return decodePayload[StartAssessment](actionType, payload)
	case ActionUpdateAssessmentProgress:
		return decodePayload[UpdateAssessmentProgress](actionType, payload)
	case ActionClearActiveAssessment:
		return ClearActiveAssessment{}, nil
	case ActionUpdateWidgetVisibility:
		return decodePayload[UpdateWidgetVisibility](actionType, payload)
	default:
		return nil, errors.NewValidationError(errors.ErrCodeUnknownAction,
			fmt.Sprintf("unknown action type %q", actionType), nil)
	}
}
