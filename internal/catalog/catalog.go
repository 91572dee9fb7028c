// Package catalog holds the built-in career data: roles, roadmap templates,
// job listings, assessments and the static feedback payloads. The data ships
// embedded with the binary and is read-only; accessors return copies so
// callers can decorate results without corrupting the catalog.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"slices"

	"careercompass/internal/types"
)

//go:embed data/*.json
var dataFS embed.FS

// DefaultRoadmapRoleID is the roadmap template used when a role has no
// template of its own.
const DefaultRoadmapRoleID = "frontend_dev"

var (
	roles            []types.CareerRole
	roadmaps         map[string][]types.RoadmapWeek
	jobs             []types.JobListing
	assessments      []types.Assessment
	resumeFeedback   types.ResumeFeedback
	interviewSummary types.InterviewSummary
)

func init() {
	mustLoad("data/roles.json", &roles)
	mustLoad("data/roadmaps.json", &roadmaps)
	mustLoad("data/jobs.json", &jobs)
	mustLoad("data/assessments.json", &assessments)
	mustLoad("data/resume_feedback.json", &resumeFeedback)
	mustLoad("data/interview_summary.json", &interviewSummary)
}

func mustLoad(name string, dst any) {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("catalog: missing embedded file %s: %v", name, err))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		panic(fmt.Sprintf("catalog: corrupt embedded file %s: %v", name, err))
	}
}

// Roles returns all catalog roles in their canonical order.
func Roles() []types.CareerRole {
	return slices.Clone(roles)
}

// RoleByID looks up a role by id.
func RoleByID(id string) (types.CareerRole, bool) {
	for _, r := range roles {
		if r.ID == id {
			return r, true
		}
	}
	return types.CareerRole{}, false
}

// RolesForStream returns catalog roles whose relevant streams include the
// given academic stream, preserving catalog order.
func RolesForStream(stream string) []types.CareerRole {
	var out []types.CareerRole
	for _, r := range roles {
		if slices.Contains(r.RelevantStreams, stream) {
			out = append(out, r)
		}
	}
	return out
}

// Jobs returns all catalog job listings.
func Jobs() []types.JobListing {
	return slices.Clone(jobs)
}

// Assessments returns all catalog assessments.
func Assessments() []types.Assessment {
	return slices.Clone(assessments)
}

// AssessmentByID looks up an assessment by id.
func AssessmentByID(id string) (types.Assessment, bool) {
	for _, a := range assessments {
		if a.ID == id {
			return a, true
		}
	}
	return types.Assessment{}, false
}

// RoadmapTemplate returns the fallback roadmap for a role id, or the default
// template when the role has none. Goals come back unchecked with empty
// notes, ready to dispatch.
func RoadmapTemplate(roleID string) []types.RoadmapWeek {
	tmpl, ok := roadmaps[roleID]
	if !ok {
		tmpl = roadmaps[DefaultRoadmapRoleID]
	}
	out := make([]types.RoadmapWeek, len(tmpl))
	for i, week := range tmpl {
		out[i] = types.RoadmapWeek{
			Week:  week.Week,
			Title: week.Title,
			Goals: make([]types.RoadmapGoal, len(week.Goals)),
		}
		for j, g := range week.Goals {
			out[i].Goals[j] = types.RoadmapGoal{Text: g.Text, Completed: false}
		}
	}
	return out
}

// StaticResumeFeedback returns the canned resume review.
func StaticResumeFeedback() types.ResumeFeedback {
	fb := resumeFeedback
	fb.Points = slices.Clone(resumeFeedback.Points)
	return fb
}

// StaticInterviewSummary returns the canned interview feedback.
func StaticInterviewSummary() types.InterviewSummary {
	return interviewSummary
}
