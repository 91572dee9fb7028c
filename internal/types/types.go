package types

// AppPage identifies the screen a client session is currently on.
type AppPage string

const (
	PageHome        AppPage = "HOME"
	PageProfile     AppPage = "PROFILE"
	PageRoleFit     AppPage = "ROLE_FIT"
	PageRoadmap     AppPage = "ROADMAP"
	PageInterview   AppPage = "INTERVIEW"
	PageResume      AppPage = "RESUME"
	PageDashboard   AppPage = "DASHBOARD"
	PageJobs        AppPage = "JOBS"
	PageAssessments AppPage = "ASSESSMENTS"
)

// Theme is the UI color preference, persisted separately from the rest of
// the state so it survives logout.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// User is the authenticated identity returned by the mock authenticator.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// UserProfile is the intake form a user submits once; it is always replaced
// wholesale, never merged field by field.
type UserProfile struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Interests string `json:"interests"`
	Stream    string `json:"stream"`
	Language  string `json:"language"`
	Goals     string `json:"goals"`
}

// ResourceLink is a named learning resource attached to a career role.
type ResourceLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CareerRole is a catalog role, optionally decorated with AI-assigned
// FitScore, Explanation and MissingSkills for a specific profile.
type CareerRole struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	FitScore        int            `json:"fitScore"`
	Explanation     string         `json:"explanation"`
	MissingSkills   []string       `json:"missingSkills"`
	TotalSkills     []string       `json:"totalSkills"`
	Resources       []ResourceLink `json:"resources"`
	RelevantStreams []string       `json:"relevantStreams"`
}

// RoadmapGoal is a single checkable item inside a roadmap week.
type RoadmapGoal struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// RoadmapWeek is one week of the generated learning plan.
type RoadmapWeek struct {
	Week  int           `json:"week"`
	Title string        `json:"title"`
	Goals []RoadmapGoal `json:"goals"`
	Notes string        `json:"notes,omitempty"`
}

// ChatMessage is one turn of the mock-interview transcript.
type ChatMessage struct {
	Sender string `json:"sender"` // "user" or "ai"
	Text   string `json:"text"`
}

const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// InterviewSummary is the terminal feedback produced at interview end.
type InterviewSummary struct {
	Strengths    string `json:"strengths"`
	Improvements string `json:"improvements"`
}

// Project is a user-added portfolio item.
type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// JobListing is a catalog job, optionally decorated with an AI match score.
type JobListing struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Experience      string   `json:"experience"`
	RequiredSkills  []string `json:"requiredSkills"`
	Link            string   `json:"link"`
	CompanySize     string   `json:"companySize"` // Startup, Mid-Size, Large
	Industry        string   `json:"industry"`
	PostedDate      string   `json:"postedDate"` // ISO date, used for sorting
	WorkStyle       string   `json:"workStyle"`  // On-site, Remote, Hybrid
	RelevantStreams []string `json:"relevantStreams"`
	MatchScore      *int     `json:"matchScore,omitempty"`
	MatchReason     string   `json:"matchReason,omitempty"`
}

// JobFilters narrows the job search; the literal "all" disables a filter.
type JobFilters struct {
	Role        string `json:"role"`
	Location    string `json:"location"`
	Experience  string `json:"experience"`
	CompanySize string `json:"companySize"`
	Industry    string `json:"industry"`
	WorkStyle   string `json:"workStyle"`
	Stream      string `json:"stream"`
}

// FilterAll is the sentinel that disables an individual job filter.
const FilterAll = "all"

// AssessmentQuestion is one multiple-choice question.
type AssessmentQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Assessment is a catalog quiz; Questions may be empty at rest and is
// populated lazily on first access.
type Assessment struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Skill     string               `json:"skill"`
	Questions []AssessmentQuestion `json:"questions"`
}

// AssessmentAttempt is a completed quiz result; at most one is retained per
// assessment id.
type AssessmentAttempt struct {
	AssessmentID string `json:"assessmentId"`
	Score        int    `json:"score"` // percentage
	CompletedAt  string `json:"completedAt"`
}

// ActiveAssessment is the single in-progress quiz session.
type ActiveAssessment struct {
	ID                   string            `json:"id"`
	Answers              map[string]string `json:"answers"`
	CurrentQuestionIndex int               `json:"currentQuestionIndex"`
}

// DashboardWidgets holds per-panel visibility preferences.
type DashboardWidgets struct {
	NextGoal              bool `json:"nextGoal"`
	SkillsToDevelop       bool `json:"skillsToDevelop"`
	RecommendedAssessment bool `json:"recommendedAssessment"`
	ActiveSessions        bool `json:"activeSessions"`
}

// Widget names accepted by UPDATE_WIDGET_VISIBILITY.
const (
	WidgetNextGoal              = "nextGoal"
	WidgetSkillsToDevelop       = "skillsToDevelop"
	WidgetRecommendedAssessment = "recommendedAssessment"
	WidgetActiveSessions        = "activeSessions"
)

// AppState is the whole user-journey state. It is advanced only through the
// reducer and must round-trip through JSON without loss.
type AppState struct {
	User               *User               `json:"user"`
	Theme              Theme               `json:"theme"`
	ActivePage         AppPage             `json:"activePage"`
	UserProfile        *UserProfile        `json:"userProfile"`
	SelectedRole       *CareerRole         `json:"selectedRole"`
	Roadmap            []RoadmapWeek       `json:"roadmap"`
	Portfolio          []Project           `json:"portfolio"`
	AssessmentAttempts []AssessmentAttempt `json:"assessmentAttempts"`
	InterviewMessages  []ChatMessage       `json:"interviewMessages"`
	InterviewSummary   *InterviewSummary   `json:"interviewSummary"`
	InterviewField     string              `json:"interviewField,omitempty"`
	ActiveAssessment   *ActiveAssessment   `json:"activeAssessment"`
	IsLoading          map[string]bool     `json:"isLoading"`
	DashboardWidgets   DashboardWidgets    `json:"dashboardWidgets"`
}

// RoleFitResult pairs the AI-ranked recommendations with the remaining
// stream-relevant catalog roles.
type RoleFitResult struct {
	Recommended []CareerRole `json:"recommended"`
	Additional  []CareerRole `json:"additional"`
}

// ResumeFeedback is the static review payload for an uploaded resume.
type ResumeFeedback struct {
	Strengths    string   `json:"strengths"`
	Improvements string   `json:"improvements"`
	Points       []string `json:"points"`
}

// RoadmapProgress is the derived completion summary for a roadmap.
type RoadmapProgress struct {
	CompletedGoals int     `json:"completedGoals"`
	TotalGoals     int     `json:"totalGoals"`
	Percent        float64 `json:"percent"`
}

// RoleRecommendation is one ranked role in the model's role-fit response.
type RoleRecommendation struct {
	ID            string   `json:"id"`
	FitScore      int      `json:"fitScore"`
	Explanation   string   `json:"explanation"`
	MissingSkills []string `json:"missingSkills"`
}

// RoleFitModelOutput is the structured role-fit response.
type RoleFitModelOutput struct {
	Recommendations []RoleRecommendation `json:"recommendations"`
}

// GeneratedRoadmapWeek is one week in the model's roadmap response. Goals
// arrive as plain strings and are expanded into RoadmapGoal entries.
type GeneratedRoadmapWeek struct {
	Week  int      `json:"week"`
	Title string   `json:"title"`
	Goals []string `json:"goals"`
}

// RoadmapModelOutput is the structured roadmap response.
type RoadmapModelOutput struct {
	Roadmap []GeneratedRoadmapWeek `json:"roadmap"`
}

// GeneratedQuestionsOutput is the structured assessment-generation response.
type GeneratedQuestionsOutput struct {
	Questions []AssessmentQuestion `json:"questions"`
}

// AssessmentRecommendationOutput lists the assessment IDs the model picked.
type AssessmentRecommendationOutput struct {
	Recommendations []string `json:"recommendations"`
}

// JobMatch is one scored job in the model's job-matching response.
type JobMatch struct {
	ID          string `json:"id"`
	MatchScore  int    `json:"matchScore"`
	MatchReason string `json:"matchReason"`
}

// JobMatchOutput is the structured job-matching response.
type JobMatchOutput struct {
	Jobs []JobMatch `json:"jobs"`
}
