package ai

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	RoleFit              string
	Roadmap              string
	InterviewResponse    string
	InterviewSummary     string
	AssessmentQuestions  string
	RecommendAssessments string
	JobMatch             string
}

// UserPrompts contains user-level prompts with placeholders for dynamic content
type UserPrompts struct {
	RoleFit              string
	Roadmap              string
	InterviewResponse    string
	InterviewSummary     string
	AssessmentQuestions  string
	RecommendAssessments string
	JobMatch             string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	RoleFit: `You are an expert career counselor for students in India. You match student profiles against a fixed catalog of career roles and always ground your recommendations in the roles you are given.`,

	Roadmap: `You are a career coach creating a learning plan. Your roadmaps are practical and achievable for a student studying part time.`,

	// Placeholder is the interview field.
	InterviewResponse: `You are an expert interviewer named Avishkar, conducting a mock interview for a "%s" role in India. Ask relevant behavioral and technical questions one by one. Keep your responses concise and conversational.`,

	InterviewSummary: `You are an expert interview coach. You give constructive, evidence-based feedback on mock interview transcripts.`,

	AssessmentQuestions: `You are an examiner writing skill assessments for students. Your questions are unambiguous and have exactly one correct answer.`,

	RecommendAssessments: `You are a learning advisor. You pick the assessments that close a student's most important skill gaps first.`,

	JobMatch: `You are an AI job matching expert for students in India. You score jobs against the student's complete profile and their search filters.`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	RoleFit: `Based on the user's profile below, recommend the top 3 most suitable career roles from the provided list of available roles.

User Profile:
- Academic Stream: "%s"
- Interests: "%s"
- Stated Career Goals: "%s"

Available Roles:
%s

For each of the 3 recommended roles, you must provide:
1. 'id': The exact ID of the role from the list.
2. 'fitScore': A percentage score (0-100) indicating how well the role matches the user's profile.
3. 'explanation': A brief, encouraging, single-sentence explanation for why it's a good fit.
4. 'missingSkills': An array of 3-4 skills from the role's 'totalSkills' list that a student is likely missing and should focus on learning.

Return ONLY a JSON object with a single key "recommendations" which is an array of these 3 role objects.`,

	Roadmap: `Generate a 4-week, actionable roadmap for a student aiming for a "%s" role.
They need to learn these specific skills: %s.
For each week, provide a title and 2-3 specific, small, achievable goals.
The goals should be practical, like "Complete Chapter 3 of [Course]" or "Build a small project using [Technology]".
Return ONLY a JSON object with a single key "roadmap" which is an array of 4 week objects.
Each week object must have: 'week' (number), 'title' (string), and 'goals' (an array of strings).`,

	// Placeholder is the joined tail of the conversation.
	InterviewResponse: `%s`,

	InterviewSummary: `Based on the following interview transcript for a "%s" role, provide constructive feedback.
Analyze the candidate's responses for clarity, structure (like the STAR method), technical depth, and communication skills.

Transcript:
%s

Return ONLY a JSON object with two keys:
1. "strengths": A paragraph summarizing the candidate's strong points.
2. "improvements": A paragraph with actionable advice on areas for improvement.`,

	AssessmentQuestions: `Generate 5 multiple-choice questions for a skill assessment on "%s".
Each question should have one correct answer.
Return ONLY a JSON object with a "questions" key, containing an array of 5 question objects.
Each object must have: "id" (string, e.g., "q1"), "question" (string), "options" (array of 4 strings), and "answer" (the correct string from options).`,

	RecommendAssessments: `Based on the user's need to learn these skills: [%s], recommend the top 3 most critical assessments to take from the list below.

Available Assessments:
%s

Return ONLY a JSON object with a key "recommendations" which is an array of assessment IDs.`,

	JobMatch: `Based on the user's profile and their search filters, analyze the following list of available jobs.
Recommend the most relevant jobs by providing a match score and a brief reason.

User Profile:
- Academic Stream: "%s"
- Interests: "%s"
- Key Skills (from selected career path): [%s]

User's Search Filters:
%s

Available Jobs:
%s

Return ONLY a JSON object with a single key "jobs" which is an array of objects.
For each job you recommend, provide:
1. 'id': The exact ID of the job from the list.
2. 'matchScore': A percentage score (0-100) indicating how well the job matches the user's complete profile and filters.
3. 'matchReason': A brief, single-sentence explanation for why it's a good match.`,
}
