package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"careercompass/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "RoleFitResult", &RoleFitTextFormatter{})
	registry.RegisterFormatter("markdown", "RoleFitResult", &RoleFitMarkdownFormatter{})
	registry.RegisterFormatter("text", "Roadmap", &RoadmapTextFormatter{})
	registry.RegisterFormatter("markdown", "Roadmap", &RoadmapMarkdownFormatter{})
	registry.RegisterFormatter("text", "JobListings", &JobsTextFormatter{})
	registry.RegisterFormatter("markdown", "JobListings", &JobsMarkdownFormatter{})
	registry.RegisterFormatter("text", "InterviewSummary", &InterviewSummaryTextFormatter{})
	registry.RegisterFormatter("markdown", "InterviewSummary", &InterviewSummaryMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.RoleFitResult:
		return "RoleFitResult"
	case []types.RoadmapWeek:
		return "Roadmap"
	case []types.JobListing:
		return "JobListings"
	case types.InterviewSummary:
		return "InterviewSummary"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// RoleFitTextFormatter handles text formatting for role recommendations
type RoleFitTextFormatter struct{}

func (rtf *RoleFitTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RoleFitResult)
	if !ok {
		return "", fmt.Errorf("expected RoleFitResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RECOMMENDED ROLES ===\n\n")
	if len(result.Recommended) == 0 {
		output.WriteString("No recommendations available.\n\n")
	}
	for i, role := range result.Recommended {
		output.WriteString(fmt.Sprintf("%d. %s (fit: %d/100)\n", i+1, role.Title, role.FitScore))
		if role.Explanation != "" {
			output.WriteString("   ")
			output.WriteString(role.Explanation)
			output.WriteString("\n")
		}
		if len(role.MissingSkills) > 0 {
			output.WriteString(fmt.Sprintf("   Missing skills: %s\n", strings.Join(role.MissingSkills, ", ")))
		}
		output.WriteString("\n")
	}

	if len(result.Additional) > 0 {
		output.WriteString("=== OTHER ROLES IN YOUR STREAM ===\n\n")
		for _, role := range result.Additional {
			output.WriteString(fmt.Sprintf("- %s\n", role.Title))
		}
	}

	return output.String(), nil
}

func (rtf *RoleFitTextFormatter) SupportedType() string {
	return "RoleFitResult"
}

// RoleFitMarkdownFormatter handles markdown formatting for role recommendations
type RoleFitMarkdownFormatter struct{}

func (rmf *RoleFitMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RoleFitResult)
	if !ok {
		return "", fmt.Errorf("expected RoleFitResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Recommended Roles\n\n")
	if len(result.Recommended) == 0 {
		output.WriteString("No recommendations available.\n\n")
	}
	for i, role := range result.Recommended {
		output.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, role.Title))
		output.WriteString(fmt.Sprintf("**Fit score:** %d/100\n\n", role.FitScore))
		if role.Explanation != "" {
			output.WriteString(role.Explanation)
			output.WriteString("\n\n")
		}
		if len(role.MissingSkills) > 0 {
			output.WriteString("**Missing skills:**\n")
			for _, skill := range role.MissingSkills {
				output.WriteString(fmt.Sprintf("- %s\n", skill))
			}
			output.WriteString("\n")
		}
	}

	if len(result.Additional) > 0 {
		output.WriteString("## Other Roles in Your Stream\n\n")
		for _, role := range result.Additional {
			output.WriteString(fmt.Sprintf("- %s\n", role.Title))
		}
	}

	return output.String(), nil
}

func (rmf *RoleFitMarkdownFormatter) SupportedType() string {
	return "RoleFitResult"
}

// RoadmapTextFormatter handles text formatting for learning roadmaps
type RoadmapTextFormatter struct{}

func (rtf *RoadmapTextFormatter) Format(data any) (string, error) {
	weeks, ok := data.([]types.RoadmapWeek)
	if !ok {
		return "", fmt.Errorf("expected []RoadmapWeek, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== LEARNING ROADMAP ===\n\n")
	for _, week := range weeks {
		output.WriteString(fmt.Sprintf("Week %d: %s\n", week.Week, week.Title))
		for _, goal := range week.Goals {
			mark := " "
			if goal.Completed {
				mark = "x"
			}
			output.WriteString(fmt.Sprintf("  [%s] %s\n", mark, goal.Text))
		}
		if week.Notes != "" {
			output.WriteString("  Notes: ")
			output.WriteString(week.Notes)
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rtf *RoadmapTextFormatter) SupportedType() string {
	return "Roadmap"
}

// RoadmapMarkdownFormatter handles markdown formatting for learning roadmaps
type RoadmapMarkdownFormatter struct{}

func (rmf *RoadmapMarkdownFormatter) Format(data any) (string, error) {
	weeks, ok := data.([]types.RoadmapWeek)
	if !ok {
		return "", fmt.Errorf("expected []RoadmapWeek, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Learning Roadmap\n\n")
	for _, week := range weeks {
		output.WriteString(fmt.Sprintf("## Week %d: %s\n\n", week.Week, week.Title))
		for _, goal := range week.Goals {
			mark := " "
			if goal.Completed {
				mark = "x"
			}
			output.WriteString(fmt.Sprintf("- [%s] %s\n", mark, goal.Text))
		}
		if week.Notes != "" {
			output.WriteString("\n> ")
			output.WriteString(week.Notes)
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rmf *RoadmapMarkdownFormatter) SupportedType() string {
	return "Roadmap"
}

// JobsTextFormatter handles text formatting for job matches
type JobsTextFormatter struct{}

func (jtf *JobsTextFormatter) Format(data any) (string, error) {
	jobs, ok := data.([]types.JobListing)
	if !ok {
		return "", fmt.Errorf("expected []JobListing, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOB MATCHES ===\n\n")
	if len(jobs) == 0 {
		output.WriteString("No jobs matched the given filters.\n")
	}
	for i, job := range jobs {
		output.WriteString(fmt.Sprintf("%d. %s at %s\n", i+1, job.Title, job.Company))
		output.WriteString(fmt.Sprintf("   %s | %s | %s\n", job.Location, job.Experience, job.WorkStyle))
		if job.MatchScore != nil {
			output.WriteString(fmt.Sprintf("   Match: %d/100", *job.MatchScore))
			if job.MatchReason != "" {
				output.WriteString(" - ")
				output.WriteString(job.MatchReason)
			}
			output.WriteString("\n")
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (jtf *JobsTextFormatter) SupportedType() string {
	return "JobListings"
}

// JobsMarkdownFormatter handles markdown formatting for job matches
type JobsMarkdownFormatter struct{}

func (jmf *JobsMarkdownFormatter) Format(data any) (string, error) {
	jobs, ok := data.([]types.JobListing)
	if !ok {
		return "", fmt.Errorf("expected []JobListing, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Job Matches\n\n")
	if len(jobs) == 0 {
		output.WriteString("No jobs matched the given filters.\n")
	}
	for _, job := range jobs {
		output.WriteString(fmt.Sprintf("## %s at %s\n\n", job.Title, job.Company))
		output.WriteString(fmt.Sprintf("**Location:** %s | **Experience:** %s | **Work style:** %s\n\n", job.Location, job.Experience, job.WorkStyle))
		if job.MatchScore != nil {
			output.WriteString(fmt.Sprintf("**Match:** %d/100\n\n", *job.MatchScore))
			if job.MatchReason != "" {
				output.WriteString(job.MatchReason)
				output.WriteString("\n\n")
			}
		}
	}

	return output.String(), nil
}

func (jmf *JobsMarkdownFormatter) SupportedType() string {
	return "JobListings"
}

// InterviewSummaryTextFormatter handles text formatting for interview feedback
type InterviewSummaryTextFormatter struct{}

func (itf *InterviewSummaryTextFormatter) Format(data any) (string, error) {
	summary, ok := data.(types.InterviewSummary)
	if !ok {
		return "", fmt.Errorf("expected InterviewSummary, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== INTERVIEW FEEDBACK ===\n\n")
	output.WriteString("Strengths:\n")
	output.WriteString(summary.Strengths)
	output.WriteString("\n\n")
	output.WriteString("Improvements:\n")
	output.WriteString(summary.Improvements)
	output.WriteString("\n")

	return output.String(), nil
}

func (itf *InterviewSummaryTextFormatter) SupportedType() string {
	return "InterviewSummary"
}

// InterviewSummaryMarkdownFormatter handles markdown formatting for interview feedback
type InterviewSummaryMarkdownFormatter struct{}

func (imf *InterviewSummaryMarkdownFormatter) Format(data any) (string, error) {
	summary, ok := data.(types.InterviewSummary)
	if !ok {
		return "", fmt.Errorf("expected InterviewSummary, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Interview Feedback\n\n")
	output.WriteString("## Strengths\n\n")
	output.WriteString(summary.Strengths)
	output.WriteString("\n\n")
	output.WriteString("## Improvements\n\n")
	output.WriteString(summary.Improvements)
	output.WriteString("\n")

	return output.String(), nil
}

func (imf *InterviewSummaryMarkdownFormatter) SupportedType() string {
	return "InterviewSummary"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
