package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	loadedPrompts     LoadedPrompts
	loadedPromptsOnce sync.Once
)

// LoadedPrompts holds prompt content resolved from external files. File
// content wins over inline config values, which win over built-in defaults.
type LoadedPrompts struct {
	SystemPrompts LoadedPromptSet
	UserPrompts   LoadedPromptSet
}

// LoadedPromptSet contains one resolved prompt per operation.
type LoadedPromptSet struct {
	RoleFit              string
	Roadmap              string
	InterviewResponse    string
	InterviewSummary     string
	AssessmentQuestions  string
	RecommendAssessments string
	JobMatch             string
}

// GetLoadedPrompts returns the loaded prompt content in a thread-safe way
func GetLoadedPrompts() *LoadedPrompts {
	return &loadedPrompts
}

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	loadedPromptsOnce.Do(func() {
		loadedPrompts = LoadedPrompts{}
	})

	sys := &c.AI.CustomPrompts.SystemPrompts
	usr := &c.AI.CustomPrompts.UserPrompts

	slots := []struct {
		filePath   string
		target     *string
		promptType string
		operation  string
	}{
		{sys.RoleFitFile, &loadedPrompts.SystemPrompts.RoleFit, "system", "roleFit"},
		{sys.RoadmapFile, &loadedPrompts.SystemPrompts.Roadmap, "system", "roadmap"},
		{sys.InterviewResponseFile, &loadedPrompts.SystemPrompts.InterviewResponse, "system", "interviewResponse"},
		{sys.InterviewSummaryFile, &loadedPrompts.SystemPrompts.InterviewSummary, "system", "interviewSummary"},
		{sys.AssessmentQuestionsFile, &loadedPrompts.SystemPrompts.AssessmentQuestions, "system", "assessmentQuestions"},
		{sys.RecommendAssessmentsFile, &loadedPrompts.SystemPrompts.RecommendAssessments, "system", "recommendAssessments"},
		{sys.JobMatchFile, &loadedPrompts.SystemPrompts.JobMatch, "system", "jobMatch"},
		{usr.RoleFitFile, &loadedPrompts.UserPrompts.RoleFit, "user", "roleFit"},
		{usr.RoadmapFile, &loadedPrompts.UserPrompts.Roadmap, "user", "roadmap"},
		{usr.InterviewResponseFile, &loadedPrompts.UserPrompts.InterviewResponse, "user", "interviewResponse"},
		{usr.InterviewSummaryFile, &loadedPrompts.UserPrompts.InterviewSummary, "user", "interviewSummary"},
		{usr.AssessmentQuestionsFile, &loadedPrompts.UserPrompts.AssessmentQuestions, "user", "assessmentQuestions"},
		{usr.RecommendAssessmentsFile, &loadedPrompts.UserPrompts.RecommendAssessments, "user", "recommendAssessments"},
		{usr.JobMatchFile, &loadedPrompts.UserPrompts.JobMatch, "user", "jobMatch"},
	}

	loaded := 0
	for _, slot := range slots {
		if slot.filePath == "" {
			continue
		}
		content, err := loadPromptFromFile(slot.filePath, slot.promptType, slot.operation)
		if err != nil {
			return err
		}
		*slot.target = content
		loaded++
	}

	if loaded > 0 {
		log.Printf("[CONFIG] Loaded %d custom prompt(s) from files", loaded)
	}

	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	log.Printf("[CONFIG] Loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}
