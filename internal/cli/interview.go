package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"careercompass/internal/ai"
	"careercompass/internal/common"
	"careercompass/internal/types"
)

var interviewCmd = &cobra.Command{
	Use:   "interview [transcript-file]",
	Short: "Summarize a mock interview transcript",
	Long: `Summarize a completed mock interview using AI.
The command takes one argument: the path to a JSON file containing the
transcript as an array of {"sender", "text"} messages. Transcripts with at
most one message get the neutral canned summary.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if interviewConfig.OutputFormat == "" {
			interviewConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(interviewConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runInterview,
}

var (
	interviewConfig common.CommandConfig
	interviewField  string
)

func init() {
	interviewCmd.Flags().StringVarP(&interviewConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	interviewCmd.Flags().StringVar(&interviewConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	interviewCmd.Flags().StringVar(&interviewField, "field", "Software Engineering", "Field the interview was conducted for")
}

func runInterview(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	gateway, err := ai.NewGateway(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("failed to create AI gateway: %w", err)
	}
	defer func() { _ = gateway.Close() }()

	createInput := func(contents []string) ([]types.ChatMessage, error) {
		if len(contents) != 1 {
			return nil, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		var messages []types.ChatMessage
		if err := json.Unmarshal([]byte(contents[0]), &messages); err != nil {
			return nil, fmt.Errorf("invalid transcript JSON: %w", err)
		}
		return messages, nil
	}

	logDetails := func(messages []types.ChatMessage, cfg common.CommandConfig) {
		logger.Info("Starting interview summary",
			"field", interviewField,
			"messages", len(messages),
			"output_format", cfg.OutputFormat)
	}

	summaryOperation := func(ctx context.Context, messages []types.ChatMessage) types.InterviewSummary {
		return gateway.GetInterviewSummary(ctx, messages, interviewField)
	}

	err = common.RunGatewayCommand(
		cmd.Context(),
		logger,
		interviewConfig,
		args,
		createInput,
		summaryOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to summarize interview: %w", err)
	}
	logger.Info("Interview summary completed successfully")
	return nil
}
