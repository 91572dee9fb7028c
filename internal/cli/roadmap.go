package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"careercompass/internal/ai"
	"careercompass/internal/catalog"
	"careercompass/internal/common"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap [role-id]",
	Short: "Generate a learning roadmap for a career role",
	Long: `Generate a multi-week learning roadmap for a catalog role using AI.
The command takes one argument: the role id (for example "swe" or
"data-analyst"). Without a configured AI provider the role's curated
roadmap template is returned instead.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if roadmapConfig.OutputFormat == "" {
			roadmapConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(roadmapConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRoadmap,
}

var roadmapConfig common.CommandConfig

func init() {
	roadmapCmd.Flags().StringVarP(&roadmapConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	roadmapCmd.Flags().StringVar(&roadmapConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runRoadmap(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	role, ok := catalog.RoleByID(args[0])
	if !ok {
		return fmt.Errorf("unknown role id %q; see the role catalog for valid ids", args[0])
	}

	gateway, err := ai.NewGateway(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("failed to create AI gateway: %w", err)
	}
	defer func() { _ = gateway.Close() }()

	logger.Info("Starting roadmap generation",
		"role_id", role.ID,
		"role_title", role.Title,
		"output_format", roadmapConfig.OutputFormat)

	weeks := gateway.GetRoadmap(cmd.Context(), role)

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(weeks, roadmapConfig); err != nil {
		return fmt.Errorf("failed to generate roadmap: %w", err)
	}

	logger.Info("Roadmap generation completed successfully")
	return nil
}
