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

var roleFitCmd = &cobra.Command{
	Use:   "rolefit [profile-file]",
	Short: "Recommend career roles for a user profile",
	Long: `Recommend career roles for a user profile using AI.
The command takes one argument: the path to a JSON file containing the
profile (name, email, stream, interests, goals). Without a configured AI
provider the top roles of the profile's stream are returned instead.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if roleFitConfig.OutputFormat == "" {
			roleFitConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(roleFitConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRoleFit,
}

var roleFitConfig common.CommandConfig

func init() {
	roleFitCmd.Flags().StringVarP(&roleFitConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	roleFitCmd.Flags().StringVar(&roleFitConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runRoleFit(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	gateway, err := ai.NewGateway(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("failed to create AI gateway: %w", err)
	}
	defer func() { _ = gateway.Close() }()

	createInput := func(contents []string) (types.UserProfile, error) {
		if len(contents) != 1 {
			return types.UserProfile{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		var profile types.UserProfile
		if err := json.Unmarshal([]byte(contents[0]), &profile); err != nil {
			return types.UserProfile{}, fmt.Errorf("invalid profile JSON: %w", err)
		}
		return profile, nil
	}

	logDetails := func(profile types.UserProfile, cfg common.CommandConfig) {
		logger.Info("Starting role recommendation",
			"stream", profile.Stream,
			"output_format", cfg.OutputFormat)
	}

	roleFitOperation := func(ctx context.Context, profile types.UserProfile) types.RoleFitResult {
		return gateway.GetRoleFit(ctx, &profile)
	}

	err = common.RunGatewayCommand(
		cmd.Context(),
		logger,
		roleFitConfig,
		args,
		createInput,
		roleFitOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to recommend roles: %w", err)
	}
	logger.Info("Role recommendation completed successfully")
	return nil
}
