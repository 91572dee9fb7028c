package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"careercompass/internal/ai"
	"careercompass/internal/catalog"
	"careercompass/internal/common"
	"careercompass/internal/types"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Match catalog jobs against filters",
	Long: `Match catalog jobs against a set of filters, optionally scored
against a target role. Every filter accepts "all" to disable it. Without a
configured AI provider jobs are filtered locally without match scores.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if jobsConfig.OutputFormat == "" {
			jobsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(jobsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runJobs,
}

var (
	jobsConfig  common.CommandConfig
	jobsFilters types.JobFilters
	jobsRoleID  string
)

func init() {
	jobsCmd.Flags().StringVarP(&jobsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	jobsCmd.Flags().StringVar(&jobsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	jobsCmd.Flags().StringVar(&jobsFilters.Role, "role", "", "Substring match on job title")
	jobsCmd.Flags().StringVar(&jobsFilters.Location, "location", "", "Substring match on location")
	jobsCmd.Flags().StringVar(&jobsFilters.Experience, "experience", types.FilterAll, "Experience level filter")
	jobsCmd.Flags().StringVar(&jobsFilters.CompanySize, "company-size", types.FilterAll, "Company size filter")
	jobsCmd.Flags().StringVar(&jobsFilters.Industry, "industry", types.FilterAll, "Industry filter")
	jobsCmd.Flags().StringVar(&jobsFilters.WorkStyle, "work-style", types.FilterAll, "Work style filter")
	jobsCmd.Flags().StringVar(&jobsFilters.Stream, "stream", types.FilterAll, "Career stream filter")
	jobsCmd.Flags().StringVar(&jobsRoleID, "role-id", "", "Target role id for match scoring")
}

func runJobs(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	var role *types.CareerRole
	if jobsRoleID != "" {
		found, ok := catalog.RoleByID(jobsRoleID)
		if !ok {
			return fmt.Errorf("unknown role id %q; see the role catalog for valid ids", jobsRoleID)
		}
		role = &found
	}

	gateway, err := ai.NewGateway(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("failed to create AI gateway: %w", err)
	}
	defer func() { _ = gateway.Close() }()

	logger.Info("Starting job matching",
		"stream", jobsFilters.Stream,
		"role_id", jobsRoleID,
		"output_format", jobsConfig.OutputFormat)

	jobs := gateway.GetJobs(cmd.Context(), jobsFilters, nil, role)

	outputHandler := common.NewOutputHandler(logger)
	if err := outputHandler.HandleOutput(jobs, jobsConfig); err != nil {
		return fmt.Errorf("failed to match jobs: %w", err)
	}

	logger.Info("Job matching completed successfully")
	return nil
}
