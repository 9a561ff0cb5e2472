package cli

import (
	"encoding/json"
	"fmt"

	"hirescan/internal/common"
	"hirescan/internal/types"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report [evaluation-file]",
	Short: "Export a candidate evaluation report as PDF",
	Long: `Export a finalized candidate evaluation as a paginated PDF report.
The command takes one argument: the path to the evaluation JSON file
produced by the screening pipeline. The report includes the candidate
header, metadata, executive summary, risk flags, and per-metric
scorecards.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default language if not specified
		if reportConfig.Language == "" {
			reportConfig.Language = cfg.App.Language
		}
		if reportConfig.OutputDir == "" {
			reportConfig.OutputDir = cfg.App.OutputDir
		}
		return common.ValidateLanguage(reportConfig.Language)
	},
	RunE: runReport,
}

var reportConfig common.CommandConfig

func init() {
	reportCmd.Flags().StringVarP(&reportConfig.OutputFile, "output", "o", "", "Output file path (default: generated name in output directory)")
	reportCmd.Flags().StringVar(&reportConfig.Language, "language", "", "Label language: en or zh")

	// Add completion for language flag
	_ = reportCmd.RegisterFlagCompletionFunc("language", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return common.SupportedLanguages(), cobra.ShellCompDirectiveNoFileComp
	})
}

// parseEvaluationFile decodes the evaluation JSON into an export request
func parseEvaluationFile(content string) (types.ExportRequest, error) {
	var req types.ExportRequest
	if err := json.Unmarshal([]byte(content), &req); err != nil {
		return types.ExportRequest{}, fmt.Errorf("invalid evaluation file: %w", err)
	}
	return req, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	engine, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	createRequest := func(contents []string) (types.ExportRequest, error) {
		if len(contents) != 1 {
			return types.ExportRequest{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		req, err := parseEvaluationFile(contents[0])
		if err != nil {
			return types.ExportRequest{}, err
		}
		req.Kind = types.KindReport
		return req, nil
	}

	logDetails := func(req types.ExportRequest, cfg common.CommandConfig) {
		logger.Info("Starting report export",
			"candidate", req.Candidate.Name,
			"job_title", req.Job.Title,
			"metrics", len(req.Candidate.Metrics),
			"language", cfg.Language)
	}

	err = common.RunExportCommand(
		cmd.Context(),
		logger,
		reportConfig,
		engine,
		args,
		createRequest,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	logger.Info("Report export completed successfully")
	return nil
}
