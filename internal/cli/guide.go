package cli

import (
	"fmt"
	"strings"

	"hirescan/internal/common"
	"hirescan/internal/types"

	"github.com/spf13/cobra"
)

var guideCmd = &cobra.Command{
	Use:   "guide [evaluation-file] [guide-file]",
	Short: "Export an interview guide as PDF",
	Long: `Export an interview guide as a paginated PDF. The command takes two
arguments: the path to the evaluation JSON file (used for the document
header and file name) and the path to the guide text file. The guide
text uses markdown-like markers for sections, lists, and rules.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default language if not specified
		if guideConfig.Language == "" {
			guideConfig.Language = cfg.App.Language
		}
		if guideConfig.OutputDir == "" {
			guideConfig.OutputDir = cfg.App.OutputDir
		}
		return common.ValidateLanguage(guideConfig.Language)
	},
	RunE: runGuide,
}

var guideConfig common.CommandConfig

func init() {
	guideCmd.Flags().StringVarP(&guideConfig.OutputFile, "output", "o", "", "Output file path (default: generated name in output directory)")
	guideCmd.Flags().StringVar(&guideConfig.Language, "language", "", "Label language: en or zh")

	// Add completion for language flag
	_ = guideCmd.RegisterFlagCompletionFunc("language", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return common.SupportedLanguages(), cobra.ShellCompDirectiveNoFileComp
	})
}

func runGuide(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	engine, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	createRequest := func(contents []string) (types.ExportRequest, error) {
		if len(contents) != 2 {
			return types.ExportRequest{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		req, err := parseEvaluationFile(contents[0])
		if err != nil {
			return types.ExportRequest{}, err
		}
		if strings.TrimSpace(contents[1]) == "" {
			return types.ExportRequest{}, fmt.Errorf("guide file is empty")
		}
		req.Kind = types.KindGuide
		req.GuideText = contents[1]
		return req, nil
	}

	logDetails := func(req types.ExportRequest, cfg common.CommandConfig) {
		logger.Info("Starting guide export",
			"candidate", req.Candidate.Name,
			"job_title", req.Job.Title,
			"guide_chars", len(req.GuideText),
			"language", cfg.Language)
	}

	err = common.RunExportCommand(
		cmd.Context(),
		logger,
		guideConfig,
		engine,
		args,
		createRequest,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to export guide: %w", err)
	}
	logger.Info("Guide export completed successfully")
	return nil
}
