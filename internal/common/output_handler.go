package common

import (
	"path/filepath"

	"hirescan/internal/errors"
	"hirescan/internal/types"
	"hirescan/internal/utils"
)

// CommandConfig holds common configuration for export commands
type CommandConfig struct {
	OutputFile string // Explicit output path; empty means OutputDir plus the generated name
	OutputDir  string
	Language   string // BCP 47 tag for localized file names, e.g. "en", "zh"
}

// OutputHandler writes finished documents to disk
type OutputHandler struct {
	fileProcessor *FileProcessor
	logger        *errors.Logger
}

// NewOutputHandler creates a new output handler
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger),
		logger:        logger,
	}
}

// HandleResult writes the finished PDF to the configured location.
// With no explicit output file the document lands in the output
// directory under its generated name.
func (oh *OutputHandler) HandleResult(result *types.ExportResult, config CommandConfig) (string, error) {
	// Validate output file
	if err := oh.fileProcessor.ValidateOutputFile(config.OutputFile); err != nil {
		return "", err
	}

	path := config.OutputFile
	if path == "" {
		dir := config.OutputDir
		if dir == "" {
			dir = "."
		}
		path = filepath.Join(dir, result.FileName)
	}

	if err := oh.fileProcessor.WriteBinaryFile(path, result.PDF); err != nil {
		return "", err // Error already wrapped by WriteBinaryFile
	}

	oh.logger.Info("Document written successfully",
		"file", path,
		"pages", result.Pages,
		"size", utils.FormatFileSize(int64(len(result.PDF))))

	return path, nil
}
