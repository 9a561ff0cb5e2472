package common

import (
	"context"
	"fmt"

	"hirescan/internal/errors"
	"hirescan/internal/export"
	"hirescan/internal/types"
)

// CreateRequestFunc defines how to build the export request from file contents.
type CreateRequestFunc func(contents []string) (types.ExportRequest, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc func(req types.ExportRequest, cfg CommandConfig)

// RunExportCommand encapsulates the common logic for file-based export commands.
func RunExportCommand(
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	engine *export.Engine,
	args []string,
	createRequest CreateRequestFunc,
	logDetails LogDetailsFunc,
) error {
	// Pass the logger when creating helpers
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	req, err := createRequest(contents)
	if err != nil {
		return fmt.Errorf("failed to create export request from file contents: %w", err)
	}
	if req.Language == "" {
		req.Language = cmdConfig.Language
	}

	logDetails(req, cmdConfig)

	result, err := engine.Export(ctx, req)
	if err != nil {
		return err
	}

	_, err = outputHandler.HandleResult(result, cmdConfig)
	return err
}
