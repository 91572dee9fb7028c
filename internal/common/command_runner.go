package common

import (
	"context"
	"fmt"

	"careercompass/internal/errors"
)

// CreateInputFunc defines how to create the specific gateway input from file contents.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// GatewayOperationFunc is a generic signature for a gateway call. Gateway
// operations degrade to curated fallbacks internally, so there is no error
// to surface here.
type GatewayOperationFunc[Input, Output any] func(context.Context, Input) Output

// RunGatewayCommand encapsulates the common logic for file-based CLI commands.
func RunGatewayCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation GatewayOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	logDetails(input, cmdConfig)

	result := operation(ctx, input)

	return outputHandler.HandleOutput(result, cmdConfig)
}
