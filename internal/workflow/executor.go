package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	workflowExecutionErrorTemplateConstant = "operation %s failed: %w"
	workflowOperationStartedMessage        = "Running operation"
	workflowOperationCompletedMessage      = "Operation completed"
	workflowOperationFieldName             = "operation"
	workflowOperationIndexFieldName        = "index"
)

// Executor runs operations in declared order and stops at the first failure.
type Executor struct {
	logger     *zap.Logger
	operations []Operation
}

// NewExecutor constructs an Executor instance.
func NewExecutor(logger *zap.Logger, operations ...Operation) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{logger: logger, operations: append([]Operation{}, operations...)}
}

// Execute runs every operation. The error of the first failing operation is wrapped with its name;
// the remaining operations are skipped. A canceled context stops execution before the next operation.
func (executor *Executor) Execute(executionContext context.Context) error {
	for operationIndex := range executor.operations {
		operation := executor.operations[operationIndex]
		if operation == nil {
			continue
		}
		if contextError := executionContext.Err(); contextError != nil {
			return fmt.Errorf(workflowExecutionErrorTemplateConstant, operation.Name(), contextError)
		}

		operationFields := []zap.Field{
			zap.String(workflowOperationFieldName, operation.Name()),
			zap.Int(workflowOperationIndexFieldName, operationIndex),
		}
		executor.logger.Debug(workflowOperationStartedMessage, operationFields...)

		if executeError := operation.Execute(executionContext); executeError != nil {
			return fmt.Errorf(workflowExecutionErrorTemplateConstant, operation.Name(), executeError)
		}

		executor.logger.Debug(workflowOperationCompletedMessage, operationFields...)
	}

	return nil
}
