package workflow

import "context"

// Operation is a single named step of an aggregate command.
type Operation interface {
	Name() string
	Execute(executionContext context.Context) error
}

// OperationFunc adapts a function into an Operation.
type OperationFunc struct {
	OperationName string
	Action        func(executionContext context.Context) error
}

// Name returns the operation name used in logs and errors.
func (operation OperationFunc) Name() string {
	return operation.OperationName
}

// Execute invokes the wrapped action. A missing action is a no-op.
func (operation OperationFunc) Execute(executionContext context.Context) error {
	if operation.Action == nil {
		return nil
	}
	return operation.Action(executionContext)
}
