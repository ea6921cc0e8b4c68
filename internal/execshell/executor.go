package execshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/xtask/internal/utils"
)

const (
	commandCargoNameConstant              = "cargo"
	commandTyposNameConstant              = "typos"
	commandRustcNameConstant              = "rustc"
	loggerNotConfiguredMessageConstant    = "shell executor requires a logger"
	runnerNotConfiguredMessageConstant    = "shell executor requires a command runner"
	commandFailedErrorTemplateConstant    = "%s exited with code %d"
	commandExecutionErrorTemplateConstant = "%s could not be executed: %v"
	logFieldCommandNameConstant           = "command"
	logFieldCommandArgumentsConstant      = "arguments"
	logFieldWorkingDirectoryConstant      = "working_directory"
	logFieldExitCodeConstant              = "exit_code"
	commandLineArgumentSeparatorConstant  = " "
)

// CommandName identifies an executable invoked through the shell executor.
type CommandName string

// Supported executables.
const (
	CommandCargo CommandName = CommandName(commandCargoNameConstant)
	CommandTypos CommandName = CommandName(commandTyposNameConstant)
	CommandRustc CommandName = CommandName(commandRustcNameConstant)
)

// ErrLoggerNotConfigured indicates that the executor was built without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrRunnerNotConfigured indicates that the executor was built without a command runner.
var ErrRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)

// CommandDetails describes the arguments and environment of a single invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines an executable name with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of a finished command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner runs shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandExecutor executes shell commands and reports non-zero exit codes as errors.
type CommandExecutor interface {
	Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that ran but returned a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failing command and its exit code.
func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedErrorTemplateConstant, CommandLine(failure.Command), failure.Result.ExitCode)
}

// CommandExecutionError reports a command that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the command and the underlying failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, CommandLine(failure.Command), failure.Cause)
}

// Unwrap exposes the underlying failure.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ToolFailureError carries the user-facing message of a failed tool step and the underlying command error.
type ToolFailureError struct {
	Message string
	Cause   error
}

// NewToolFailure wraps cause with a user-facing message.
func NewToolFailure(message string, cause error) error {
	return ToolFailureError{Message: message, Cause: cause}
}

// Error returns the user-facing message.
func (failure ToolFailureError) Error() string {
	return failure.Message
}

// Unwrap exposes the underlying command error.
func (failure ToolFailureError) Unwrap() error {
	return failure.Cause
}

// CommandLine renders the command as it would be typed in a shell.
func CommandLine(command ShellCommand) string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandLineArgumentSeparatorConstant)
}

// ShellExecutor runs commands through a CommandRunner and reports their lifecycle.
type ShellExecutor struct {
	logger           *zap.Logger
	runner           CommandRunner
	eventObserver    CommandEventObserver
	messageFormatter CommandMessageFormatter
}

// NewShellExecutor constructs a ShellExecutor with a no-op event observer.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	return NewShellExecutorWithObserver(logger, runner, nil)
}

// NewShellExecutorWithObserver constructs a ShellExecutor that notifies the provided observer.
func NewShellExecutorWithObserver(logger *zap.Logger, runner CommandRunner, observer CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrRunnerNotConfigured
	}
	if observer == nil {
		observer = silentCommandEventObserver{}
	}
	return &ShellExecutor{logger: logger, runner: runner, eventObserver: observer}, nil
}

// Execute runs the command and converts non-zero exit codes into CommandFailedError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := []zap.Field{
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldCommandArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}

	executor.logger.Debug(executor.messageFormatter.BuildStartedMessage(command), commandFields...)
	executor.eventObserver.CommandStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Debug(executor.messageFormatter.BuildExecutionFailureMessage(command, runError), append(commandFields, zap.Error(runError))...)
		executor.eventObserver.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.eventObserver.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		executor.logger.Debug(executor.messageFormatter.BuildFailureMessage(command, executionResult), append(commandFields, zap.Int(logFieldExitCodeConstant, executionResult.ExitCode))...)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(executor.messageFormatter.BuildSuccessMessage(command), append(commandFields, zap.Int(logFieldExitCodeConstant, executionResult.ExitCode))...)
	return executionResult, nil
}

// ExecuteCargo runs cargo with the provided details.
func (executor *ShellExecutor) ExecuteCargo(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return ToolCommands{Executor: executor}.ExecuteCargo(executionContext, details)
}

// ExecuteRustc runs rustc with the provided details.
func (executor *ShellExecutor) ExecuteRustc(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return ToolCommands{Executor: executor}.ExecuteRustc(executionContext, details)
}

// NewStreamingShellExecutor constructs a ShellExecutor whose child processes stream their output to the
// provided writers. Writes from both streams are serialized.
func NewStreamingShellExecutor(logger *zap.Logger, standardOutput io.Writer, standardError io.Writer, observer CommandEventObserver) (*ShellExecutor, error) {
	synchronizedWriters := utils.NewSynchronizedWriters(standardOutput, standardError)
	return NewShellExecutorWithObserver(logger, NewStreamingOSCommandRunner(synchronizedWriters[0], synchronizedWriters[1]), observer)
}

// ToolCommands exposes per-tool helpers over any CommandExecutor.
type ToolCommands struct {
	Executor CommandExecutor
}

// ExecuteCargo runs cargo with the provided details.
func (commands ToolCommands) ExecuteCargo(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return commands.Executor.Execute(executionContext, ShellCommand{Name: CommandCargo, Details: details})
}

// ExecuteRustc runs rustc with the provided details.
func (commands ToolCommands) ExecuteRustc(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return commands.Executor.Execute(executionContext, ShellCommand{Name: CommandRustc, Details: details})
}
