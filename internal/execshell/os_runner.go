package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
	standardOutputPipeErrorTemplate        = "open standard output pipe: %w"
	standardErrorPipeErrorTemplate         = "open standard error pipe: %w"
	commandStartErrorTemplate              = "start: %w"
	outputStreamErrorTemplate              = "stream output: %w"
)

// OSCommandRunner executes commands using the operating system facilities.
//
// Standard output and standard error of the child are copied to the configured
// writers while the command runs and are also captured in the ExecutionResult.
type OSCommandRunner struct {
	standardOutput io.Writer
	standardError  io.Writer
}

// NewOSCommandRunner constructs a runner that captures output without echoing it.
func NewOSCommandRunner() *OSCommandRunner {
	return NewStreamingOSCommandRunner(nil, nil)
}

// NewStreamingOSCommandRunner constructs a runner that echoes child output to the provided writers.
func NewStreamingOSCommandRunner(standardOutput io.Writer, standardError io.Writer) *OSCommandRunner {
	if standardOutput == nil {
		standardOutput = io.Discard
	}
	if standardError == nil {
		standardError = io.Discard
	}
	return &OSCommandRunner{standardOutput: standardOutput, standardError: standardError}
}

// Run executes the supplied command using os/exec.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	standardOutputPipe, pipeError := executable.StdoutPipe()
	if pipeError != nil {
		return ExecutionResult{}, fmt.Errorf(standardOutputPipeErrorTemplate, pipeError)
	}
	standardErrorPipe, pipeError := executable.StderrPipe()
	if pipeError != nil {
		return ExecutionResult{}, fmt.Errorf(standardErrorPipeErrorTemplate, pipeError)
	}

	if startError := executable.Start(); startError != nil {
		return ExecutionResult{}, fmt.Errorf(commandStartErrorTemplate, startError)
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer

	// Both pipes must be drained before Wait closes them.
	streamGroup := errgroup.Group{}
	streamGroup.Go(func() error {
		_, copyError := io.Copy(io.MultiWriter(&standardOutputBuffer, runner.resolveStandardOutput()), standardOutputPipe)
		return copyError
	})
	streamGroup.Go(func() error {
		_, copyError := io.Copy(io.MultiWriter(&standardErrorBuffer, runner.resolveStandardError()), standardErrorPipe)
		return copyError
	})
	streamError := streamGroup.Wait()

	waitError := executable.Wait()
	if waitError != nil {
		exitError := &exec.ExitError{}
		if errors.As(waitError, &exitError) && executionContext.Err() == nil {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		if contextError := executionContext.Err(); contextError != nil {
			return ExecutionResult{}, contextError
		}
		return ExecutionResult{}, waitError
	}

	if streamError != nil {
		return ExecutionResult{}, fmt.Errorf(outputStreamErrorTemplate, streamError)
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}

func (runner *OSCommandRunner) resolveStandardOutput() io.Writer {
	if runner == nil || runner.standardOutput == nil {
		return io.Discard
	}
	return runner.standardOutput
}

func (runner *OSCommandRunner) resolveStandardError() io.Writer {
	if runner == nil || runner.standardError == nil {
		return io.Discard
	}
	return runner.standardError
}
