package dependencies_test

import (
	"context"

	"github.com/temirov/xtask/internal/cargo"
	"github.com/temirov/xtask/internal/execshell"
)

type recordingExecutor struct {
	outputs             map[string]string
	failingCommandLines map[string]int
	executedLines       []string
	workingDirectories  []string
}

func newRecordingExecutor(rustcVersion string) *recordingExecutor {
	return &recordingExecutor{
		outputs:             map[string]string{rustcVersionCommandLine: rustcVersion},
		failingCommandLines: map[string]int{},
	}
}

func (executor *recordingExecutor) Execute(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	commandLine := execshell.CommandLine(command)
	executor.executedLines = append(executor.executedLines, commandLine)
	executor.workingDirectories = append(executor.workingDirectories, command.Details.WorkingDirectory)
	if exitCode, failing := executor.failingCommandLines[commandLine]; failing {
		result := execshell.ExecutionResult{ExitCode: exitCode}
		return execshell.ExecutionResult{}, execshell.CommandFailedError{Command: command, Result: result}
	}
	return execshell.ExecutionResult{StandardOutput: executor.outputs[commandLine]}, nil
}

type recordingInstaller struct {
	failure       error
	installations []cargo.CrateInstallation
}

func (installer *recordingInstaller) EnsureInstalled(_ context.Context, installation cargo.CrateInstallation) error {
	installer.installations = append(installer.installations, installation)
	return installer.failure
}

type recordingGroupPrinter struct {
	events []string
}

func (printer *recordingGroupPrinter) Begin(title string) {
	printer.events = append(printer.events, "begin:"+title)
}

func (printer *recordingGroupPrinter) End() {
	printer.events = append(printer.events, "end")
}
