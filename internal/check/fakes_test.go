package check_test

import (
	"context"
	"strings"

	"github.com/temirov/xtask/internal/cargo"
	"github.com/temirov/xtask/internal/execshell"
	"github.com/temirov/xtask/internal/workspace"
)

type recordingExecutor struct {
	failingCommandLines map[string]int
	executedLines       []string
	workingDirectories  []string
}

func (executor *recordingExecutor) Execute(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	commandLine := execshell.CommandLine(command)
	executor.executedLines = append(executor.executedLines, commandLine)
	executor.workingDirectories = append(executor.workingDirectories, command.Details.WorkingDirectory)
	if exitCode, failing := executor.failingCommandLines[commandLine]; failing {
		result := execshell.ExecutionResult{ExitCode: exitCode}
		return execshell.ExecutionResult{}, execshell.CommandFailedError{Command: command, Result: result}
	}
	return execshell.ExecutionResult{}, nil
}

type recordingInstaller struct {
	failure       error
	installations []cargo.CrateInstallation
}

func (installer *recordingInstaller) EnsureInstalled(_ context.Context, installation cargo.CrateInstallation) error {
	installer.installations = append(installer.installations, installation)
	return installer.failure
}

type staticMemberResolver struct {
	members map[workspace.MemberKind][]workspace.Member
	failure error
	calls   []workspace.MemberKind
}

func (resolver *staticMemberResolver) ResolveMembers(_ context.Context, kind workspace.MemberKind) ([]workspace.Member, error) {
	resolver.calls = append(resolver.calls, kind)
	if resolver.failure != nil {
		return nil, resolver.failure
	}
	return resolver.members[kind], nil
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

type scriptedPrompter struct {
	responses []bool
	prompts   []string
}

func (prompter *scriptedPrompter) Confirm(message string) (bool, error) {
	prompter.prompts = append(prompter.prompts, strings.TrimSuffix(message, " Do you want to proceed? [y/N]: "))
	if len(prompter.responses) == 0 {
		return false, nil
	}
	response := prompter.responses[0]
	prompter.responses = prompter.responses[1:]
	return response, nil
}

func newStaticMemberResolver() *staticMemberResolver {
	return &staticMemberResolver{members: map[workspace.MemberKind][]workspace.Member{
		workspace.MemberKindCrate: {
			{Name: "burn-core", Kind: workspace.MemberKindCrate},
			{Name: "burn-ndarray", Kind: workspace.MemberKindCrate},
		},
		workspace.MemberKindExample: {
			{Name: "mnist", Kind: workspace.MemberKindExample},
		},
	}}
}
