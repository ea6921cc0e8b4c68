package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	fallbackUnknownValueLabelConstant       = "unknown"
	workspaceLabelConstant                  = "the workspace"
)

const (
	cargoFormatSubcommandNameConstant   = "fmt"
	cargoClippySubcommandNameConstant   = "clippy"
	cargoAuditSubcommandNameConstant    = "audit"
	cargoDenySubcommandNameConstant     = "deny"
	cargoUdepsSubcommandNameConstant    = "udeps"
	cargoInstallSubcommandNameConstant  = "install"
	cargoMetadataSubcommandNameConstant = "metadata"
	cargoPackageFlagConstant            = "-p"
	cargoListFlagConstant               = "--list"
	argumentTerminatorConstant          = "--"
)

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var (
	cargoFormatTemplates = stageTemplates{
		start:            "Formatting %s",
		success:          "Formatted %s",
		failure:          "Formatting %s failed (exit code %d%s)",
		executionFailure: "Unable to format %s: %s",
	}
	cargoClippyTemplates = stageTemplates{
		start:            "Linting %s",
		success:          "Linted %s",
		failure:          "Linting %s failed (exit code %d%s)",
		executionFailure: "Unable to lint %s: %s",
	}
	cargoAuditTemplates = stageTemplates{
		start:            "Auditing dependencies of %s",
		success:          "Audited dependencies of %s",
		failure:          "Auditing dependencies of %s failed (exit code %d%s)",
		executionFailure: "Unable to audit dependencies of %s: %s",
	}
	cargoDenyTemplates = stageTemplates{
		start:            "Checking dependency policies of %s",
		success:          "Dependency policies of %s are satisfied",
		failure:          "Dependency policies of %s are violated (exit code %d%s)",
		executionFailure: "Unable to check dependency policies of %s: %s",
	}
	cargoUdepsTemplates = stageTemplates{
		start:            "Looking for unused dependencies in %s",
		success:          "No unused dependencies in %s",
		failure:          "Unused dependencies found in %s (exit code %d%s)",
		executionFailure: "Unable to look for unused dependencies in %s: %s",
	}
	cargoInstallListTemplates = stageTemplates{
		start:            "Listing installed crates%s",
		success:          "Listed installed crates%s",
		failure:          "Listing installed crates%s failed (exit code %d%s)",
		executionFailure: "Unable to list installed crates%s: %s",
	}
	cargoInstallTemplates = stageTemplates{
		start:            "Installing crate %s",
		success:          "Installed crate %s",
		failure:          "Installing crate %s failed (exit code %d%s)",
		executionFailure: "Unable to install crate %s: %s",
	}
	cargoMetadataTemplates = stageTemplates{
		start:            "Reading workspace metadata%s",
		success:          "Read workspace metadata%s",
		failure:          "Reading workspace metadata%s failed (exit code %d%s)",
		executionFailure: "Unable to read workspace metadata%s: %s",
	}
	typosTemplates = stageTemplates{
		start:            "Looking for typos%s",
		success:          "No unfixable typos%s",
		failure:          "Typos remain%s (exit code %d%s)",
		executionFailure: "Unable to look for typos%s: %s",
	}
	rustcTemplates = stageTemplates{
		start:            "Inspecting active toolchain%s",
		success:          "Inspected active toolchain%s",
		failure:          "Inspecting active toolchain%s failed (exit code %d%s)",
		executionFailure: "Unable to inspect active toolchain%s: %s",
	}
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandCargo:
		return formatter.describeCargoMessage(command, result, failure, stage)
	case CommandTypos:
		return formatter.render(typosTemplates, formatter.formatWorkingDirectorySuffix(command), result, failure, stage)
	case CommandRustc:
		return formatter.render(rustcTemplates, formatter.formatWorkingDirectorySuffix(command), result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeCargoMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch strings.TrimSpace(arguments[0]) {
	case cargoFormatSubcommandNameConstant:
		return formatter.render(cargoFormatTemplates, formatter.describePackage(command), result, failure, stage)
	case cargoClippySubcommandNameConstant:
		return formatter.render(cargoClippyTemplates, formatter.describePackage(command), result, failure, stage)
	case cargoAuditSubcommandNameConstant:
		return formatter.render(cargoAuditTemplates, formatter.describePackage(command), result, failure, stage)
	case cargoDenySubcommandNameConstant:
		return formatter.render(cargoDenyTemplates, formatter.describePackage(command), result, failure, stage)
	case cargoUdepsSubcommandNameConstant:
		return formatter.render(cargoUdepsTemplates, formatter.describePackage(command), result, failure, stage)
	case cargoInstallSubcommandNameConstant:
		if containsArgument(arguments, cargoListFlagConstant) {
			return formatter.render(cargoInstallListTemplates, formatter.formatWorkingDirectorySuffix(command), result, failure, stage)
		}
		return formatter.render(cargoInstallTemplates, formatter.ensureValue(formatter.argumentAtIndex(arguments, 1)), result, failure, stage)
	case cargoMetadataSubcommandNameConstant:
		return formatter.render(cargoMetadataTemplates, formatter.formatWorkingDirectorySuffix(command), result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) render(templates stageTemplates, subject string, result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subject)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subject)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, subject, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, subject, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := fmt.Sprintf(commandLabelTemplateConstant, CommandLine(command), formatter.formatWorkingDirectorySuffix(command))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

// describePackage returns the package selected with -p, or a workspace label when none is given.
func (formatter CommandMessageFormatter) describePackage(command ShellCommand) string {
	arguments := command.Details.Arguments
	for index := 0; index < len(arguments); index++ {
		argument := strings.TrimSpace(arguments[index])
		if argument == argumentTerminatorConstant {
			break
		}
		if argument == cargoPackageFlagConstant && index+1 < len(arguments) {
			return formatter.ensureValue(arguments[index+1])
		}
	}
	return workspaceLabelConstant
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	lines := strings.Split(trimmedStandardError, "\n")
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, strings.TrimSpace(lines[len(lines)-1]))
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
