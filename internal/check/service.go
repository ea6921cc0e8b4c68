package check

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/xtask/internal/cargo"
	"github.com/temirov/xtask/internal/execshell"
	"github.com/temirov/xtask/internal/prompt"
	"github.com/temirov/xtask/internal/workflow"
	"github.com/temirov/xtask/internal/workspace"
)

// Check names a check subcommand.
type Check string

// Supported checks.
const (
	CheckAudit  Check = "audit"
	CheckFormat Check = "format"
	CheckLint   Check = "lint"
	CheckTypos  Check = "typos"
	CheckAll    Check = "all"
)

const (
	allChecksPromptConstant         = "This will run all the checks with autofix on all members of the workspace."
	auditPromptConstant             = "This will run the audit check with autofix mode enabled."
	auditWorkspacePromptConstant    = "This will run audit checks on all targets."
	auditGroupTitleConstant         = "Audit: Crates and Examples"
	auditFailureMessageConstant     = "Audit check execution failed"
	auditCrateNameConstant          = "cargo-audit"
	auditCrateFeaturesConstant      = "fix"
	typosPromptConstant             = "This will look for typos in the source code check and auto-fix them."
	typosWorkspacePromptConstant    = "This will look for typos on all targets."
	typosGroupTitleConstant         = "Typos: Crates and Examples"
	typosFailureMessageConstant     = "Some typos have been found and cannot be fixed."
	typosCrateNameConstant          = "typos-cli"
	formatPromptTemplateConstant    = "This will run format checks on all %s of the workspace."
	formatWorkspacePromptConstant   = "This will run format check on all members of the workspace."
	formatGroupTitleTemplate        = "Format: %s"
	formatFailureTemplateConstant   = "Format check execution failed for %s"
	lintPromptTemplateConstant      = "This will run lint fix on all %s of the workspace."
	lintWorkspacePromptConstant     = "This will run lint fix on all members of the workspace."
	lintGroupTitleTemplate          = "Lint: %s"
	lintFailureTemplateConstant     = "Lint fix execution failed for %s"
	memberSkippedTemplateConstant   = "Skip '%s' because it has been excluded!"
	commandLineTemplateConstant     = "Command line: %s"
	checkDeclinedMessageConstant    = "Check skipped because it was not confirmed"
	unsupportedCheckTemplate        = "unsupported check %q"
	unsupportedTargetTemplate       = "unsupported target %q"
	memberResolutionErrorTemplate   = "failed to resolve workspace %s: %w"
	serviceDependenciesMissingError = "check service requires an executor, crate installer, member resolver and prompt session"
	logFieldCheckConstant           = "check"
	logFieldTargetConstant          = "target"
)

var errServiceDependenciesMissing = errors.New(serviceDependenciesMissingError)

// Checks lists the individual checks in the order "all" runs them.
func Checks() []Check {
	return []Check{CheckAudit, CheckFormat, CheckLint, CheckTypos}
}

// CrateInstaller ensures tool crates are installed.
type CrateInstaller interface {
	EnsureInstalled(executionContext context.Context, installation cargo.CrateInstallation) error
}

// GroupPrinter frames the output of a tool invocation.
type GroupPrinter interface {
	Begin(title string)
	End()
}

// Dependencies wires the collaborators of the check service.
type Dependencies struct {
	Logger         *zap.Logger
	Executor       execshell.CommandExecutor
	Installer      CrateInstaller
	MemberResolver workspace.MemberResolver
	GroupPrinter   GroupPrinter
	Session        *prompt.Session
}

// Options tune how checks run.
type Options struct {
	Filter           workspace.MemberFilter
	TyposVersion     string
	LockedInstall    bool
	// WorkingDirectory is where tool runs execute; empty means the current directory.
	WorkingDirectory string
}

// Service runs checks by invoking external tools.
type Service struct {
	logger         *zap.Logger
	executor       execshell.CommandExecutor
	installer      CrateInstaller
	memberResolver workspace.MemberResolver
	groupPrinter   GroupPrinter
	session        *prompt.Session
	options        Options
}

// workspaceToolCheck runs a single tool once over the whole workspace.
type workspaceToolCheck struct {
	prompt          string
	workspacePrompt string
	installation    cargo.CrateInstallation
	groupTitle      string
	command         execshell.ShellCommand
	failureMessage  string
}

// memberToolCheck runs a tool once per workspace member.
type memberToolCheck struct {
	promptTemplate     string
	workspacePrompt    string
	groupTitleTemplate string
	failureTemplate    string
	arguments          func(memberName string) []string
}

var (
	formatMemberCheck = memberToolCheck{
		promptTemplate:     formatPromptTemplateConstant,
		workspacePrompt:    formatWorkspacePromptConstant,
		groupTitleTemplate: formatGroupTitleTemplate,
		failureTemplate:    formatFailureTemplateConstant,
		arguments: func(memberName string) []string {
			return []string{"fmt", "-p", memberName, "--", "--color=always"}
		},
	}
	lintMemberCheck = memberToolCheck{
		promptTemplate:     lintPromptTemplateConstant,
		workspacePrompt:    lintWorkspacePromptConstant,
		groupTitleTemplate: lintGroupTitleTemplate,
		failureTemplate:    lintFailureTemplateConstant,
		arguments: func(memberName string) []string {
			return []string{"clippy", "--no-deps", "--fix", "--allow-dirty", "--allow-staged", "--color=always", "-p", memberName, "--", "--deny", "warnings"}
		},
	}
)

// NewService constructs a Service.
func NewService(dependencies Dependencies, options Options) (*Service, error) {
	if dependencies.Executor == nil || dependencies.Installer == nil || dependencies.MemberResolver == nil || dependencies.Session == nil {
		return nil, errServiceDependenciesMissing
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(options.TyposVersion) == 0 {
		options.TyposVersion = defaultTyposVersionConstant
	}
	return &Service{
		logger:         logger,
		executor:       dependencies.Executor,
		installer:      dependencies.Installer,
		memberResolver: dependencies.MemberResolver,
		groupPrinter:   dependencies.GroupPrinter,
		session:        dependencies.Session,
		options:        options,
	}, nil
}

// Run dispatches the named check.
func (service *Service) Run(executionContext context.Context, check Check, target workspace.Target, answer prompt.Answer) error {
	switch check {
	case CheckAudit:
		return service.Audit(executionContext, target, answer)
	case CheckFormat:
		return service.Format(executionContext, target, answer)
	case CheckLint:
		return service.Lint(executionContext, target, answer)
	case CheckTypos:
		return service.Typos(executionContext, target, answer)
	case CheckAll:
		return service.All(executionContext, target, answer)
	default:
		return fmt.Errorf(unsupportedCheckTemplate, check)
	}
}

// All asks once and then runs every check in order with that answer, stopping at the first failure.
func (service *Service) All(executionContext context.Context, target workspace.Target, answer prompt.Answer) error {
	resolvedAnswer, resolveError := service.session.Resolve(answer, allChecksPromptConstant)
	if resolveError != nil {
		return resolveError
	}

	operations := make([]workflow.Operation, 0, len(Checks()))
	for _, check := range Checks() {
		operations = append(operations, workflow.OperationFunc{
			OperationName: string(check),
			Action: func(operationContext context.Context) error {
				return service.Run(operationContext, check, target, resolvedAnswer)
			},
		})
	}

	return workflow.NewExecutor(service.logger, operations...).Execute(executionContext)
}

// Audit runs cargo-audit with fixes enabled.
func (service *Service) Audit(executionContext context.Context, target workspace.Target, answer prompt.Answer) error {
	return service.runWorkspaceToolCheck(executionContext, CheckAudit, target, answer, workspaceToolCheck{
		prompt:          auditPromptConstant,
		workspacePrompt: auditWorkspacePromptConstant,
		installation:    cargo.CrateInstallation{Name: auditCrateNameConstant, Features: auditCrateFeaturesConstant, Locked: service.options.LockedInstall},
		groupTitle:      auditGroupTitleConstant,
		command: execshell.ShellCommand{
			Name:    execshell.CommandCargo,
			Details: execshell.CommandDetails{Arguments: []string{"audit", "-q", "--color", "always", "fix"}},
		},
		failureMessage: auditFailureMessageConstant,
	})
}

// Typos runs the typos checker and writes the fixes it can make.
func (service *Service) Typos(executionContext context.Context, target workspace.Target, answer prompt.Answer) error {
	return service.runWorkspaceToolCheck(executionContext, CheckTypos, target, answer, workspaceToolCheck{
		prompt:          typosPromptConstant,
		workspacePrompt: typosWorkspacePromptConstant,
		installation:    cargo.CrateInstallation{Name: typosCrateNameConstant, Version: service.options.TyposVersion, Locked: service.options.LockedInstall},
		groupTitle:      typosGroupTitleConstant,
		command: execshell.ShellCommand{
			Name:    execshell.CommandTypos,
			Details: execshell.CommandDetails{Arguments: []string{"--write-changes"}},
		},
		failureMessage: typosFailureMessageConstant,
	})
}

// Format runs cargo fmt on every selected member.
func (service *Service) Format(executionContext context.Context, target workspace.Target, answer prompt.Answer) error {
	return service.runMemberToolCheck(executionContext, CheckFormat, target, answer, formatMemberCheck)
}

// Lint runs cargo clippy with fixes on every selected member.
func (service *Service) Lint(executionContext context.Context, target workspace.Target, answer prompt.Answer) error {
	return service.runMemberToolCheck(executionContext, CheckLint, target, answer, lintMemberCheck)
}

// runWorkspaceToolCheck handles tools that always cover the whole workspace. The workspace target
// runs the crates case once because a single invocation already covers the examples.
func (service *Service) runWorkspaceToolCheck(executionContext context.Context, check Check, target workspace.Target, answer prompt.Answer, toolCheck workspaceToolCheck) error {
	switch target {
	case workspace.TargetCrates, workspace.TargetExamples:
	case workspace.TargetWorkspace:
		resolvedAnswer, resolveError := service.session.Resolve(answer, toolCheck.workspacePrompt)
		if resolveError != nil {
			return resolveError
		}
		return service.runWorkspaceToolCheck(executionContext, check, workspace.TargetCrates, resolvedAnswer, toolCheck)
	default:
		return fmt.Errorf(unsupportedTargetTemplate, target)
	}

	resolvedAnswer, resolveError := service.session.Resolve(answer, toolCheck.prompt)
	if resolveError != nil {
		return resolveError
	}
	if !resolvedAnswer.Confirmed() {
		service.logDeclined(check, target)
		return nil
	}

	if installError := service.installer.EnsureInstalled(executionContext, toolCheck.installation); installError != nil {
		return installError
	}

	service.beginGroup(toolCheck.groupTitle)
	defer service.endGroup()

	if executionError := service.execute(executionContext, toolCheck.command); executionError != nil {
		return execshell.NewToolFailure(toolCheck.failureMessage, executionError)
	}
	return nil
}

// runMemberToolCheck handles tools invoked per member. The workspace target runs crates then examples
// with the answer given to the workspace-level prompt.
func (service *Service) runMemberToolCheck(executionContext context.Context, check Check, target workspace.Target, answer prompt.Answer, toolCheck memberToolCheck) error {
	if target == workspace.TargetWorkspace {
		resolvedAnswer, resolveError := service.session.Resolve(answer, toolCheck.workspacePrompt)
		if resolveError != nil {
			return resolveError
		}
		if !resolvedAnswer.Confirmed() {
			service.logDeclined(check, target)
			return nil
		}
		for _, concreteTarget := range target.Expand() {
			if checkError := service.runMemberToolCheck(executionContext, check, concreteTarget, resolvedAnswer, toolCheck); checkError != nil {
				return checkError
			}
		}
		return nil
	}

	memberKind, concrete := target.MemberKind()
	if !concrete {
		return fmt.Errorf(unsupportedTargetTemplate, target)
	}

	members, resolveMembersError := service.memberResolver.ResolveMembers(executionContext, memberKind)
	if resolveMembersError != nil {
		return fmt.Errorf(memberResolutionErrorTemplate, target.Label(), resolveMembersError)
	}

	resolvedAnswer, resolveError := service.session.Resolve(answer, fmt.Sprintf(toolCheck.promptTemplate, target.Label()))
	if resolveError != nil {
		return resolveError
	}
	if !resolvedAnswer.Confirmed() {
		service.logDeclined(check, target)
		return nil
	}

	for _, member := range members {
		if memberError := service.runMember(executionContext, member, toolCheck); memberError != nil {
			return memberError
		}
	}
	return nil
}

func (service *Service) runMember(executionContext context.Context, member workspace.Member, toolCheck memberToolCheck) error {
	service.beginGroup(fmt.Sprintf(toolCheck.groupTitleTemplate, member.Name))
	defer service.endGroup()

	if !service.options.Filter.Allows(member.Name) {
		service.logger.Info(fmt.Sprintf(memberSkippedTemplateConstant, member.Name))
		return nil
	}

	command := execshell.ShellCommand{
		Name:    execshell.CommandCargo,
		Details: execshell.CommandDetails{Arguments: toolCheck.arguments(member.Name)},
	}
	if executionError := service.execute(executionContext, command); executionError != nil {
		return execshell.NewToolFailure(fmt.Sprintf(toolCheck.failureTemplate, member.Name), executionError)
	}
	return nil
}

func (service *Service) execute(executionContext context.Context, command execshell.ShellCommand) error {
	command.Details.WorkingDirectory = service.options.WorkingDirectory
	service.logger.Info(fmt.Sprintf(commandLineTemplateConstant, execshell.CommandLine(command)))
	_, executionError := service.executor.Execute(executionContext, command)
	return executionError
}

func (service *Service) logDeclined(check Check, target workspace.Target) {
	service.logger.Debug(checkDeclinedMessageConstant, zap.String(logFieldCheckConstant, string(check)), zap.String(logFieldTargetConstant, string(target)))
}

func (service *Service) beginGroup(title string) {
	if service.groupPrinter != nil {
		service.groupPrinter.Begin(title)
	}
}

func (service *Service) endGroup() {
	if service.groupPrinter != nil {
		service.groupPrinter.End()
	}
}
