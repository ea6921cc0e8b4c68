package dependencies

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/xtask/internal/cargo"
	"github.com/temirov/xtask/internal/execshell"
	"github.com/temirov/xtask/internal/workflow"
)

// Check names a dependencies subcommand.
type Check string

// Supported dependency checks.
const (
	CheckDeny   Check = "deny"
	CheckUnused Check = "unused"
	CheckAll    Check = "all"
)

const (
	denyCrateNameConstant           = "cargo-deny"
	denyGroupTitleConstant          = "Cargo: run deny checks"
	denyFailureMessageConstant      = "Some dependencies don't meet the requirements!"
	udepsCrateNameConstant          = "cargo-udeps"
	udepsGroupTitleConstant         = "Cargo: run unused dependencies checks"
	udepsFailureMessageConstant     = "Unused dependencies found!"
	commandLineTemplateConstant     = "Command line: %s"
	unsupportedCheckTemplate        = "unsupported dependencies check %q"
	serviceDependenciesMissingError = "dependencies service requires an executor, crate installer and toolchain inspector"
)

var errServiceDependenciesMissing = errors.New(serviceDependenciesMissingError)

// Checks lists the individual checks in the order "all" runs them.
func Checks() []Check {
	return []Check{CheckDeny, CheckUnused}
}

// CrateInstaller ensures tool crates are installed.
type CrateInstaller interface {
	EnsureInstalled(executionContext context.Context, installation cargo.CrateInstallation) error
}

// ToolchainInspector reports whether the active toolchain is nightly.
type ToolchainInspector interface {
	IsNightly(executionContext context.Context) (bool, error)
}

// GroupPrinter frames the output of a tool invocation.
type GroupPrinter interface {
	Begin(title string)
	End()
}

// Dependencies wires the collaborators of the dependencies service.
type Dependencies struct {
	Logger       *zap.Logger
	Executor     execshell.CommandExecutor
	Installer    CrateInstaller
	Toolchain    ToolchainInspector
	GroupPrinter GroupPrinter
}

// Options tune how dependency checks run.
type Options struct {
	LockedInstall    bool
	WorkingDirectory string
}

// Service checks workspace dependencies with cargo-deny and cargo-udeps.
type Service struct {
	logger       *zap.Logger
	executor     execshell.CommandExecutor
	installer    CrateInstaller
	toolchain    ToolchainInspector
	groupPrinter GroupPrinter
	options      Options
}

// NewService constructs a Service.
func NewService(dependencies Dependencies, options Options) (*Service, error) {
	if dependencies.Executor == nil || dependencies.Installer == nil || dependencies.Toolchain == nil {
		return nil, errServiceDependenciesMissing
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:       logger,
		executor:     dependencies.Executor,
		installer:    dependencies.Installer,
		toolchain:    dependencies.Toolchain,
		groupPrinter: dependencies.GroupPrinter,
		options:      options,
	}, nil
}

// Run dispatches the named check.
func (service *Service) Run(executionContext context.Context, check Check) error {
	switch check {
	case CheckDeny:
		return service.Deny(executionContext)
	case CheckUnused:
		return service.Unused(executionContext)
	case CheckAll:
		return service.All(executionContext)
	default:
		return fmt.Errorf(unsupportedCheckTemplate, check)
	}
}

// All runs every dependency check in order, stopping at the first failure.
func (service *Service) All(executionContext context.Context) error {
	operations := []workflow.Operation{
		workflow.OperationFunc{OperationName: string(CheckDeny), Action: service.Deny},
		workflow.OperationFunc{OperationName: string(CheckUnused), Action: service.Unused},
	}
	return workflow.NewExecutor(service.logger, operations...).Execute(executionContext)
}

// Deny runs `cargo deny check`.
func (service *Service) Deny(executionContext context.Context) error {
	return service.runCargoTool(executionContext, denyCrateNameConstant, denyGroupTitleConstant, []string{"deny", "check"}, denyFailureMessageConstant)
}

// Unused runs `cargo udeps` on a nightly toolchain. Other toolchains only log why the check was not run.
func (service *Service) Unused(executionContext context.Context) error {
	isNightly, inspectError := service.toolchain.IsNightly(executionContext)
	if inspectError != nil {
		return inspectError
	}
	if !isNightly {
		service.logger.Error(cargo.NightlyRequiredMessage)
		return nil
	}
	return service.runCargoTool(executionContext, udepsCrateNameConstant, udepsGroupTitleConstant, []string{"udeps"}, udepsFailureMessageConstant)
}

func (service *Service) runCargoTool(executionContext context.Context, crateName string, groupTitle string, arguments []string, failureMessage string) error {
	installation := cargo.CrateInstallation{Name: crateName, Locked: service.options.LockedInstall}
	if installError := service.installer.EnsureInstalled(executionContext, installation); installError != nil {
		return installError
	}

	if service.groupPrinter != nil {
		service.groupPrinter.Begin(groupTitle)
		defer service.groupPrinter.End()
	}

	command := execshell.ShellCommand{Name: execshell.CommandCargo, Details: execshell.CommandDetails{Arguments: arguments, WorkingDirectory: service.options.WorkingDirectory}}
	service.logger.Info(fmt.Sprintf(commandLineTemplateConstant, execshell.CommandLine(command)))
	if _, executionError := service.executor.Execute(executionContext, command); executionError != nil {
		return execshell.NewToolFailure(failureMessage, executionError)
	}
	return nil
}
