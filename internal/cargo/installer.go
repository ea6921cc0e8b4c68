package cargo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/xtask/internal/execshell"
)

const (
	installSubcommandConstant       = "install"
	installListFlagConstant         = "--list"
	installLockedFlagConstant       = "--locked"
	installFeaturesFlagConstant     = "--features"
	installVersionFlagConstant      = "--version"
	installedCrateVersionPrefix     = "v"
	installedCrateLineSuffix        = ":"
	installGroupTitleTemplate       = "Cargo: install crate '%s'"
	installFailureTemplate          = "crate '%s' should be installed: %w"
	installListFailureTemplate      = "failed to list installed crates: %w"
	installerExecutorMissingMessage = "crate installer requires a cargo executor"
	crateAlreadyInstalledMessage    = "Crate already installed"
	crateInstalledMessage           = "Crate installed"
	logFieldCrateConstant           = "crate"
	logFieldVersionConstant         = "version"
	logFieldFeaturesConstant        = "features"
)

// ErrExecutorNotConfigured indicates that a cargo executor was not supplied.
var ErrExecutorNotConfigured = errors.New(installerExecutorMissingMessage)

// Executor runs cargo subcommands.
type Executor interface {
	ExecuteCargo(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GroupPrinter frames the output of a tool invocation.
type GroupPrinter interface {
	Begin(title string)
	End()
}

// CrateInstallation describes a crate that provides a cargo subcommand or tool binary.
type CrateInstallation struct {
	Name     string
	Features string
	Version  string
	Locked   bool
}

// Arguments renders the cargo install arguments for the installation.
func (installation CrateInstallation) Arguments() []string {
	arguments := []string{installSubcommandConstant, installation.Name}
	if installation.Locked {
		arguments = append(arguments, installLockedFlagConstant)
	}
	if len(strings.TrimSpace(installation.Features)) > 0 {
		arguments = append(arguments, installFeaturesFlagConstant, strings.TrimSpace(installation.Features))
	}
	if len(strings.TrimSpace(installation.Version)) > 0 {
		arguments = append(arguments, installVersionFlagConstant, strings.TrimSpace(installation.Version))
	}
	return arguments
}

// Installer installs crates with cargo when they are missing.
type Installer struct {
	logger          *zap.Logger
	queryExecutor   Executor
	installExecutor Executor
	groupPrinter    GroupPrinter
}

// NewInstaller constructs an Installer that lists and installs crates through one executor.
func NewInstaller(logger *zap.Logger, executor Executor, groupPrinter GroupPrinter) (*Installer, error) {
	return NewInstallerWithQueryExecutor(logger, executor, executor, groupPrinter)
}

// NewInstallerWithQueryExecutor constructs an Installer that reads `cargo install --list` through
// queryExecutor and runs `cargo install` through installExecutor.
func NewInstallerWithQueryExecutor(logger *zap.Logger, queryExecutor Executor, installExecutor Executor, groupPrinter GroupPrinter) (*Installer, error) {
	if queryExecutor == nil || installExecutor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Installer{logger: logger, queryExecutor: queryExecutor, installExecutor: installExecutor, groupPrinter: groupPrinter}, nil
}

// EnsureInstalled installs the crate unless `cargo install --list` already reports it
// (at the requested version, when one is given).
func (installer *Installer) EnsureInstalled(executionContext context.Context, installation CrateInstallation) error {
	listResult, listError := installer.queryExecutor.ExecuteCargo(executionContext, execshell.CommandDetails{
		Arguments: []string{installSubcommandConstant, installListFlagConstant},
	})
	if listError != nil {
		return fmt.Errorf(installListFailureTemplate, listError)
	}

	crateFields := []zap.Field{
		zap.String(logFieldCrateConstant, installation.Name),
		zap.String(logFieldVersionConstant, installation.Version),
		zap.String(logFieldFeaturesConstant, installation.Features),
	}

	if IsCrateInstalled(listResult.StandardOutput, installation.Name, installation.Version) {
		installer.logger.Debug(crateAlreadyInstalledMessage, crateFields...)
		return nil
	}

	if installer.groupPrinter != nil {
		installer.groupPrinter.Begin(fmt.Sprintf(installGroupTitleTemplate, installation.Name))
		defer installer.groupPrinter.End()
	}

	if _, installError := installer.installExecutor.ExecuteCargo(executionContext, execshell.CommandDetails{Arguments: installation.Arguments()}); installError != nil {
		return fmt.Errorf(installFailureTemplate, installation.Name, installError)
	}

	installer.logger.Info(crateInstalledMessage, crateFields...)
	return nil
}

// IsCrateInstalled inspects `cargo install --list` output. Package lines have the form
// "name vX.Y.Z:" or "name vX.Y.Z (source):"; indented lines list binaries and are ignored.
func IsCrateInstalled(installListOutput string, crateName string, version string) bool {
	expectedVersion := strings.TrimPrefix(strings.TrimSpace(version), installedCrateVersionPrefix)
	for _, line := range strings.Split(installListOutput, "\n") {
		if len(line) == 0 || line[0] == ' ' || line[0] == '\t' {
			continue
		}

		fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(line), installedCrateLineSuffix))
		if len(fields) < 2 || fields[0] != crateName {
			continue
		}
		if len(expectedVersion) == 0 {
			return true
		}

		installedVersion := strings.TrimSuffix(strings.TrimPrefix(fields[1], installedCrateVersionPrefix), installedCrateLineSuffix)
		if installedVersion == expectedVersion {
			return true
		}
	}
	return false
}
