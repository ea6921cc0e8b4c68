package dependencies

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/xtask/internal/cargo"
	"github.com/temirov/xtask/internal/execshell"
	"github.com/temirov/xtask/internal/ui"
	"github.com/temirov/xtask/internal/workspace"
)

const (
	commandUseConstant              = "dependencies"
	commandShortDescriptionConstant = "Check workspace dependencies with cargo-deny and cargo-udeps"
	commandLongDescriptionConstant  = "dependencies verifies dependency policies with cargo-deny and, on a nightly toolchain, looks for unused dependencies with cargo-udeps."
	denyShortDescriptionConstant    = "Run cargo-deny checks"
	unusedShortDescriptionConstant  = "Look for unused dependencies with cargo-udeps (nightly only)"
	allShortDescriptionConstant     = "Run every dependency check, stopping at the first failure"
)

var checkShortDescriptions = map[Check]string{
	CheckDeny:   denyShortDescriptionConstant,
	CheckUnused: unusedShortDescriptionConstant,
	CheckAll:    allShortDescriptionConstant,
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the dependencies configuration.
type ConfigurationProvider func() CommandConfiguration

// WorkspaceConfigurationProvider returns the workspace configuration; its manifest directory is where tools run.
type WorkspaceConfigurationProvider func() workspace.Configuration

// CommandBuilder assembles the dependencies command and its subcommands.
type CommandBuilder struct {
	LoggerProvider                 LoggerProvider
	HumanReadableLoggingProvider   func() bool
	ConfigurationProvider          ConfigurationProvider
	WorkspaceConfigurationProvider WorkspaceConfigurationProvider
	Executor                     execshell.CommandExecutor
	Installer                    CrateInstaller
	Toolchain                    ToolchainInspector
	GroupPrinter                 GroupPrinter
}

// Build constructs the dependencies command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
	}

	for _, check := range append(Checks(), CheckAll) {
		command.AddCommand(&cobra.Command{
			Use:   string(check),
			Short: checkShortDescriptions[check],
			Args:  cobra.NoArgs,
			RunE:  builder.runCheck(check),
		})
	}

	return command, nil
}

func (builder *CommandBuilder) runCheck(check Check) func(*cobra.Command, []string) error {
	return func(command *cobra.Command, arguments []string) error {
		service, serviceError := builder.buildService(command)
		if serviceError != nil {
			return serviceError
		}
		return service.Run(command.Context(), check)
	}
}

func (builder *CommandBuilder) buildService(command *cobra.Command) (*Service, error) {
	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()

	executor, queryExecutor, executorError := builder.resolveExecutors(command, logger)
	if executorError != nil {
		return nil, executorError
	}
	toolCommands := execshell.ToolCommands{Executor: executor}
	queryCommands := execshell.ToolCommands{Executor: queryExecutor}

	groupPrinter := builder.GroupPrinter
	if groupPrinter == nil {
		groupPrinter = ui.NewGroupPrinter(command.OutOrStdout(), os.LookupEnv)
	}

	installer := builder.Installer
	if installer == nil {
		crateInstaller, installerError := cargo.NewInstallerWithQueryExecutor(logger, queryCommands, toolCommands, groupPrinter)
		if installerError != nil {
			return nil, installerError
		}
		installer = crateInstaller
	}

	toolchain := builder.Toolchain
	if toolchain == nil {
		toolchainInspector, inspectorError := cargo.NewToolchainInspector(queryCommands)
		if inspectorError != nil {
			return nil, inspectorError
		}
		toolchain = toolchainInspector
	}

	return NewService(
		Dependencies{
			Logger:       logger,
			Executor:     executor,
			Installer:    installer,
			Toolchain:    toolchain,
			GroupPrinter: groupPrinter,
		},
		Options{
			LockedInstall:    configuration.LockedInstall,
			WorkingDirectory: builder.resolveWorkspaceConfiguration().WorkingDirectory(),
		},
	)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

// resolveExecutors returns the executor for tool runs, which streams child output to the command,
// and the executor for queries such as `cargo metadata`, which only captures it.
func (builder *CommandBuilder) resolveExecutors(command *cobra.Command, logger *zap.Logger) (execshell.CommandExecutor, execshell.CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, builder.Executor, nil
	}

	var observer execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		observer = ui.NewConsoleCommandEventLogger(logger)
	}

	streamingExecutor, streamingError := execshell.NewStreamingShellExecutor(logger, command.OutOrStdout(), command.ErrOrStderr(), observer)
	if streamingError != nil {
		return nil, nil, streamingError
	}

	capturingExecutor, capturingError := execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), observer)
	if capturingError != nil {
		return nil, nil, capturingError
	}

	return streamingExecutor, capturingExecutor, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveWorkspaceConfiguration() workspace.Configuration {
	if builder.WorkspaceConfigurationProvider == nil {
		return workspace.DefaultConfiguration()
	}
	return builder.WorkspaceConfigurationProvider()
}
