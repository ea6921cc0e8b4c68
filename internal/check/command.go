package check

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/xtask/internal/cargo"
	"github.com/temirov/xtask/internal/execshell"
	"github.com/temirov/xtask/internal/prompt"
	"github.com/temirov/xtask/internal/ui"
	"github.com/temirov/xtask/internal/utils/flags"
	"github.com/temirov/xtask/internal/workspace"
)

const (
	commandUseConstant              = "check"
	commandShortDescriptionConstant = "Run audit, format, lint and typos checks with autofix"
	commandLongDescriptionConstant  = "check runs cargo-audit, cargo fmt, cargo clippy and typos over the workspace members selected with --target, --exclude and --only, fixing what the tools can fix."
	targetFlagNameConstant          = "target"
	targetFlagShorthandConstant     = "t"
	targetFlagDescriptionConstant   = "Workspace members to check."
	auditShortDescriptionConstant   = "Audit dependencies and apply available fixes"
	formatShortDescriptionConstant  = "Format every selected member with cargo fmt"
	lintShortDescriptionConstant    = "Lint every selected member with cargo clippy and apply fixes"
	typosShortDescriptionConstant   = "Find typos in the source code and fix them"
	allShortDescriptionConstant     = "Run every check, stopping at the first failure"
)

var checkShortDescriptions = map[Check]string{
	CheckAudit:  auditShortDescriptionConstant,
	CheckFormat: formatShortDescriptionConstant,
	CheckLint:   lintShortDescriptionConstant,
	CheckTypos:  typosShortDescriptionConstant,
	CheckAll:    allShortDescriptionConstant,
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the check configuration.
type ConfigurationProvider func() CommandConfiguration

// WorkspaceConfigurationProvider returns the workspace discovery configuration.
type WorkspaceConfigurationProvider func() workspace.Configuration

// CommandBuilder assembles the check command and its subcommands.
// Collaborators left nil are built from the command's streams at run time.
type CommandBuilder struct {
	LoggerProvider                 LoggerProvider
	HumanReadableLoggingProvider   func() bool
	ConfigurationProvider          ConfigurationProvider
	WorkspaceConfigurationProvider WorkspaceConfigurationProvider
	Executor                       execshell.CommandExecutor
	Installer                      CrateInstaller
	MemberResolver                 workspace.MemberResolver
	Prompter                       prompt.ConfirmationPrompter
	GroupPrinter                   GroupPrinter
}

type commandOptions struct {
	Target        workspace.Target
	Filter        workspace.MemberFilter
	AssumeYes     bool
	TyposVersion  string
	LockedInstall bool
}

// Build constructs the check command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
	}

	targetValue := workspace.DefaultTarget
	command.PersistentFlags().VarP(
		&targetValue,
		targetFlagNameConstant,
		targetFlagShorthandConstant,
		flags.FormatChoiceUsage(string(workspace.DefaultTarget), workspace.TargetChoices(), targetFlagDescriptionConstant),
	)
	flags.BindExecutionFlags(command, flags.ExecutionDefaults{}, flags.DefaultExecutionFlagDefinitions())

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
		options, optionsError := builder.parseOptions(command)
		if optionsError != nil {
			return optionsError
		}

		service, serviceError := builder.buildService(command, options)
		if serviceError != nil {
			return serviceError
		}

		return service.Run(command.Context(), check, options.Target, prompt.AnswerUnset)
	}
}

// parseOptions merges configuration with flags; explicitly set flags win.
func (builder *CommandBuilder) parseOptions(command *cobra.Command) (commandOptions, error) {
	configuration := builder.resolveConfiguration().Sanitize()
	flagSet := command.Flags()

	targetText := configuration.Target
	if flagSet.Changed(targetFlagNameConstant) {
		targetText = flagSet.Lookup(targetFlagNameConstant).Value.String()
	}
	target, targetError := workspace.ParseTarget(targetText)
	if targetError != nil {
		return commandOptions{}, targetError
	}

	excluded := configuration.Exclude
	if flagSet.Changed(flags.ExcludeFlagName) {
		excluded, _ = flagSet.GetStringSlice(flags.ExcludeFlagName)
	}

	only := configuration.Only
	if flagSet.Changed(flags.OnlyFlagName) {
		only, _ = flagSet.GetStringSlice(flags.OnlyFlagName)
	}

	assumeYes := configuration.AssumeYes
	if flagSet.Changed(flags.AssumeYesFlagName) {
		assumeYes, _ = flagSet.GetBool(flags.AssumeYesFlagName)
	}

	return commandOptions{
		Target:        target,
		Filter:        workspace.NewMemberFilter(excluded, only),
		AssumeYes:     assumeYes,
		TyposVersion:  configuration.TyposVersion,
		LockedInstall: configuration.LockedInstall,
	}, nil
}

func (builder *CommandBuilder) buildService(command *cobra.Command, options commandOptions) (*Service, error) {
	logger := builder.resolveLogger()
	workspaceConfiguration := builder.resolveWorkspaceConfiguration()

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

	memberResolver := builder.MemberResolver
	if memberResolver == nil {
		workspaceResolver, resolverError := workspace.NewMemberResolver(workspaceConfiguration, queryCommands)
		if resolverError != nil {
			return nil, resolverError
		}
		memberResolver = workspaceResolver
	}

	prompter := builder.Prompter
	if prompter == nil {
		prompter = prompt.NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())
	}

	return NewService(
		Dependencies{
			Logger:         logger,
			Executor:       executor,
			Installer:      installer,
			MemberResolver: memberResolver,
			GroupPrinter:   groupPrinter,
			Session:        prompt.NewSession(prompter, options.AssumeYes),
		},
		Options{
			Filter:           options.Filter,
			TyposVersion:     options.TyposVersion,
			LockedInstall:    options.LockedInstall,
			WorkingDirectory: workspaceConfiguration.WorkingDirectory(),
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
