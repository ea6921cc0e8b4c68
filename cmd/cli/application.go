package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/xtask/internal/check"
	"github.com/temirov/xtask/internal/dependencies"
	"github.com/temirov/xtask/internal/execshell"
	"github.com/temirov/xtask/internal/utils"
	flagutils "github.com/temirov/xtask/internal/utils/flags"
	"github.com/temirov/xtask/internal/workspace"
)

const (
	applicationNameConstant                 = "xtask"
	applicationShortDescriptionConstant     = "Developer workflow tasks for a Cargo workspace"
	applicationLongDescriptionConstant      = "xtask runs formatting, linting, auditing, typo and dependency checks over the crates and examples of a Cargo workspace by driving cargo and installable tool crates."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML, or JSON with comments)"
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level"
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format"
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	workspaceConfigurationKeyConstant       = "workspace"
	workspaceMemberSourceConfigKeyConstant  = workspaceConfigurationKeyConstant + ".member_source"
	workspaceManifestPathConfigKeyConstant  = workspaceConfigurationKeyConstant + ".manifest_path"
	workspaceExamplesConfigKeyConstant      = workspaceConfigurationKeyConstant + ".examples_directory"
	toolsConfigurationKeyConstant           = "tools"
	checkConfigurationKeyConstant           = toolsConfigurationKeyConstant + ".check"
	checkTargetConfigKeyConstant            = checkConfigurationKeyConstant + ".target"
	checkExcludeConfigKeyConstant           = checkConfigurationKeyConstant + ".exclude"
	checkOnlyConfigKeyConstant              = checkConfigurationKeyConstant + ".only"
	checkAssumeYesConfigKeyConstant         = checkConfigurationKeyConstant + ".assume_yes"
	checkTyposVersionConfigKeyConstant      = checkConfigurationKeyConstant + ".typos_version"
	checkLockedInstallConfigKeyConstant     = checkConfigurationKeyConstant + ".locked_install"
	dependenciesConfigurationKeyConstant    = toolsConfigurationKeyConstant + ".dependencies"
	dependenciesLockedConfigKeyConstant     = dependenciesConfigurationKeyConstant + ".locked_install"
	environmentPrefixConstant               = "XTASK"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	defaultConfigurationSearchPathConstant  = "."
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	commandBuildErrorTemplateConstant       = "unable to build %s command: %w"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration `mapstructure:"common"`
	Workspace workspace.Configuration        `mapstructure:"workspace"`
	Tools     ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool family.
type ApplicationToolsConfiguration struct {
	Check        check.CommandConfiguration        `mapstructure:"check"`
	Dependencies dependencies.CommandConfiguration `mapstructure:"dependencies"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	commandExecutor       execshell.CommandExecutor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() (*Application, error) {
	return newApplication(nil)
}

func newApplication(commandExecutor execshell.CommandExecutor) (*Application, error) {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
		commandExecutor:     commandExecutor,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", flagutils.FormatChoiceUsage(string(utils.LogLevelInfo), utils.SupportedLogLevels(), logLevelFlagUsageConstant))
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flagutils.FormatChoiceUsage(string(utils.LogFormatConsole), utils.SupportedLogFormats(), logFormatFlagUsageConstant))

	checkBuilder := check.CommandBuilder{
		LoggerProvider:               application.currentLogger,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() check.CommandConfiguration {
			return application.configuration.Tools.Check
		},
		WorkspaceConfigurationProvider: func() workspace.Configuration {
			return application.configuration.Workspace
		},
		Executor: commandExecutor,
	}
	checkCommand, checkBuildError := checkBuilder.Build()
	if checkBuildError != nil {
		return nil, fmt.Errorf(commandBuildErrorTemplateConstant, "check", checkBuildError)
	}
	cobraCommand.AddCommand(checkCommand)

	dependenciesBuilder := dependencies.CommandBuilder{
		LoggerProvider:               application.currentLogger,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() dependencies.CommandConfiguration {
			return application.configuration.Tools.Dependencies
		},
		WorkspaceConfigurationProvider: func() workspace.Configuration {
			return application.configuration.Workspace
		},
		Executor: commandExecutor,
	}
	dependenciesCommand, dependenciesBuildError := dependenciesBuilder.Build()
	if dependenciesBuildError != nil {
		return nil, fmt.Errorf(commandBuildErrorTemplateConstant, "dependencies", dependenciesBuildError)
	}
	cobraCommand.AddCommand(dependenciesCommand)

	application.rootCommand = cobraCommand

	return application, nil
}

// Execute runs the command hierarchy with a context cancelled on interrupt and flushes the logger.
func (application *Application) Execute() error {
	signalContext, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	executionError := application.rootCommand.ExecuteContext(signalContext)
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	application, applicationError := NewApplication()
	if applicationError != nil {
		return applicationError
	}
	return application.Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultConfigurationValues(), &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func defaultConfigurationValues() map[string]any {
	workspaceDefaults := workspace.DefaultConfiguration()
	checkDefaults := check.DefaultCommandConfiguration()
	dependenciesDefaults := dependencies.DefaultCommandConfiguration()

	return map[string]any{
		commonLogLevelConfigKeyConstant:        string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:       string(utils.LogFormatConsole),
		workspaceMemberSourceConfigKeyConstant: workspaceDefaults.MemberSource,
		workspaceManifestPathConfigKeyConstant: workspaceDefaults.ManifestPath,
		workspaceExamplesConfigKeyConstant:     workspaceDefaults.ExamplesDirectory,
		checkTargetConfigKeyConstant:           checkDefaults.Target,
		checkExcludeConfigKeyConstant:          []string{},
		checkOnlyConfigKeyConstant:             []string{},
		checkAssumeYesConfigKeyConstant:        checkDefaults.AssumeYes,
		checkTyposVersionConfigKeyConstant:     checkDefaults.TyposVersion,
		checkLockedInstallConfigKeyConstant:    checkDefaults.LockedInstall,
		dependenciesLockedConfigKeyConstant:    dependenciesDefaults.LockedInstall,
	}
}

func (application *Application) currentLogger() *zap.Logger {
	return application.logger
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}
	if syncError := application.logger.Sync(); !utils.IsIgnorableSyncError(syncError) {
		return syncError
	}
	return nil
}

func persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}
	if command.Flags().Changed(flagName) {
		return true
	}
	rootCommand := command.Root()
	return rootCommand != nil && rootCommand.PersistentFlags().Changed(flagName)
}
