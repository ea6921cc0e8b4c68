package dependencies

// CommandConfiguration captures configuration values for the dependencies command.
type CommandConfiguration struct {
	LockedInstall bool `mapstructure:"locked_install"`
}

// DefaultCommandConfiguration provides baseline configuration values for the dependencies command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{LockedInstall: false}
}
