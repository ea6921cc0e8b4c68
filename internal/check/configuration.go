package check

import (
	"strings"

	"github.com/temirov/xtask/internal/workspace"
)

const defaultTyposVersionConstant = "1.23.2"

// CommandConfiguration captures configuration values for the check command.
type CommandConfiguration struct {
	Target        string   `mapstructure:"target"`
	Exclude       []string `mapstructure:"exclude"`
	Only          []string `mapstructure:"only"`
	AssumeYes     bool     `mapstructure:"assume_yes"`
	TyposVersion  string   `mapstructure:"typos_version"`
	LockedInstall bool     `mapstructure:"locked_install"`
}

// DefaultCommandConfiguration provides baseline configuration values for the check command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Target:        string(workspace.DefaultTarget),
		Exclude:       nil,
		Only:          nil,
		AssumeYes:     false,
		TyposVersion:  defaultTyposVersionConstant,
		LockedInstall: false,
	}
}

// Sanitize trims values and restores defaults for blank entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Target = strings.TrimSpace(configuration.Target)
	if len(sanitized.Target) == 0 {
		sanitized.Target = string(workspace.DefaultTarget)
	}
	sanitized.TyposVersion = strings.TrimSpace(configuration.TyposVersion)
	if len(sanitized.TyposVersion) == 0 {
		sanitized.TyposVersion = defaultTyposVersionConstant
	}
	sanitized.Exclude = workspace.NewMemberFilter(configuration.Exclude, nil).Excluded
	sanitized.Only = workspace.NewMemberFilter(nil, configuration.Only).Only
	return sanitized
}
