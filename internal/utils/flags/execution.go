// Package flags provides helpers for binding standardized execution flags to Cobra commands.
package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	// AssumeYesFlagName exposes the shared assume-yes flag name.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand provides the shorthand for the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes the shared assume-yes flag purpose.
	AssumeYesFlagUsage = "Answer every confirmation prompt affirmatively"
	// ExcludeFlagName exposes the member exclusion flag name.
	ExcludeFlagName = "exclude"
	// ExcludeFlagShorthand provides the shorthand for the member exclusion flag.
	ExcludeFlagShorthand = "x"
	// ExcludeFlagUsage describes the member exclusion flag purpose.
	ExcludeFlagUsage = "Comma-separated list of crates to exclude"
	// OnlyFlagName exposes the member restriction flag name.
	OnlyFlagName = "only"
	// OnlyFlagShorthand provides the shorthand for the member restriction flag.
	OnlyFlagShorthand = "n"
	// OnlyFlagUsage describes the member restriction flag purpose.
	OnlyFlagUsage = "Comma-separated list of crates to include exclusively"
)

// ExecutionDefaults describes default flag values shared across commands.
type ExecutionDefaults struct {
	AssumeYes bool
	Excluded  []string
	Only      []string
}

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	AssumeYes ExecutionFlagDefinition
	Excluded  ExecutionFlagDefinition
	Only      ExecutionFlagDefinition
}

// DefaultExecutionFlagDefinitions enables the assume-yes, exclude and only flags with their standard names.
func DefaultExecutionFlagDefinitions() ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		AssumeYes: ExecutionFlagDefinition{Name: AssumeYesFlagName, Shorthand: AssumeYesFlagShorthand, Usage: AssumeYesFlagUsage, Enabled: true},
		Excluded:  ExecutionFlagDefinition{Name: ExcludeFlagName, Shorthand: ExcludeFlagShorthand, Usage: ExcludeFlagUsage, Enabled: true},
		Only:      ExecutionFlagDefinition{Name: OnlyFlagName, Shorthand: OnlyFlagShorthand, Usage: OnlyFlagUsage, Enabled: true},
	}
}

// BindExecutionFlags attaches standardized execution flags to the provided command using persistent scope.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}

	persistentFlagSet := command.PersistentFlags()

	bindBoolFlag(persistentFlagSet, definitions.AssumeYes, defaults.AssumeYes)
	bindStringSliceFlag(persistentFlagSet, definitions.Excluded, defaults.Excluded)
	bindStringSliceFlag(persistentFlagSet, definitions.Only, defaults.Only)
}

func bindBoolFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition, defaultValue bool) {
	if !isBindable(flagSet, definition) {
		return
	}

	if len(definition.Shorthand) > 0 {
		flagSet.BoolP(definition.Name, definition.Shorthand, defaultValue, definition.Usage)
		return
	}

	flagSet.Bool(definition.Name, defaultValue, definition.Usage)
}

func bindStringSliceFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition, defaultValue []string) {
	if !isBindable(flagSet, definition) {
		return
	}

	duplicatedDefault := append([]string{}, defaultValue...)
	if len(definition.Shorthand) > 0 {
		flagSet.StringSliceP(definition.Name, definition.Shorthand, duplicatedDefault, definition.Usage)
		return
	}

	flagSet.StringSlice(definition.Name, duplicatedDefault, definition.Usage)
}

func isBindable(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition) bool {
	return flagSet != nil && definition.Enabled && len(definition.Name) > 0
}
