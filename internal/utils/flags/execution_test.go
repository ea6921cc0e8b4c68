package flags_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/temirov/xtask/internal/utils/flags"
)

func TestBindExecutionFlagsRegistersPersistentFlags(testInstance *testing.T) {
	command := &cobra.Command{Use: "check"}
	flags.BindExecutionFlags(command, flags.ExecutionDefaults{Excluded: []string{"xtask"}}, flags.DefaultExecutionFlagDefinitions())

	persistentFlags := command.PersistentFlags()
	require.NoError(testInstance, persistentFlags.Parse([]string{"-y", "--only", "burn-core,burn-tensor"}))

	assumeYes, assumeYesError := persistentFlags.GetBool(flags.AssumeYesFlagName)
	require.NoError(testInstance, assumeYesError)
	require.True(testInstance, assumeYes)

	only, onlyError := persistentFlags.GetStringSlice(flags.OnlyFlagName)
	require.NoError(testInstance, onlyError)
	require.Equal(testInstance, []string{"burn-core", "burn-tensor"}, only)

	excluded, excludedError := persistentFlags.GetStringSlice(flags.ExcludeFlagName)
	require.NoError(testInstance, excludedError)
	require.Equal(testInstance, []string{"xtask"}, excluded)
	require.Equal(testInstance, "x", persistentFlags.Lookup(flags.ExcludeFlagName).Shorthand)
}

func TestBindExecutionFlagsSkipsDisabledDefinitions(testInstance *testing.T) {
	command := &cobra.Command{Use: "dependencies"}
	definitions := flags.DefaultExecutionFlagDefinitions()
	definitions.Excluded.Enabled = false
	definitions.Only.Name = ""

	flags.BindExecutionFlags(command, flags.ExecutionDefaults{}, definitions)

	require.NotNil(testInstance, command.PersistentFlags().Lookup(flags.AssumeYesFlagName))
	require.Nil(testInstance, command.PersistentFlags().Lookup(flags.ExcludeFlagName))
	require.Nil(testInstance, command.PersistentFlags().Lookup(flags.OnlyFlagName))

	flags.BindExecutionFlags(nil, flags.ExecutionDefaults{}, definitions)
}
