package workspace_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/temirov/xtask/internal/workspace"
)

func TestParseTarget(testInstance *testing.T) {
	testCases := []struct {
		name           string
		value          string
		expectedTarget workspace.Target
		expectError    bool
	}{
		{name: "crates", value: "crates", expectedTarget: workspace.TargetCrates},
		{name: "examples_mixed_case", value: "Examples", expectedTarget: workspace.TargetExamples},
		{name: "workspace_uppercase", value: "WORKSPACE", expectedTarget: workspace.TargetWorkspace},
		{name: "unknown", value: "all", expectError: true},
		{name: "empty", value: " ", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			target, parseError := workspace.ParseTarget(testCase.value)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedTarget, target)
		})
	}
}

func TestTargetExpandAndLabel(testInstance *testing.T) {
	require.Equal(testInstance, []workspace.Target{workspace.TargetCrates, workspace.TargetExamples}, workspace.TargetWorkspace.Expand())
	require.Equal(testInstance, []workspace.Target{workspace.TargetExamples}, workspace.TargetExamples.Expand())
	require.Equal(testInstance, "crates", workspace.TargetCrates.Label())
	require.Equal(testInstance, "examples", workspace.TargetExamples.Label())
	require.Equal(testInstance, "members", workspace.TargetWorkspace.Label())

	kind, concrete := workspace.TargetExamples.MemberKind()
	require.True(testInstance, concrete)
	require.Equal(testInstance, workspace.MemberKindExample, kind)

	_, concrete = workspace.TargetWorkspace.MemberKind()
	require.False(testInstance, concrete)
}

func TestTargetIsFlagValue(testInstance *testing.T) {
	target := workspace.DefaultTarget
	flagSet := pflag.NewFlagSet("check", pflag.ContinueOnError)
	flagSet.VarP(&target, "target", "t", "members to operate on")

	require.NoError(testInstance, flagSet.Parse([]string{"-t", "Crates"}))
	require.Equal(testInstance, workspace.TargetCrates, target)
	require.Equal(testInstance, "target", flagSet.Lookup("target").Value.Type())

	require.Error(testInstance, flagSet.Parse([]string{"--target", "everything"}))
}
