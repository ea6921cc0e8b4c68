package execshell_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/xtask/internal/execshell"
)

const testShellCommandNameConstant = execshell.CommandName("sh")

func TestOSCommandRunnerStreamsAndCapturesOutput(testInstance *testing.T) {
	standardOutput := &bytes.Buffer{}
	standardError := &bytes.Buffer{}
	runner := execshell.NewStreamingOSCommandRunner(standardOutput, standardError)

	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: testShellCommandNameConstant,
		Details: execshell.CommandDetails{
			Arguments:            []string{"-c", "echo \"$XTASK_TEST_VALUE\"; echo problem 1>&2"},
			EnvironmentVariables: map[string]string{"XTASK_TEST_VALUE": "streamed"},
		},
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 0, result.ExitCode)
	require.Equal(testInstance, "streamed\n", result.StandardOutput)
	require.Equal(testInstance, "problem\n", result.StandardError)
	require.Equal(testInstance, "streamed\n", standardOutput.String())
	require.Equal(testInstance, "problem\n", standardError.String())
}

func TestOSCommandRunnerReportsExitCode(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name:    testShellCommandNameConstant,
		Details: execshell.CommandDetails{Arguments: []string{"-c", "exit 3"}, WorkingDirectory: testInstance.TempDir()},
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 3, result.ExitCode)
}

func TestOSCommandRunnerReadsStandardInput(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name:    testShellCommandNameConstant,
		Details: execshell.CommandDetails{Arguments: []string{"-c", "cat"}, StandardInput: []byte("piped")},
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, "piped", result.StandardOutput)
}

func TestOSCommandRunnerFailsForMissingExecutable(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	_, runError := runner.Run(context.Background(), execshell.ShellCommand{Name: execshell.CommandName("xtask-missing-executable")})
	require.Error(testInstance, runError)
}

func TestOSCommandRunnerHonorsCancellation(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()

	executionContext, cancel := context.WithCancel(context.Background())
	cancel()

	_, runError := runner.Run(executionContext, execshell.ShellCommand{
		Name:    testShellCommandNameConstant,
		Details: execshell.CommandDetails{Arguments: []string{"-c", "sleep 5"}},
	})
	require.Error(testInstance, runError)
}
