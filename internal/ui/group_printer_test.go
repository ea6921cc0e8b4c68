package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/xtask/internal/ui"
)

func TestDetectGroupStyle(testInstance *testing.T) {
	testCases := []struct {
		name          string
		environment   map[string]string
		expectedStyle ui.GroupStyle
	}{
		{
			name:          "github_actions",
			environment:   map[string]string{"GITHUB_ACTIONS": "true"},
			expectedStyle: ui.GroupStyleGitHubActions,
		},
		{
			name:          "github_actions_disabled",
			environment:   map[string]string{"GITHUB_ACTIONS": "false"},
			expectedStyle: ui.GroupStylePlain,
		},
		{
			name:          "buffer_without_ci",
			environment:   map[string]string{},
			expectedStyle: ui.GroupStylePlain,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			lookup := func(key string) (string, bool) {
				value, present := testCase.environment[key]
				return value, present
			}
			require.Equal(testInstance, testCase.expectedStyle, ui.DetectGroupStyle(&bytes.Buffer{}, lookup))
		})
	}
}

func TestGroupPrinterRendersGroups(testInstance *testing.T) {
	testCases := []struct {
		name           string
		style          ui.GroupStyle
		expectedOutput string
	}{
		{
			name:           "github_actions",
			style:          ui.GroupStyleGitHubActions,
			expectedOutput: "::group::Format: burn-core\n::endgroup::\n::group::Lint: burn-core\n::endgroup::\n",
		},
		{
			name:           "plain",
			style:          ui.GroupStylePlain,
			expectedOutput: "==> Format: burn-core\n\n==> Lint: burn-core\n\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			printer := ui.NewGroupPrinterWithStyle(outputBuffer, testCase.style)

			printer.Begin("Format: burn-core")
			printer.Begin("Lint: burn-core")
			printer.End()
			printer.End()

			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
		})
	}
}

func TestGroupPrinterTerminalHeaderContainsTitle(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	printer := ui.NewGroupPrinterWithStyle(outputBuffer, ui.GroupStyleTerminal)

	printer.Begin("Typos: Crates and Examples")
	printer.End()

	require.Contains(testInstance, outputBuffer.String(), "Typos: Crates and Examples")
}
