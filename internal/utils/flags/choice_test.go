package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultLastChoice",
			defaultChoice:  "workspace",
			choices:        []string{"crates", "examples", "workspace"},
			description:    "Members to operate on.",
			expectedOutput: "`<crates|examples|WORKSPACE>` Members to operate on.",
		},
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "info",
			choices:        []string{"info", "debug"},
			description:    "Logging level.",
			expectedOutput: "`<INFO|debug>` Logging level.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "console",
			choices:        []string{"structured", "console"},
			description:    "",
			expectedOutput: "`<structured|CONSOLE>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "crates",
			choices:        []string{"crates", "Crates", "examples", "examples"},
			description:    "Select between options.",
			expectedOutput: "`<CRATES|examples>` Select between options.",
		},
		{
			name:           "WhitespaceTrimmed",
			defaultChoice:  "metadata",
			choices:        []string{" metadata ", " manifest "},
			description:    "Member source.",
			expectedOutput: "`<METADATA|manifest>` Member source.",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(t, testCase.expectedOutput, actual)
		})
	}
}

func TestMatchChoice(t *testing.T) {
	choices := []string{"crates", "examples", "workspace"}

	matched, matchError := MatchChoice(" Examples ", choices)
	require.NoError(t, matchError)
	require.Equal(t, "examples", matched)

	_, matchError = MatchChoice("all", choices)
	require.EqualError(t, matchError, `unsupported value "all" (expected one of crates, examples, workspace)`)

	_, matchError = MatchChoice("", choices)
	require.Error(t, matchError)
}
