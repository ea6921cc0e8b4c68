package workspace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/xtask/internal/workspace"
)

func TestMemberFilterAllows(testInstance *testing.T) {
	testCases := []struct {
		name     string
		filter   workspace.MemberFilter
		member   string
		expected bool
	}{
		{name: "empty_filter_allows_everything", filter: workspace.NewMemberFilter(nil, nil), member: "burn-core", expected: true},
		{name: "excluded_member_rejected", filter: workspace.NewMemberFilter([]string{"burn-core"}, nil), member: "burn-core", expected: false},
		{name: "only_rejects_other_members", filter: workspace.NewMemberFilter(nil, []string{"burn-tensor"}), member: "burn-core", expected: false},
		{name: "only_allows_listed_member", filter: workspace.NewMemberFilter(nil, []string{" burn-core "}), member: "burn-core", expected: true},
		{name: "exclusion_wins_over_only", filter: workspace.NewMemberFilter([]string{"burn-core"}, []string{"burn-core"}), member: "burn-core", expected: false},
		{name: "blank_only_entries_ignored", filter: workspace.MemberFilter{Only: []string{"", "  "}}, member: "burn-core", expected: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, testCase.filter.Allows(testCase.member))
		})
	}
}
