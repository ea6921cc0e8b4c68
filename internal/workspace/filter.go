package workspace

import "strings"

// MemberFilter narrows a member list by explicit exclusions or an exclusive selection.
type MemberFilter struct {
	Excluded []string
	Only     []string
}

// NewMemberFilter constructs a filter, dropping blank names.
func NewMemberFilter(excluded []string, only []string) MemberFilter {
	return MemberFilter{Excluded: normalizeNames(excluded), Only: normalizeNames(only)}
}

// Allows reports whether the member named name should be processed.
func (filter MemberFilter) Allows(name string) bool {
	trimmedName := strings.TrimSpace(name)
	if containsName(filter.Excluded, trimmedName) {
		return false
	}
	if len(normalizeNames(filter.Only)) > 0 && !containsName(filter.Only, trimmedName) {
		return false
	}
	return true
}

func containsName(names []string, name string) bool {
	for _, candidate := range names {
		trimmedCandidate := strings.TrimSpace(candidate)
		if len(trimmedCandidate) > 0 && trimmedCandidate == name {
			return true
		}
	}
	return false
}

func normalizeNames(names []string) []string {
	normalized := make([]string, 0, len(names))
	for _, name := range names {
		trimmedName := strings.TrimSpace(name)
		if len(trimmedName) > 0 {
			normalized = append(normalized, trimmedName)
		}
	}
	return normalized
}
