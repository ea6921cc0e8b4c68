package workspace

import (
	"cmp"
	"context"
	"path/filepath"
	"slices"
	"strings"
)

// MemberKind classifies workspace members.
type MemberKind string

// Supported member kinds.
const (
	MemberKindCrate   MemberKind = "crate"
	MemberKindExample MemberKind = "example"
)

// Member describes a single package of the workspace.
type Member struct {
	Name         string
	Kind         MemberKind
	ManifestPath string
}

// MemberResolver lists workspace members of a kind, sorted by name.
type MemberResolver interface {
	ResolveMembers(executionContext context.Context, kind MemberKind) ([]Member, error)
}

// classifyMember reports an example when the manifest lives under the examples directory
// of the workspace rooted at workspaceRoot.
func classifyMember(workspaceRoot string, manifestPath string, examplesDirectory string) MemberKind {
	trimmedExamplesDirectory := filepath.Clean(strings.TrimSpace(examplesDirectory))
	if len(strings.TrimSpace(examplesDirectory)) == 0 || trimmedExamplesDirectory == "." {
		return MemberKindCrate
	}

	relativeManifestDirectory, relativeError := filepath.Rel(workspaceRoot, filepath.Dir(manifestPath))
	if relativeError != nil {
		return MemberKindCrate
	}

	relativeManifestDirectory = filepath.Clean(relativeManifestDirectory)
	if relativeManifestDirectory == trimmedExamplesDirectory || strings.HasPrefix(relativeManifestDirectory, trimmedExamplesDirectory+string(filepath.Separator)) {
		return MemberKindExample
	}
	return MemberKindCrate
}

func selectMembers(members []Member, kind MemberKind) []Member {
	selected := make([]Member, 0, len(members))
	for _, member := range members {
		if member.Kind == kind {
			selected = append(selected, member)
		}
	}
	slices.SortStableFunc(selected, func(left Member, right Member) int {
		return cmp.Compare(left.Name, right.Name)
	})
	return selected
}
