package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	manifestFileNameConstant             = "Cargo.toml"
	manifestDecodeErrorTemplate          = "failed to parse manifest %s: %w"
	manifestGlobErrorTemplate            = "invalid workspace member pattern %q: %w"
	manifestMissingMemberErrorTemplate   = "workspace member %s has no %s"
	manifestMissingPackageErrorTemplate  = "manifest %s does not declare a package name"
	manifestMissingWorkspaceErrorMessage = "manifest does not declare a workspace"
)

// ErrNotWorkspaceManifest indicates that the root manifest has neither a workspace nor a package section.
var ErrNotWorkspaceManifest = errors.New(manifestMissingWorkspaceErrorMessage)

type cargoManifest struct {
	Workspace *cargoManifestWorkspace `toml:"workspace"`
	Package   *cargoManifestPackage   `toml:"package"`
}

type cargoManifestWorkspace struct {
	Members []string `toml:"members"`
	Exclude []string `toml:"exclude"`
}

type cargoManifestPackage struct {
	Name string `toml:"name"`
}

// ManifestResolver discovers members by reading Cargo.toml files directly, without invoking cargo.
type ManifestResolver struct {
	manifestPath      string
	examplesDirectory string
}

// NewManifestResolver constructs a ManifestResolver for the workspace manifest at manifestPath.
func NewManifestResolver(manifestPath string, examplesDirectory string) *ManifestResolver {
	if len(strings.TrimSpace(manifestPath)) == 0 {
		manifestPath = manifestFileNameConstant
	}
	return &ManifestResolver{manifestPath: manifestPath, examplesDirectory: examplesDirectory}
}

// ResolveMembers returns members of the requested kind.
func (resolver *ManifestResolver) ResolveMembers(executionContext context.Context, kind MemberKind) ([]Member, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}

	rootManifest, decodeError := decodeManifest(resolver.manifestPath)
	if decodeError != nil {
		return nil, decodeError
	}
	if rootManifest.Workspace == nil && rootManifest.Package == nil {
		return nil, ErrNotWorkspaceManifest
	}

	workspaceRoot := filepath.Dir(resolver.manifestPath)
	members := make([]Member, 0)
	if rootManifest.Package != nil && len(rootManifest.Package.Name) > 0 {
		members = append(members, Member{Name: rootManifest.Package.Name, Kind: MemberKindCrate, ManifestPath: resolver.manifestPath})
	}
	if rootManifest.Workspace == nil {
		return selectMembers(members, kind), nil
	}

	memberDirectories, expandError := expandMemberDirectories(workspaceRoot, rootManifest.Workspace)
	if expandError != nil {
		return nil, expandError
	}

	for _, memberDirectory := range memberDirectories {
		memberManifestPath := filepath.Join(memberDirectory, manifestFileNameConstant)
		memberManifest, memberDecodeError := decodeManifest(memberManifestPath)
		if memberDecodeError != nil {
			return nil, memberDecodeError
		}
		if memberManifest.Package == nil || len(memberManifest.Package.Name) == 0 {
			return nil, fmt.Errorf(manifestMissingPackageErrorTemplate, memberManifestPath)
		}
		members = append(members, Member{
			Name:         memberManifest.Package.Name,
			Kind:         classifyMember(workspaceRoot, memberManifestPath, resolver.examplesDirectory),
			ManifestPath: memberManifestPath,
		})
	}

	return selectMembers(members, kind), nil
}

func decodeManifest(manifestPath string) (cargoManifest, error) {
	manifest := cargoManifest{}
	if _, decodeError := toml.DecodeFile(manifestPath, &manifest); decodeError != nil {
		return cargoManifest{}, fmt.Errorf(manifestDecodeErrorTemplate, manifestPath, decodeError)
	}
	return manifest, nil
}

// expandMemberDirectories resolves member patterns relative to the workspace root. Glob patterns
// silently skip directories without a manifest; literal members must have one. Excluded paths and
// everything below them are dropped.
func expandMemberDirectories(workspaceRoot string, workspaceSection *cargoManifestWorkspace) ([]string, error) {
	excludedPaths := make([]string, 0, len(workspaceSection.Exclude))
	for _, excludedPath := range workspaceSection.Exclude {
		excludedPaths = append(excludedPaths, filepath.Clean(filepath.Join(workspaceRoot, excludedPath)))
	}

	seenDirectories := map[string]struct{}{}
	memberDirectories := make([]string, 0, len(workspaceSection.Members))
	for _, memberPattern := range workspaceSection.Members {
		isPattern := strings.ContainsAny(memberPattern, "*?[")
		candidateDirectories := []string{filepath.Join(workspaceRoot, memberPattern)}
		if isPattern {
			matches, globError := filepath.Glob(filepath.Join(workspaceRoot, memberPattern))
			if globError != nil {
				return nil, fmt.Errorf(manifestGlobErrorTemplate, memberPattern, globError)
			}
			candidateDirectories = matches
		}

		for _, candidateDirectory := range candidateDirectories {
			cleanedDirectory := filepath.Clean(candidateDirectory)
			if isExcludedPath(cleanedDirectory, excludedPaths) {
				continue
			}
			if _, seen := seenDirectories[cleanedDirectory]; seen {
				continue
			}
			if !hasManifest(cleanedDirectory) {
				if isPattern {
					continue
				}
				return nil, fmt.Errorf(manifestMissingMemberErrorTemplate, cleanedDirectory, manifestFileNameConstant)
			}
			seenDirectories[cleanedDirectory] = struct{}{}
			memberDirectories = append(memberDirectories, cleanedDirectory)
		}
	}

	return memberDirectories, nil
}

func isExcludedPath(directory string, excludedPaths []string) bool {
	for _, excludedPath := range excludedPaths {
		if directory == excludedPath || strings.HasPrefix(directory, excludedPath+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func hasManifest(directory string) bool {
	manifestInfo, statError := os.Stat(filepath.Join(directory, manifestFileNameConstant))
	return statError == nil && !manifestInfo.IsDir()
}
