package workspace

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// MemberSourceMetadata discovers members through `cargo metadata`.
	MemberSourceMetadata = "metadata"
	// MemberSourceManifest discovers members by parsing Cargo.toml files.
	MemberSourceManifest = "manifest"

	defaultManifestPathConstant      = "Cargo.toml"
	defaultExamplesDirectoryConstant = "examples"
	unsupportedMemberSourceTemplate  = "unsupported workspace member source %q (expected one of %s)"
	currentDirectoryConstant         = "."
)

// Configuration describes how workspace members are discovered.
type Configuration struct {
	MemberSource      string `mapstructure:"member_source"`
	ManifestPath      string `mapstructure:"manifest_path"`
	ExamplesDirectory string `mapstructure:"examples_directory"`
}

// DefaultConfiguration returns the workspace discovery defaults.
func DefaultConfiguration() Configuration {
	return Configuration{
		MemberSource:      MemberSourceMetadata,
		ManifestPath:      defaultManifestPathConstant,
		ExamplesDirectory: defaultExamplesDirectoryConstant,
	}
}

// MemberSourceChoices lists the accepted member sources.
func MemberSourceChoices() []string {
	return []string{MemberSourceMetadata, MemberSourceManifest}
}

// Sanitize fills blank values with defaults.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := Configuration{
		MemberSource:      strings.ToLower(strings.TrimSpace(configuration.MemberSource)),
		ManifestPath:      strings.TrimSpace(configuration.ManifestPath),
		ExamplesDirectory: strings.TrimSpace(configuration.ExamplesDirectory),
	}
	if len(sanitized.MemberSource) == 0 {
		sanitized.MemberSource = defaults.MemberSource
	}
	if len(sanitized.ManifestPath) == 0 {
		sanitized.ManifestPath = defaults.ManifestPath
	}
	if len(sanitized.ExamplesDirectory) == 0 {
		sanitized.ExamplesDirectory = defaults.ExamplesDirectory
	}
	return sanitized
}

// WorkingDirectory returns the directory holding the workspace manifest, where cargo and typos run.
// It is empty when the manifest lives in the current directory.
func (configuration Configuration) WorkingDirectory() string {
	directory := filepath.Dir(configuration.Sanitize().ManifestPath)
	if directory == currentDirectoryConstant {
		return ""
	}
	return directory
}

// NewMemberResolver builds the resolver selected by the configuration.
func NewMemberResolver(configuration Configuration, executor CargoExecutor) (MemberResolver, error) {
	sanitized := configuration.Sanitize()
	switch sanitized.MemberSource {
	case MemberSourceMetadata:
		manifestPath := sanitized.ManifestPath
		if manifestPath == defaultManifestPathConstant {
			manifestPath = ""
		}
		metadataResolver, resolverError := NewMetadataResolver(executor, manifestPath, sanitized.ExamplesDirectory)
		if resolverError != nil {
			return nil, resolverError
		}
		return metadataResolver, nil
	case MemberSourceManifest:
		return NewManifestResolver(sanitized.ManifestPath, sanitized.ExamplesDirectory), nil
	default:
		return nil, fmt.Errorf(unsupportedMemberSourceTemplate, configuration.MemberSource, strings.Join(MemberSourceChoices(), ", "))
	}
}
