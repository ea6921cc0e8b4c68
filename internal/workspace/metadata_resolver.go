package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/temirov/xtask/internal/execshell"
)

const (
	metadataSubcommandConstant         = "metadata"
	metadataNoDependenciesFlagConstant = "--no-deps"
	metadataFormatVersionFlagConstant  = "--format-version"
	metadataFormatVersionConstant      = "1"
	metadataManifestPathFlagConstant   = "--manifest-path"
	metadataExecutorMissingMessage     = "metadata resolver requires a cargo executor"
	metadataCommandErrorTemplate       = "failed to read workspace metadata: %w"
	metadataDecodeErrorTemplate        = "failed to decode workspace metadata: %w"
)

// ErrCargoExecutorNotConfigured indicates that no cargo executor was supplied.
var ErrCargoExecutorNotConfigured = errors.New(metadataExecutorMissingMessage)

// CargoExecutor runs cargo subcommands.
type CargoExecutor interface {
	ExecuteCargo(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

type cargoMetadata struct {
	WorkspaceRoot string                 `json:"workspace_root"`
	Packages      []cargoMetadataPackage `json:"packages"`
}

type cargoMetadataPackage struct {
	Name         string `json:"name"`
	ManifestPath string `json:"manifest_path"`
}

// MetadataResolver discovers members from `cargo metadata`.
type MetadataResolver struct {
	executor          CargoExecutor
	manifestPath      string
	examplesDirectory string
}

// NewMetadataResolver constructs a MetadataResolver. An empty manifestPath lets cargo locate the workspace.
func NewMetadataResolver(executor CargoExecutor, manifestPath string, examplesDirectory string) (*MetadataResolver, error) {
	if executor == nil {
		return nil, ErrCargoExecutorNotConfigured
	}
	return &MetadataResolver{executor: executor, manifestPath: manifestPath, examplesDirectory: examplesDirectory}, nil
}

// ResolveMembers returns members of the requested kind.
func (resolver *MetadataResolver) ResolveMembers(executionContext context.Context, kind MemberKind) ([]Member, error) {
	arguments := []string{metadataSubcommandConstant, metadataNoDependenciesFlagConstant, metadataFormatVersionFlagConstant, metadataFormatVersionConstant}
	if len(resolver.manifestPath) > 0 {
		arguments = append(arguments, metadataManifestPathFlagConstant, resolver.manifestPath)
	}

	executionResult, executionError := resolver.executor.ExecuteCargo(executionContext, execshell.CommandDetails{Arguments: arguments})
	if executionError != nil {
		return nil, fmt.Errorf(metadataCommandErrorTemplate, executionError)
	}

	metadata := cargoMetadata{}
	if decodeError := json.Unmarshal([]byte(executionResult.StandardOutput), &metadata); decodeError != nil {
		return nil, fmt.Errorf(metadataDecodeErrorTemplate, decodeError)
	}

	members := make([]Member, 0, len(metadata.Packages))
	for _, metadataPackage := range metadata.Packages {
		workspaceRoot := metadata.WorkspaceRoot
		if len(workspaceRoot) == 0 {
			workspaceRoot = filepath.Dir(metadataPackage.ManifestPath)
		}
		members = append(members, Member{
			Name:         metadataPackage.Name,
			Kind:         classifyMember(workspaceRoot, metadataPackage.ManifestPath, resolver.examplesDirectory),
			ManifestPath: metadataPackage.ManifestPath,
		})
	}

	return selectMembers(members, kind), nil
}
