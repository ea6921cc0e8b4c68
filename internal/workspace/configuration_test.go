package workspace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/xtask/internal/workspace"
)

func TestConfigurationSanitize(testInstance *testing.T) {
	sanitized := workspace.Configuration{MemberSource: " Manifest "}.Sanitize()
	require.Equal(testInstance, workspace.Configuration{MemberSource: "manifest", ManifestPath: "Cargo.toml", ExamplesDirectory: "examples"}, sanitized)
	require.Equal(testInstance, workspace.DefaultConfiguration(), workspace.Configuration{}.Sanitize())
}

func TestNewMemberResolver(testInstance *testing.T) {
	metadataResolver, resolverError := workspace.NewMemberResolver(workspace.DefaultConfiguration(), &recordingCargoExecutor{})
	require.NoError(testInstance, resolverError)
	require.IsType(testInstance, &workspace.MetadataResolver{}, metadataResolver)

	manifestResolver, resolverError := workspace.NewMemberResolver(workspace.Configuration{MemberSource: workspace.MemberSourceManifest}, nil)
	require.NoError(testInstance, resolverError)
	require.IsType(testInstance, &workspace.ManifestResolver{}, manifestResolver)

	_, resolverError = workspace.NewMemberResolver(workspace.Configuration{MemberSource: "registry"}, nil)
	require.EqualError(testInstance, resolverError, `unsupported workspace member source "registry" (expected one of metadata, manifest)`)

	_, resolverError = workspace.NewMemberResolver(workspace.DefaultConfiguration(), nil)
	require.ErrorIs(testInstance, resolverError, workspace.ErrCargoExecutorNotConfigured)
}

func TestConfigurationWorkingDirectory(testInstance *testing.T) {
	testCases := []struct {
		name              string
		manifestPath      string
		expectedDirectory string
	}{
		{name: "default manifest", manifestPath: "", expectedDirectory: ""},
		{name: "manifest in current directory", manifestPath: "./Cargo.toml", expectedDirectory: ""},
		{name: "nested manifest", manifestPath: "rust/Cargo.toml", expectedDirectory: "rust"},
		{name: "absolute manifest", manifestPath: "/srv/burn/Cargo.toml", expectedDirectory: "/srv/burn"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			configuration := workspace.Configuration{ManifestPath: testCase.manifestPath}
			require.Equal(subtest, testCase.expectedDirectory, configuration.WorkingDirectory())
		})
	}
}
