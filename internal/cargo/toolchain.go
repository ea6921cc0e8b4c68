package cargo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/xtask/internal/execshell"
)

const (
	rustcVersionFlagConstant        = "--version"
	nightlyChannelMarkerConstant    = "nightly"
	toolchainInspectionTemplate     = "failed to inspect active toolchain: %w"
	toolchainExecutorMissingMessage = "toolchain inspector requires a rustc executor"

	// NightlyRequiredMessage explains how to run checks that need a nightly toolchain.
	NightlyRequiredMessage = "You must use 'cargo +nightly' to run nightly checks.\nInstall a nightly toolchain with 'rustup toolchain install nightly'."
)

// ErrRustcExecutorNotConfigured indicates that a rustc executor was not supplied.
var ErrRustcExecutorNotConfigured = errors.New(toolchainExecutorMissingMessage)

// RustcExecutor runs rustc.
type RustcExecutor interface {
	ExecuteRustc(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ToolchainInspector reports properties of the active Rust toolchain.
type ToolchainInspector struct {
	executor RustcExecutor
}

// NewToolchainInspector constructs a ToolchainInspector.
func NewToolchainInspector(executor RustcExecutor) (*ToolchainInspector, error) {
	if executor == nil {
		return nil, ErrRustcExecutorNotConfigured
	}
	return &ToolchainInspector{executor: executor}, nil
}

// IsNightly reports whether `rustc --version` identifies a nightly toolchain.
func (inspector *ToolchainInspector) IsNightly(executionContext context.Context) (bool, error) {
	versionResult, versionError := inspector.executor.ExecuteRustc(executionContext, execshell.CommandDetails{
		Arguments: []string{rustcVersionFlagConstant},
	})
	if versionError != nil {
		return false, fmt.Errorf(toolchainInspectionTemplate, versionError)
	}
	return strings.Contains(versionResult.StandardOutput, nightlyChannelMarkerConstant), nil
}
