package workspace

import (
	"github.com/temirov/xtask/internal/utils/flags"
)

const (
	targetTypeNameConstant       = "target"
	cratesLabelConstant          = "crates"
	examplesLabelConstant        = "examples"
	workspaceLabelConstant       = "members"
	targetCratesValueConstant    = "crates"
	targetExamplesValueConstant  = "examples"
	targetWorkspaceValueConstant = "workspace"
)

// Target selects which workspace members a command operates on.
type Target string

// Supported targets.
const (
	TargetCrates    Target = Target(targetCratesValueConstant)
	TargetExamples  Target = Target(targetExamplesValueConstant)
	TargetWorkspace Target = Target(targetWorkspaceValueConstant)
)

// DefaultTarget is used when no target is configured.
const DefaultTarget = TargetWorkspace

// TargetChoices lists accepted target values in display order.
func TargetChoices() []string {
	return []string{targetCratesValueConstant, targetExamplesValueConstant, targetWorkspaceValueConstant}
}

// ParseTarget converts a case-insensitive value into a Target.
func ParseTarget(value string) (Target, error) {
	matchedChoice, matchError := flags.MatchChoice(value, TargetChoices())
	if matchError != nil {
		return "", matchError
	}
	return Target(matchedChoice), nil
}

// String returns the canonical target value.
func (target Target) String() string {
	return string(target)
}

// Set parses value into the target, allowing Target to back a pflag flag.
func (target *Target) Set(value string) error {
	parsedTarget, parseError := ParseTarget(value)
	if parseError != nil {
		return parseError
	}
	*target = parsedTarget
	return nil
}

// Type names the flag value type in usage output.
func (target *Target) Type() string {
	return targetTypeNameConstant
}

// Expand returns the concrete targets covered by the target. The workspace covers crates then examples.
func (target Target) Expand() []Target {
	if target == TargetWorkspace {
		return []Target{TargetCrates, TargetExamples}
	}
	return []Target{target}
}

// Label returns the plural noun used when describing the target to users.
func (target Target) Label() string {
	switch target {
	case TargetCrates:
		return cratesLabelConstant
	case TargetExamples:
		return examplesLabelConstant
	default:
		return workspaceLabelConstant
	}
}

// MemberKind returns the member kind selected by a concrete target.
func (target Target) MemberKind() (MemberKind, bool) {
	switch target {
	case TargetCrates:
		return MemberKindCrate, true
	case TargetExamples:
		return MemberKindExample, true
	default:
		return "", false
	}
}
