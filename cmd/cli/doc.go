// Package cli constructs the xtask command-line interface. It wires the Cobra
// command hierarchy to the layered configuration loader and the zap logger,
// and registers the check and dependencies command families.
package cli
