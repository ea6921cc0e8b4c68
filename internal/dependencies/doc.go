// Package dependencies implements the dependencies command family, which runs
// cargo-deny and cargo-udeps over the workspace.
package dependencies
