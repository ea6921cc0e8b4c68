// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution with live output streaming, and defines the
// abstractions used throughout xtask to run cargo, typos, and rustc in a
// testable manner.
package execshell
