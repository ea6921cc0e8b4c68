// Package ui provides helpers for formatting human-readable console output.
//
// GroupPrinter brackets each tool invocation with a titled group, using
// GitHub Actions workflow commands in CI and a styled header on terminals.
// ConsoleCommandEventLogger translates command lifecycle events into concise
// messages while detailed telemetry continues to flow through structured
// loggers.
package ui
