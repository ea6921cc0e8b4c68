// Package utils exposes reusable helpers consumed by multiple commands.
//
// ConfigurationLoader layers embedded defaults, configuration files and XTASK_
// environment overrides through Viper. LoggerFactory builds the zap logger, and
// SynchronizedWriter lets concurrently drained tool output share a terminal.
package utils
