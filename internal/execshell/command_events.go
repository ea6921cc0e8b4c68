package execshell

// CommandEventObserver follows each cargo, typos or rustc invocation through the ShellExecutor.
// The console logger turns these events into progress lines such as "Reading workspace metadata" or "Looking for typos".
type CommandEventObserver interface {
	// CommandStarted fires before the tool process is launched.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once the tool exited, whatever its exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the tool could not be launched at all, such as a missing cargo binary.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// silentCommandEventObserver is used when no console progress is wanted, as with JSON logging.
type silentCommandEventObserver struct{}

func (silentCommandEventObserver) CommandStarted(ShellCommand) {}

func (silentCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (silentCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
