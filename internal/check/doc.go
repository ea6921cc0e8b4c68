// Package check implements the check command family: audit, format, lint,
// typos and all.
//
// Every check shells out to an external tool. Format and lint run once per
// selected workspace member; audit and typos run once for the whole workspace.
package check
