// Package workflow sequences the steps of aggregate commands such as "check all"
// and "dependencies all", failing fast on the first step that returns an error.
package workflow
