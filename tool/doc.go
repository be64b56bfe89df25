// Package tool implements the MCP tool subsystem: a capability interface for
// named, schema-described units of external functionality and a Registry that
// binds, validates, executes and audits them.
//
// Execution goes through Registry.Execute, which enforces the tool's declared
// timeout by racing the call against a context deadline. Cancellation is best
// effort: the context passed to Execute is cancelled on timeout but a tool
// that ignores it may keep running in the background; its result is discarded.
// All failure modes (unknown tool, invalid parameters, timeout, execution
// error, panic) surface uniformly as ExecutionResult values with Success=false.
package tool
