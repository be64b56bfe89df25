// Package store defines the persistence collaborator for tool metadata and
// execution audit records.
//
// The tool registry treats the store as best effort: persistence failures are
// logged and swallowed by the caller, never blocking or rolling back a tool
// execution. InMemoryStore is a volatile implementation suited for tests and
// demo servers; store/postgres provides a database-backed one.
package store
