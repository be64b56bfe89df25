// Package builtin contains the five core tools registered at startup: file
// operations, code generation, codebase analysis, database access and web
// search. Each tool implements the tool.Tool interface and is registered
// with the registry by the orchestration service.
package builtin
