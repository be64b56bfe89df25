// Package orchestration wires the hub, the tool registry and the four core
// agents into a running system and exposes the external entry points: route
// a user message, execute a directed task, inspect agent health.
package orchestration
