// Package core provides the foundational domain types and interfaces used by
// the agent hub. It defines the core abstractions for:
//
//   - Agents (independently addressable message handlers with status + capabilities)
//   - AgentMessage / AgentResponse (the immutable units of inter-agent communication)
//   - Payloads (tagged message content decoded once at the hub boundary)
//   - Typed failure kinds (routing, timeout)
//
// The package intentionally keeps implementation concerns (hub transport,
// concrete agents, tool execution) out of scope, exposing small interfaces to
// enable custom implementations and deterministic test doubles.
package core
