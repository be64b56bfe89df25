// Package evolution provides the capability analysis and evolution engine
// collaborators used by the evolution agent. The shipped implementations
// (StaticAnalyzer, SimulatedEngine) return deterministic data so the hub and
// agent logic can be exercised without real self-modification; both are
// interfaces so deployments can substitute real strategies.
package evolution
