package evolution

import "context"

// CapabilityGap describes one missing capability with its priority (higher is
// more urgent).
type CapabilityGap struct {
	Area        string `json:"area"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

// Analyzer identifies capability gaps in the running system.
type Analyzer interface {
	// AnalyzeCapabilityGaps returns the currently known gaps.
	AnalyzeCapabilityGaps(ctx context.Context) ([]CapabilityGap, error)

	// CurrentCapabilities lists what the system can already do.
	CurrentCapabilities(ctx context.Context) ([]string, error)
}

// StaticAnalyzer returns a fixed gap list, mirroring the seed analysis the
// original system shipped with.
type StaticAnalyzer struct{}

// NewStaticAnalyzer constructs a StaticAnalyzer.
func NewStaticAnalyzer() *StaticAnalyzer { return &StaticAnalyzer{} }

// AnalyzeCapabilityGaps implements Analyzer.
func (*StaticAnalyzer) AnalyzeCapabilityGaps(context.Context) ([]CapabilityGap, error) {
	return []CapabilityGap{
		{Area: "ProjectManagement", Description: "Need specialized agent for project coordination", Priority: 9},
		{Area: "CodeReview", Description: "Automated code review capabilities missing", Priority: 7},
		{Area: "Testing", Description: "Automated testing agent needed", Priority: 6},
		{Area: "Deployment", Description: "CI/CD automation missing", Priority: 5},
		{Area: "Monitoring", Description: "System monitoring and alerting", Priority: 4},
	}, nil
}

// CurrentCapabilities implements Analyzer.
func (*StaticAnalyzer) CurrentCapabilities(context.Context) ([]string, error) {
	return []string{
		"Multi-agent coordination",
		"Natural language processing",
		"Code generation",
		"File operations",
		"Database operations",
		"Web search",
		"System analysis",
		"Evolution planning",
	}, nil
}

// HighestPriorityGap returns the most urgent gap, or a zero value when the
// slice is empty.
func HighestPriorityGap(gaps []CapabilityGap) (CapabilityGap, bool) {
	if len(gaps) == 0 {
		return CapabilityGap{}, false
	}
	best := gaps[0]
	for _, g := range gaps[1:] {
		if g.Priority > best.Priority {
			best = g
		}
	}
	return best, true
}

// RecommendedAction maps a gap's priority to the next step the original
// system suggested.
func RecommendedAction(gap CapabilityGap, ok bool) string {
	switch {
	case !ok:
		return "No critical gaps identified"
	case gap.Priority > 8:
		return "Create new agent"
	case gap.Priority > 5:
		return "Enhance existing capability"
	default:
		return "Monitor and optimize"
	}
}
