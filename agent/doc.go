// Package agent contains the concrete agents of the system: chat, evolution,
// tool and project management. All agents embed BaseAgent, which provides
// identity, status transitions and the processing guard that turns panics
// into failure responses. Agents never return Go errors from ProcessMessage;
// failures travel as AgentResponse values with Success=false.
package agent
