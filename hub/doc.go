// Package hub implements the in-process transport that queues and dispatches
// messages between agents.
//
// The Hub owns the agent registry and a FIFO message queue drained by a single
// background dispatch goroutine. Delivery is purely by target agent id; routing
// intelligence lives in the sending agent. Three delivery modes are supported:
//
//   - SendMessage: fire-and-forget enqueue, never blocks the caller
//   - BroadcastMessage: fan-out to every registered agent as individual
//     point-to-point messages with RequiresResponse cleared
//   - SendAndWaitForResponse: correlated request/response with a per-message
//     completion channel satisfied by the dispatch loop and a hard timeout
//
// Messages addressed to an unregistered agent are dropped and counted; when a
// correlation waiter exists for the dropped message it is completed with a
// core.RoutingError instead of silently timing out. Failures inside agent
// processing never terminate the dispatch loop.
package hub
