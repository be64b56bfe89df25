// Package memory provides conversation history storage for context
// retention. The chat agent records each user/agent exchange here and folds
// recent turns back into its language model prompts.
//
// The in-memory store below is process local and keeps a bounded window per
// conversation. Swap in a persistent backend at wiring time for multi-process
// deployments.
package memory
