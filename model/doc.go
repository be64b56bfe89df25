// Package model defines the LLM collaborator interface used by agents and
// tools for text generation. The interface is intentionally small: a single
// prompt completion and a role-tagged chat form. Provider adapters live in
// the anthropic and openai subpackages; MockModel provides deterministic
// canned responses for tests and examples.
//
// Failures surface as Go errors, never as error text embedded in a normal
// answer, so callers can convert them to typed failure responses.
package model
