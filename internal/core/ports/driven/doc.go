// Package driven declares what the core services need from the outside
// world. Adapters under internal/adapters/driven implement these
// interfaces; services receive them through their constructors.
//
// A nil LLMService or PromptStore is allowed: answers then fall back to
// the retrieved passages and the built-in prompts. Every other port is
// required by the service that takes it.
package driven
