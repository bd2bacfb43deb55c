// Agent configuration types.
//
// Information Hiding:
// - What a stage sends to the execution service is derived entirely
//   from its Config; the router never inspects provider details

package agent

import (
	"encoding/json"

	"github.com/richinex/switchboard/llm"
)

// Config holds the immutable configuration of one workflow agent.
// Configs are value objects constructed once at process start and passed
// explicitly into the stage runner.
type Config struct {
	// Name is a unique identifier for the agent.
	Name string

	// Instructions is the static prompt text guiding the agent.
	Instructions string

	// Model is the model identifier this agent runs on.
	Model string

	// ResponseSchema is an optional JSON schema for structured outputs.
	// When set, the stage output must parse into the schema's shape.
	ResponseSchema json.RawMessage

	// Tools declares service-side tools available during generation.
	Tools []llm.ToolDefinition

	// Settings optionally overrides generation settings for this agent.
	Settings *GenerationSettings
}

// GenerationSettings holds per-agent generation overrides.
type GenerationSettings struct {
	Temperature float32
	MaxTokens   uint32
}

// HasTools returns true if the agent has tools configured.
func (c *Config) HasTools() bool {
	return len(c.Tools) > 0
}

// HasResponseSchema returns true if a response schema is configured.
func (c *Config) HasResponseSchema() bool {
	return len(c.ResponseSchema) > 0
}
