// Package llm provides LLM provider abstractions.
//
// LLM Provider interface - the abstract interface for the external agent
// execution service. Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling

package llm

import (
	"context"
)

// Provider defines the abstract interface for LLM providers.
// Implementations hide provider-specific details while exposing a
// consistent interface for single-shot chat completions. Every call is
// awaited to completion; retries and rate limiting are the remote
// service's responsibility.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Chat sends a chat completion request.
	Chat(ctx context.Context, messages []ChatMessage) (LLMResponse, error)

	// ChatWithFormat sends a chat completion request with a response format.
	// Providers without native structured-output support may ignore the
	// format; callers are expected to parse the returned text themselves.
	ChatWithFormat(ctx context.Context, messages []ChatMessage, format *ResponseFormat) (LLMResponse, error)

	// ChatWithTools sends a chat completion request with tool declarations.
	// Tool execution happens on the service side; any tool calls the model
	// emits are reported in LLMResponse.ToolCalls.
	ChatWithTools(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (LLMResponse, error)
}
