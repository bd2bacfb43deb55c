// Stage runner - one agent invocation against an accumulated transcript.
//
// Information Hiding:
// - How a Config maps onto a provider call (plain, structured, tools)
// - Structured output parsing and its failure semantics

package workflow

import (
	"context"
	"fmt"

	"github.com/richinex/switchboard/agent"
	internaljson "github.com/richinex/switchboard/internal/json"
	"github.com/richinex/switchboard/llm"
	"github.com/richinex/switchboard/transcript"
)

// StageResult is the outcome of one stage invocation.
type StageResult struct {
	// OutputText is the text the agent produced.
	OutputText string

	// Parsed holds the structured output fields when the agent declares a
	// response schema; nil otherwise.
	Parsed map[string]string

	// NewItems are the transcript items this invocation produced, to be
	// appended to the accumulated transcript by the caller.
	NewItems []transcript.Item
}

// runStage invokes the execution service once with the given agent
// configuration and transcript. An optional instruction is appended as a
// final user item for this call only; it is not part of the accumulated
// transcript. The call is atomic and awaited: no retries, no local
// timeout beyond what the context carries.
func runStage(ctx context.Context, provider llm.Provider, cfg agent.Config, items []transcript.Item, instruction string) (StageResult, error) {
	messages := make([]llm.ChatMessage, 0, len(items)+2)
	messages = append(messages, llm.SystemMessage(cfg.Instructions))
	messages = append(messages, transcript.AsMessages(items)...)
	if instruction != "" {
		messages = append(messages, llm.UserMessage(instruction))
	}

	var response llm.LLMResponse
	var err error
	switch {
	case cfg.HasResponseSchema():
		format := llm.NewJSONSchemaFormat(schemaName(cfg.Name), cfg.ResponseSchema)
		response, err = provider.ChatWithFormat(ctx, messages, format)
	case cfg.HasTools():
		response, err = provider.ChatWithTools(ctx, messages, cfg.Tools)
	default:
		response, err = provider.Chat(ctx, messages)
	}
	if err != nil {
		return StageResult{}, fmt.Errorf("%s stage failed: %w", cfg.Name, err)
	}

	result := StageResult{
		OutputText: response.Content,
		NewItems:   []transcript.Item{transcript.AssistantItem(response.Content)},
	}

	if cfg.HasResponseSchema() {
		parsed, err := internaljson.ExtractJSONFromResponse[map[string]string](response.Content)
		if err != nil {
			return StageResult{}, fmt.Errorf("%s stage produced unparseable output: %w", cfg.Name, err)
		}
		result.Parsed = parsed
	}

	return result, nil
}

// schemaName derives a provider-safe schema identifier from an agent name.
func schemaName(agentName string) string {
	name := make([]rune, 0, len(agentName))
	for _, r := range agentName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			name = append(name, r)
		default:
			name = append(name, '_')
		}
	}
	return string(name)
}
