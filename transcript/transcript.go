// Package transcript builds the typed conversation transcript fed to each
// workflow stage.
//
// Information Hiding:
// - Role normalization rules hidden behind FromTurn
// - History truncation policy hidden behind Build

package transcript

import "github.com/richinex/switchboard/llm"

// DefaultWindow is the number of prior turns retained when building a
// transcript. Older turns are dropped, not archived.
const DefaultWindow = 12

// Kind identifies the content block type of a transcript item.
type Kind string

const (
	// KindInputText is user-authored content.
	KindInputText Kind = "input_text"
	// KindOutputText is model-produced content.
	KindOutputText Kind = "output_text"
	// KindSummaryText is system context carried between turns.
	KindSummaryText Kind = "summary_text"
)

// Turn is one entry of a caller-held conversation history.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"content"`
}

// Item is a Turn rendered into the typed block the agent execution
// service expects. The role is always one of user, assistant, system.
type Item struct {
	Role string
	Kind Kind
	Text string
}

// FromTurn derives a transcript item from a conversation turn.
// Unrecognized roles default to user; missing text becomes the empty
// string. Malformed turns are recovered, never rejected.
func FromTurn(t Turn) Item {
	switch t.Role {
	case "assistant":
		return Item{Role: "assistant", Kind: KindOutputText, Text: t.Text}
	case "system":
		return Item{Role: "system", Kind: KindSummaryText, Text: t.Text}
	case "user":
		return Item{Role: "user", Kind: KindInputText, Text: t.Text}
	default:
		return Item{Role: "user", Kind: KindInputText, Text: t.Text}
	}
}

// UserItem creates a user-role input item.
func UserItem(text string) Item {
	return Item{Role: "user", Kind: KindInputText, Text: text}
}

// AssistantItem creates an assistant-role output item.
func AssistantItem(text string) Item {
	return Item{Role: "assistant", Kind: KindOutputText, Text: text}
}

// Build converts prior history plus a new user input into an ordered
// transcript. Only the most recent window turns of history are kept, in
// original chronological order, followed by the new input as a final
// user item. A window <= 0 falls back to DefaultWindow.
//
// Build is a pure function of its inputs.
func Build(history []Turn, input string, window int) []Item {
	if window <= 0 {
		window = DefaultWindow
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}

	items := make([]Item, 0, len(history)+1)
	for _, turn := range history {
		items = append(items, FromTurn(turn))
	}
	return append(items, UserItem(input))
}

// AsMessages renders transcript items into provider chat messages.
// The stage's own instructions are prepended by the caller; extra
// per-stage instruction items are appended by the caller.
func AsMessages(items []Item) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, len(items))
	for i, item := range items {
		messages[i] = llm.ChatMessage{Role: item.Role, Content: item.Text}
	}
	return messages
}
