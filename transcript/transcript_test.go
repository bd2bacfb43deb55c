package transcript

import (
	"fmt"
	"testing"
)

func TestFromTurnRoleMapping(t *testing.T) {
	tests := []struct {
		role     string
		wantRole string
		wantKind Kind
	}{
		{"user", "user", KindInputText},
		{"assistant", "assistant", KindOutputText},
		{"system", "system", KindSummaryText},
		{"tool", "user", KindInputText},
		{"", "user", KindInputText},
		{"USER", "user", KindInputText}, // role matching is case-sensitive
	}

	for _, tt := range tests {
		item := FromTurn(Turn{Role: tt.role, Text: "hello"})
		if item.Role != tt.wantRole {
			t.Errorf("role %q: expected role %q, got %q", tt.role, tt.wantRole, item.Role)
		}
		if item.Kind != tt.wantKind {
			t.Errorf("role %q: expected kind %q, got %q", tt.role, tt.wantKind, item.Kind)
		}
	}
}

func TestFromTurnMissingText(t *testing.T) {
	item := FromTurn(Turn{Role: "user"})
	if item.Text != "" {
		t.Errorf("expected empty text, got %q", item.Text)
	}
}

func TestBuildAppendsInputLast(t *testing.T) {
	history := []Turn{
		{Role: "user", Text: "first"},
		{Role: "assistant", Text: "second"},
	}

	items := Build(history, "new question", DefaultWindow)

	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	last := items[2]
	if last.Role != "user" || last.Kind != KindInputText || last.Text != "new question" {
		t.Errorf("unexpected final item: %+v", last)
	}
}

func TestBuildTruncatesToWindow(t *testing.T) {
	history := make([]Turn, 15)
	for i := range history {
		history[i] = Turn{Role: "user", Text: fmt.Sprintf("turn-%d", i)}
	}

	items := Build(history, "latest", 12)

	// 12 retained prior turns plus the new input.
	if len(items) != 13 {
		t.Fatalf("expected 13 items, got %d", len(items))
	}

	// The oldest 3 turns are dropped; chronological order preserved.
	if items[0].Text != "turn-3" {
		t.Errorf("expected oldest retained turn 'turn-3', got %q", items[0].Text)
	}
	if items[11].Text != "turn-14" {
		t.Errorf("expected newest retained turn 'turn-14', got %q", items[11].Text)
	}
	if items[12].Text != "latest" {
		t.Errorf("expected final input item, got %q", items[12].Text)
	}
}

func TestBuildShortHistoryUntouched(t *testing.T) {
	history := []Turn{{Role: "user", Text: "only"}}

	items := Build(history, "next", 12)

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Text != "only" {
		t.Errorf("expected history preserved, got %q", items[0].Text)
	}
}

func TestBuildEmptyHistory(t *testing.T) {
	items := Build(nil, "hello", DefaultWindow)

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Kind != KindInputText {
		t.Errorf("expected input_text, got %q", items[0].Kind)
	}
}

func TestBuildZeroWindowUsesDefault(t *testing.T) {
	history := make([]Turn, DefaultWindow+5)
	for i := range history {
		history[i] = Turn{Role: "assistant", Text: fmt.Sprintf("turn-%d", i)}
	}

	items := Build(history, "q", 0)

	if len(items) != DefaultWindow+1 {
		t.Fatalf("expected %d items, got %d", DefaultWindow+1, len(items))
	}
}

func TestAsMessages(t *testing.T) {
	items := []Item{
		{Role: "system", Kind: KindSummaryText, Text: "context"},
		{Role: "user", Kind: KindInputText, Text: "question"},
		{Role: "assistant", Kind: KindOutputText, Text: "answer"},
	}

	messages := AsMessages(items)

	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Role != "system" || messages[0].Content != "context" {
		t.Errorf("unexpected first message: %+v", messages[0])
	}
	if messages[2].Role != "assistant" || messages[2].Content != "answer" {
		t.Errorf("unexpected last message: %+v", messages[2])
	}
}
