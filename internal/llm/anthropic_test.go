package llm

import "testing"

func TestConvertAnthropicMessages(t *testing.T) {
	systemBlocks, chatMessages := convertAnthropicMessages([]Message{
		{Role: "system", Content: "follow persona"},
		{Role: "user", Content: "こんにちは"},
		{Role: "assistant", Content: "こんにちは！"},
	})

	if len(systemBlocks) != 1 || systemBlocks[0].Text != "follow persona" {
		t.Fatalf("unexpected system blocks: %#v", systemBlocks)
	}
	if len(chatMessages) != 2 {
		t.Fatalf("expected 2 chat messages, got %d", len(chatMessages))
	}
	if chatMessages[0].Role != "user" {
		t.Fatalf("expected first message role user, got %q", chatMessages[0].Role)
	}
	if chatMessages[1].Role != "assistant" {
		t.Fatalf("expected second message role assistant, got %q", chatMessages[1].Role)
	}
}
