package llm

import (
	"context"
	"strings"
	"testing"
)

func TestConvertGeminiMessages(t *testing.T) {
	systemInstruction, contents := convertGeminiMessages([]Message{
		{Role: "system", Content: "あなたは会議アシスタントです"},
		{Role: "user", Content: "こんにちは"},
		{Role: "assistant", Content: "こんにちは！"},
		{Role: "user", Content: "調子はどう？"},
	})

	if systemInstruction == nil {
		t.Fatalf("expected system instruction, got nil")
	}
	if len(systemInstruction.Parts) != 1 || systemInstruction.Parts[0].Text != "あなたは会議アシスタントです" {
		t.Fatalf("unexpected system instruction: %#v", systemInstruction)
	}

	if len(contents) != 3 {
		t.Fatalf("expected 3 conversation messages, got %d", len(contents))
	}
	if contents[0].Role != "user" || contents[0].Parts[0].Text != "こんにちは" {
		t.Fatalf("unexpected first message: %#v", contents[0])
	}
	if contents[1].Role != "model" || contents[1].Parts[0].Text != "こんにちは！" {
		t.Fatalf("unexpected second message: %#v", contents[1])
	}
	if contents[2].Role != "user" || contents[2].Parts[0].Text != "調子はどう？" {
		t.Fatalf("unexpected third message: %#v", contents[2])
	}
}

func TestGeminiStreamRequiresUserMessage(t *testing.T) {
	client, err := newGeminiClient("test-key", "gemini-test", &clientOptions{})
	if err != nil {
		t.Fatalf("newGeminiClient failed: %v", err)
	}

	_, err = client.Stream(context.Background(), []Message{
		{Role: "system", Content: "persona"},
	}, func(string) {
		t.Error("unexpected token")
	})
	if err == nil {
		t.Fatal("expected error when no user message provided")
	}
	if !strings.Contains(err.Error(), "no user message") {
		t.Fatalf("expected 'no user message' in error, got %q", err.Error())
	}
}
