package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestOpenAIStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}

		var req struct {
			Model  string `json:"model"`
			Stream bool   `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" {
			t.Fatalf("expected model gpt-4o-mini, got %q", req.Model)
		}
		if !req.Stream {
			t.Fatal("expected streaming request")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, token := range []string{"こんに", "ちは。", "元気ですか？"} {
			chunk := map[string]any{
				"id":      "chatcmpl-1",
				"object":  "chat.completion.chunk",
				"created": 123,
				"model":   "gpt-4o-mini",
				"choices": []map[string]any{{
					"index": 0,
					"delta": map[string]any{"content": token},
				}},
			}
			payload, _ := json.Marshal(chunk)
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	client, err := newOpenAIClient("test-key", "gpt-4o-mini", &clientOptions{baseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("newOpenAIClient failed: %v", err)
	}

	var tokens []string
	full, err := client.Stream(context.Background(), []Message{
		{Role: "system", Content: "you are helpful"},
		{Role: "user", Content: "こんにちは"},
	}, func(token string) {
		tokens = append(tokens, token)
	})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	want := []string{"こんに", "ちは。", "元気ですか？"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("expected tokens %v in order, got %v", want, tokens)
	}
	if full != "こんにちは。元気ですか？" {
		t.Fatalf("unexpected full text %q", full)
	}
}

func TestOpenAIStreamServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := newOpenAIClient("test-key", "gpt-4o-mini", &clientOptions{baseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("newOpenAIClient failed: %v", err)
	}

	_, err = client.Stream(context.Background(), []Message{{Role: "user", Content: "hi"}}, func(string) {
		t.Error("unexpected token on failed stream")
	})
	if err == nil {
		t.Fatal("expected error from failed stream")
	}
}
