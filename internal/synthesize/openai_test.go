package synthesize

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAISynthesize(t *testing.T) {
	wav := []byte("RIFF....WAVEfake-audio")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}

		var req struct {
			Model          string `json:"model"`
			Input          string `json:"input"`
			Voice          string `json:"voice"`
			ResponseFormat string `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Input != "こんにちは。" {
			t.Fatalf("unexpected input %q", req.Input)
		}
		if req.ResponseFormat != "wav" {
			t.Fatalf("expected wav response format, got %q", req.ResponseFormat)
		}

		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(wav)
	}))
	defer server.Close()

	synth := NewOpenAI("test-key", "alloy", server.URL+"/v1")

	got, err := synth.Synthesize(context.Background(), "こんにちは。")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if !bytes.Equal(got, wav) {
		t.Fatal("expected audio bytes passed through unchanged")
	}
}
