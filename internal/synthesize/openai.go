package synthesize

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

type openaiSynthesizer struct {
	client *openai.Client
	voice  openai.SpeechVoice
}

// NewOpenAI creates a synthesizer backed by the OpenAI speech API, returning
// WAV audio. baseURL overrides the API endpoint when non-empty.
func NewOpenAI(apiKey, voice, baseURL string) Synthesizer {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	return &openaiSynthesizer{
		client: openai.NewClientWithConfig(config),
		voice:  openai.SpeechVoice(voice),
	}
}

func (o *openaiSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          text,
		Voice:          o.voice,
		ResponseFormat: openai.SpeechResponseFormatWav,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	wav, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read openai speech response: %w", err)
	}
	return wav, nil
}
