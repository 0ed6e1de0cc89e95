package synthesize

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/option"
	texttospeech "google.golang.org/api/texttospeech/v1"
)

type googleSynthesizer struct {
	svc        *texttospeech.Service
	language   string
	voice      string
	sampleRate int
}

// NewGoogle creates a synthesizer backed by the Google Text-to-Speech API.
// Output is LINEAR16 (16-bit PCM in a WAV container) at sampleRate.
func NewGoogle(ctx context.Context, language, voice string, sampleRate int, opts ...option.ClientOption) (Synthesizer, error) {
	svc, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create texttospeech service: %w", err)
	}
	return &googleSynthesizer{
		svc:        svc,
		language:   language,
		voice:      voice,
		sampleRate: sampleRate,
	}, nil
}

func (g *googleSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := g.svc.Text.Synthesize(&texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: g.language,
			Name:         g.voice,
		},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding:   "LINEAR16",
			SampleRateHertz: int64(g.sampleRate),
		},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("texttospeech synthesize: %w", err)
	}

	wav, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}
	return wav, nil
}
