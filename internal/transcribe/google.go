package transcribe

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	speech "google.golang.org/api/speech/v1"
)

type googleRecognizer struct {
	svc      *speech.Service
	language string
}

// NewGoogle creates a recognizer backed by the Google Speech-to-Text API.
// The WAV header carries the encoding and sample rate, so the request only
// needs the language hint.
func NewGoogle(ctx context.Context, language string, opts ...option.ClientOption) (Recognizer, error) {
	svc, err := speech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech service: %w", err)
	}
	return &googleRecognizer{svc: svc, language: language}, nil
}

func (g *googleRecognizer) Recognize(ctx context.Context, wav []byte) (string, error) {
	resp, err := g.svc.Speech.Recognize(&speech.RecognizeRequest{
		Config: &speech.RecognitionConfig{
			LanguageCode: g.language,
		},
		Audio: &speech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(wav),
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("speech recognize: %w", err)
	}

	var b strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		b.WriteString(result.Alternatives[0].Transcript)
	}

	return strings.TrimSpace(b.String()), nil
}
