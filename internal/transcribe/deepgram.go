package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	listenv1rest "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"
)

type deepgramRecognizer struct {
	dg       *listenv1rest.Client
	language string
}

// NewDeepgram creates a recognizer backed by Deepgram's prerecorded API.
// language is a BCP-47 code; Deepgram takes the bare language subtag.
func NewDeepgram(apiKey, language string) Recognizer {
	c := client.NewREST(apiKey, &interfaces.ClientOptions{})
	return &deepgramRecognizer{
		dg:       listenv1rest.New(c),
		language: strings.SplitN(language, "-", 2)[0],
	}
}

func (d *deepgramRecognizer) Recognize(ctx context.Context, wav []byte) (string, error) {
	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       "nova-2",
		Language:    d.language,
		Punctuate:   true,
		SmartFormat: true,
	}

	res, err := d.dg.FromStream(ctx, bytes.NewReader(wav), options)
	if err != nil {
		return "", fmt.Errorf("deepgram transcription: %w", err)
	}

	var b strings.Builder
	for _, channel := range res.Results.Channels {
		if len(channel.Alternatives) == 0 {
			continue
		}
		b.WriteString(channel.Alternatives[0].Transcript)
	}

	return strings.TrimSpace(b.String()), nil
}
