// Package synthesize converts one sentence of reply text into playable
// audio. Backends return a WAV container; the pipeline strips the header
// before forwarding raw samples to the client.
package synthesize

import "context"

// Synthesizer converts a non-empty sentence into a WAV-wrapped audio payload.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
