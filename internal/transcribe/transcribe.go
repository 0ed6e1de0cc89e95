// Package transcribe maps one finalized utterance blob to a best-effort
// transcript. Recognition is one-shot: the full WAV-wrapped utterance goes
// out, the concatenated top alternatives come back.
package transcribe

import "context"

// Recognizer converts a WAV-wrapped audio blob into transcript text.
// An empty transcript means no speech was detected; that is not an error.
type Recognizer interface {
	Recognize(ctx context.Context, wav []byte) (string, error)
}
