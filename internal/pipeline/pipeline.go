// Package pipeline runs one reply cycle: recognized utterance in, ordered
// sentence text and audio out. Sentences are synthesized strictly one at a
// time so playback order always matches generation order.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/syeeel/meet-agent/internal/audio"
	"github.com/syeeel/meet-agent/internal/llm"
	"github.com/syeeel/meet-agent/internal/session"
	"github.com/syeeel/meet-agent/internal/synthesize"
	"github.com/syeeel/meet-agent/internal/transcribe"
)

// DefaultFallback is spoken when the model yields no text at all.
const DefaultFallback = "申し訳ありません、うまく聞き取れませんでした。"

// Emitter receives pipeline output events for one connection, in order.
type Emitter interface {
	// Transcript reports the recognized user utterance.
	Transcript(text string)
	// Response carries the first sentence of a reply, replacing any prior
	// display.
	Response(text string)
	// ResponseAppend carries each subsequent sentence.
	ResponseAppend(text string)
	// Audio carries one sentence's synthesized raw PCM samples.
	Audio(pcm []byte)
	// AudioDone signals the end of the reply cycle.
	AudioDone()
}

// Config wires one pipeline instance.
type Config struct {
	Recognizer  transcribe.Recognizer
	Generator   llm.Client
	Synthesizer synthesize.Synthesizer

	// Persona is the fixed system instruction priming every generation.
	Persona string
	// HistoryTurns caps the trailing history included in a model request.
	HistoryTurns int
	// SampleRate of inbound PCM, used when wrapping utterances for
	// recognition.
	SampleRate int
	// Fallback replaces an entirely empty generation. Defaults to
	// DefaultFallback.
	Fallback string
}

// Pipeline is safe for use by multiple sessions; per-connection state lives
// in the session and in each Run call.
type Pipeline struct {
	cfg Config
}

// New creates a pipeline.
func New(cfg Config) *Pipeline {
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = 10
	}
	if cfg.Fallback == "" {
		cfg.Fallback = DefaultFallback
	}
	return &Pipeline{cfg: cfg}
}

// Run executes one reply cycle for a flushed utterance blob. An empty
// transcript ends the cycle silently. Any error aborts the remainder of the
// reply; sentences already emitted stay emitted. The session's speaking flag
// is held for the whole reply and always cleared on return.
func (p *Pipeline) Run(ctx context.Context, sess *session.Session, blob []byte, out Emitter) error {
	wav := audio.WrapPCM(blob, p.cfg.SampleRate)

	transcript, err := p.cfg.Recognizer.Recognize(ctx, wav)
	if err != nil {
		return fmt.Errorf("recognize: %w", err)
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil
	}

	out.Transcript(transcript)

	// From here until playback hand-off completes, inbound audio is echo.
	sess.SetSpeaking(true)
	defer sess.SetSpeaking(false)

	fullText, err := p.generate(ctx, sess, transcript, out)
	if err != nil {
		return err
	}

	sess.AppendExchange(transcript, fullText)
	out.AudioDone()
	return nil
}

// generate drives the token stream and returns the full reply text.
func (p *Pipeline) generate(ctx context.Context, sess *session.Session, transcript string, out Emitter) (string, error) {
	genCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var seg Segmenter
	sentences := 0
	var emitErr error

	full, err := p.cfg.Generator.Stream(genCtx, p.buildMessages(sess, transcript), func(token string) {
		if emitErr != nil {
			return
		}
		for _, unit := range seg.Add(token) {
			if emitErr = p.emitSentence(ctx, unit, &sentences, out); emitErr != nil {
				cancel()
				return
			}
		}
	})
	if emitErr != nil {
		return "", emitErr
	}
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	if rest := seg.Flush(); rest != "" {
		if err := p.emitSentence(ctx, rest, &sentences, out); err != nil {
			return "", err
		}
	}

	full = strings.TrimSpace(full)
	if full != "" {
		return full, nil
	}

	// The model produced nothing. Speak the fallback rather than leaving
	// the user in silence.
	log.Printf("empty generation for session %s, using fallback", sess.ID)
	if err := p.emitSentence(ctx, p.cfg.Fallback, &sentences, out); err != nil {
		return "", err
	}
	return p.cfg.Fallback, nil
}

// emitSentence publishes one sentence unit as text, then synthesizes it and
// forwards the raw samples. Synthesis blocks further sentence processing so
// emission order equals generation order.
func (p *Pipeline) emitSentence(ctx context.Context, unit string, sentences *int, out Emitter) error {
	if *sentences == 0 {
		out.Response(unit)
	} else {
		out.ResponseAppend(unit)
	}
	*sentences++

	wav, err := p.cfg.Synthesizer.Synthesize(ctx, unit)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}
	pcm, err := audio.StripWAV(wav)
	if err != nil {
		return fmt.Errorf("strip audio container: %w", err)
	}

	out.Audio(pcm)
	return nil
}

func (p *Pipeline) buildMessages(sess *session.Session, transcript string) []llm.Message {
	msgs := make([]llm.Message, 0, p.cfg.HistoryTurns+2)
	if p.cfg.Persona != "" {
		msgs = append(msgs, llm.Message{Role: "system", Content: p.cfg.Persona})
	}
	for _, turn := range sess.Prompt(p.cfg.HistoryTurns) {
		msgs = append(msgs, llm.Message{Role: turn.Role, Content: turn.Text})
	}
	return append(msgs, llm.Message{Role: session.RoleUser, Content: transcript})
}
