package audio

import (
	"sync"
	"time"
)

// IngestState is the accumulation state of an Ingest buffer.
type IngestState int

const (
	// StateIdle means no audio is buffered and no cycle is running.
	StateIdle IngestState = iota
	// StateAccumulating means frames are buffered and a flush trigger is armed.
	StateAccumulating
	// StateFlushing means a flushed utterance is being processed; new frames
	// are buffered but no trigger fires until Complete is called.
	StateFlushing
)

// IngestConfig bounds utterance accumulation.
type IngestConfig struct {
	// MinBytes is the noise floor: flushed blobs shorter than this are
	// discarded without starting a pipeline cycle.
	MinBytes int
	// MaxBytes is the size trigger: accumulation flushes immediately once
	// this many bytes are buffered.
	MaxBytes int
	// FlushDelay is the idle trigger: a debounce reset on every accepted
	// frame. If it elapses uninterrupted, whatever has accumulated flushes.
	FlushDelay time.Duration
}

// Ingest accumulates inbound PCM frames for one connection and decides when
// enough speech has been captured to attempt recognition. Two triggers
// compete: a high-water byte mark and an idle debounce timer. Frames that
// arrive while the agent itself is speaking are dropped so the agent never
// transcribes its own voice looping back through the meeting.
type Ingest struct {
	cfg      IngestConfig
	speaking func() bool
	onFlush  func(blob []byte)

	mu      sync.Mutex
	state   IngestState
	pending []byte
	timer   *time.Timer
	closed  bool
}

// NewIngest creates an ingest buffer. speaking gates frame acceptance;
// onFlush receives each flushed utterance blob on its own goroutine and the
// owner must call Complete once the cycle for that blob has finished.
func NewIngest(cfg IngestConfig, speaking func() bool, onFlush func(blob []byte)) *Ingest {
	if cfg.FlushDelay <= 0 {
		cfg.FlushDelay = 2 * time.Second
	}
	return &Ingest{cfg: cfg, speaking: speaking, onFlush: onFlush}
}

// Append offers one audio frame to the buffer. It reports whether the frame
// was accepted. Frames are rejected while the agent is speaking (echo
// suppression) or after Close.
func (g *Ingest) Append(frame []byte) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || (g.speaking != nil && g.speaking()) {
		return false
	}

	g.pending = append(g.pending, frame...)

	// A flush is already in flight: keep buffering, but do not arm a new
	// trigger until the running cycle completes.
	if g.state == StateFlushing {
		return true
	}

	g.state = StateAccumulating
	if g.cfg.MaxBytes > 0 && len(g.pending) >= g.cfg.MaxBytes {
		g.flushLocked()
		return true
	}

	g.armTimerLocked()
	return true
}

// Complete marks the current pipeline cycle finished. Audio captured during
// the cycle is discarded and the idle timer cancelled: anything heard while
// the agent was speaking is almost certainly its own voice.
func (g *Ingest) Complete() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pending = nil
	g.stopTimerLocked()
	if !g.closed {
		g.state = StateIdle
	}
}

// Close tears the buffer down. Subsequent Appends are rejected.
func (g *Ingest) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true
	g.pending = nil
	g.stopTimerLocked()
	g.state = StateIdle
}

// State returns the current accumulation state.
func (g *Ingest) State() IngestState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Pending returns the number of buffered bytes.
func (g *Ingest) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

func (g *Ingest) armTimerLocked() {
	g.stopTimerLocked()
	g.timer = time.AfterFunc(g.cfg.FlushDelay, g.idleFlush)
}

func (g *Ingest) stopTimerLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

func (g *Ingest) idleFlush() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateAccumulating {
		return
	}
	g.flushLocked()
}

// flushLocked moves the accumulated bytes out as one utterance candidate.
// Blobs under the noise floor are dropped without starting a cycle.
func (g *Ingest) flushLocked() {
	g.stopTimerLocked()

	blob := g.pending
	g.pending = nil

	if len(blob) < g.cfg.MinBytes {
		g.state = StateIdle
		return
	}

	g.state = StateFlushing
	go g.onFlush(blob)
}
