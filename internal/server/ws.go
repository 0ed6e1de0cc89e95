package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/syeeel/meet-agent/internal/audio"
	"github.com/syeeel/meet-agent/internal/pipeline"
	"github.com/syeeel/meet-agent/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Runner executes one reply cycle for a flushed utterance.
type Runner interface {
	Run(ctx context.Context, sess *session.Session, blob []byte, out pipeline.Emitter) error
}

// sender serializes all writes on one websocket connection. Reply cycles run
// on the flush goroutine while errors may come from the read loop, so every
// write goes through the mutex.
type sender struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *sender) send(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("ws marshal error: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("ws write error: %v", err)
	}
}

func (s *sender) Transcript(text string) {
	s.send(transcriptEvent{Type: "transcript", Speaker: "user", Text: text})
}

func (s *sender) Response(text string) {
	s.send(textEvent{Type: "response", Text: text})
}

func (s *sender) ResponseAppend(text string) {
	s.send(textEvent{Type: "response_append", Text: text})
}

func (s *sender) Audio(pcm []byte) {
	s.send(audioEvent{Type: "audio", Data: base64.StdEncoding.EncodeToString(pcm)})
}

func (s *sender) AudioDone() {
	s.send(doneEvent{Type: "audio_done"})
}

func (s *sender) Error(message string) {
	s.send(errorEvent{Type: "error", Message: message})
}

func registerWSRoute(mux *http.ServeMux, cfg Config) {
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("ws upgrade error: %v", err)
			return
		}
		defer func() { _ = conn.Close() }()

		sess := cfg.Sessions.Create(cfg.Sessions.NextID())
		defer cfg.Sessions.Remove(sess.ID)
		defer func() {
			if tr := sess.Transcript(); tr != "" {
				log.Printf("session %s transcript:\n%s", sess.ID, tr)
			}
		}()
		log.Printf("session %s connected", sess.ID)

		snd := &sender{conn: conn}
		ctx := r.Context()

		var ing *audio.Ingest
		ing = audio.NewIngest(cfg.Ingest, sess.Speaking, func(blob []byte) {
			if err := cfg.Runner.Run(ctx, sess, blob, snd); err != nil {
				log.Printf("session %s reply cycle: %v", sess.ID, err)
				snd.Error("reply failed")
			}
			// Discard any audio captured while the reply was playing.
			ing.Complete()
		})
		defer ing.Close()

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				log.Printf("session %s disconnected: %v", sess.ID, err)
				return
			}

			var msg inboundMessage
			if err := json.Unmarshal(payload, &msg); err != nil {
				log.Printf("session %s malformed frame: %v", sess.ID, err)
				continue
			}
			if msg.Type != "audio" {
				log.Printf("session %s unknown message type %q", sess.ID, msg.Type)
				continue
			}

			frame, err := base64.StdEncoding.DecodeString(msg.Data)
			if err != nil {
				log.Printf("session %s bad audio payload: %v", sess.ID, err)
				continue
			}
			ing.Append(frame)
		}
	})
}
