package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/syeeel/meet-agent/internal/audio"
	"github.com/syeeel/meet-agent/internal/config"
	"github.com/syeeel/meet-agent/internal/gauth"
	"github.com/syeeel/meet-agent/internal/llm"
	"github.com/syeeel/meet-agent/internal/pipeline"
	"github.com/syeeel/meet-agent/internal/server"
	"github.com/syeeel/meet-agent/internal/session"
	"github.com/syeeel/meet-agent/internal/synthesize"
	"github.com/syeeel/meet-agent/internal/transcribe"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	log.Println("meet-agent: starting")

	cfg, warnings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	for _, w := range warnings {
		log.Printf("warning: %s", w)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	generator, err := buildGenerator(cfg)
	if err != nil {
		log.Fatalf("llm init failed: %v", err)
	}

	// Google adapters share one cached token source so a single refresh
	// serves both speech services.
	var tokens oauth2.TokenSource
	if cfg.Recognizer == "google" || cfg.Synthesizer == "google" {
		tokens, err = gauth.Default(ctx)
		if err != nil {
			log.Fatalf("google credentials unavailable: %v", err)
		}
	}

	recognizer, err := buildRecognizer(ctx, cfg, tokens)
	if err != nil {
		log.Fatalf("recognizer init failed: %v", err)
	}

	synthesizer, err := buildSynthesizer(ctx, cfg, tokens)
	if err != nil {
		log.Fatalf("synthesizer init failed: %v", err)
	}

	relay := server.Config{
		Runner: pipeline.New(pipeline.Config{
			Recognizer:   recognizer,
			Generator:    generator,
			Synthesizer:  synthesizer,
			Persona:      cfg.Persona,
			HistoryTurns: cfg.HistoryTurns,
			SampleRate:   cfg.SampleRate,
		}),
		Sessions: session.NewManager(),
		Ingest: audio.IngestConfig{
			MinBytes:   cfg.MinUtteranceBytes,
			MaxBytes:   cfg.MaxUtteranceBytes,
			FlushDelay: cfg.ParsedFlushDelay(),
		},
	}

	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: server.Handler(relay)}
	go func() {
		log.Printf("meet-agent: listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("meet-agent: shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("warning: http shutdown failed: %v", err)
	}
}

func buildGenerator(cfg config.Config) (llm.Client, error) {
	provider, model, err := llm.ParseModel(cfg.Model)
	if err != nil {
		return nil, err
	}

	var apiKey string
	switch provider {
	case "gemini":
		apiKey = cfg.GeminiAPIKey
	case "openai":
		apiKey = cfg.OpenAIAPIKey
	case "anthropic":
		apiKey = cfg.AnthropicAPIKey
	}

	return llm.NewClient(provider, apiKey, model)
}

func buildRecognizer(ctx context.Context, cfg config.Config, tokens oauth2.TokenSource) (transcribe.Recognizer, error) {
	switch cfg.Recognizer {
	case "google":
		return transcribe.NewGoogle(ctx, cfg.Language, option.WithTokenSource(tokens))
	case "deepgram":
		return transcribe.NewDeepgram(cfg.DeepgramAPIKey, cfg.Language), nil
	default:
		return nil, fmt.Errorf("unknown recognizer %q", cfg.Recognizer)
	}
}

func buildSynthesizer(ctx context.Context, cfg config.Config, tokens oauth2.TokenSource) (synthesize.Synthesizer, error) {
	switch cfg.Synthesizer {
	case "google":
		return synthesize.NewGoogle(ctx, cfg.Language, cfg.VoiceName, cfg.SampleRate, option.WithTokenSource(tokens))
	case "openai":
		return synthesize.NewOpenAI(cfg.OpenAIAPIKey, cfg.VoiceName, ""), nil
	default:
		return nil, fmt.Errorf("unknown synthesizer %q", cfg.Synthesizer)
	}
}
