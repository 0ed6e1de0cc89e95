package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the namespace prefix for all Meet Agent environment variables.
const EnvPrefix = "MEET_AGENT_"

// DefaultPersona primes the model as a spoken meeting participant.
const DefaultPersona = "あなたはオンライン会議に参加しているAIアシスタントです。" +
	"簡潔で自然な話し言葉の日本語で答えてください。"

// Config holds all application configuration. Secrets (API keys) are loaded
// exclusively from environment variables and never appear in the config file.
type Config struct {
	ListenAddr        string `yaml:"listen_addr"`
	Language          string `yaml:"language"`
	SampleRate        int    `yaml:"sample_rate"`
	MinUtteranceBytes int    `yaml:"min_utterance_bytes"`
	MaxUtteranceBytes int    `yaml:"max_utterance_bytes"`
	FlushDelay        string `yaml:"flush_delay"`
	HistoryTurns      int    `yaml:"history_turns"`
	Persona           string `yaml:"persona"`
	Model             string `yaml:"model"`
	Recognizer        string `yaml:"recognizer"`
	Synthesizer       string `yaml:"synthesizer"`
	VoiceName         string `yaml:"voice_name"`

	// Secrets: env vars only, never serialized to YAML.
	GeminiAPIKey    string `yaml:"-"`
	OpenAIAPIKey    string `yaml:"-"`
	AnthropicAPIKey string `yaml:"-"`
	DeepgramAPIKey  string `yaml:"-"`
}

func defaults() Config {
	return Config{
		ListenAddr:        ":8080",
		Language:          "ja-JP",
		SampleRate:        16000,
		MinUtteranceBytes: 16000,
		MaxUtteranceBytes: 160000,
		FlushDelay:        "2s",
		HistoryTurns:      10,
		Persona:           DefaultPersona,
		Model:             "gemini/gemini-2.0-flash",
		Recognizer:        "google",
		Synthesizer:       "google",
		VoiceName:         "ja-JP-Neural2-B",
	}
}

// Load reads configuration from a YAML file (if it exists), applies
// environment variable overrides, loads secrets, and validates the result.
// It returns the config, any validation warnings, and an error if the file
// exists but cannot be read or parsed.
func Load(path string) (Config, []string, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, nil, fmt.Errorf("read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	applyEnvOverrides(&cfg)
	loadSecrets(&cfg)

	warnings := validate(&cfg)
	return cfg, warnings, nil
}

// ParsedFlushDelay returns FlushDelay as a time.Duration, falling back to
// 2s if the value is invalid.
func (c *Config) ParsedFlushDelay() time.Duration {
	d, err := time.ParseDuration(c.FlushDelay)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(EnvPrefix + "LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv(EnvPrefix + "SAMPLE_RATE"); v != "" {
		if rate, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && rate > 0 {
			cfg.SampleRate = rate
		}
	}
	if v := os.Getenv(EnvPrefix + "MIN_UTTERANCE_BYTES"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			cfg.MinUtteranceBytes = n
		}
	}
	if v := os.Getenv(EnvPrefix + "MAX_UTTERANCE_BYTES"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			cfg.MaxUtteranceBytes = n
		}
	}
	if v := os.Getenv(EnvPrefix + "FLUSH_DELAY"); v != "" {
		cfg.FlushDelay = v
	}
	if v := os.Getenv(EnvPrefix + "HISTORY_TURNS"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			cfg.HistoryTurns = n
		}
	}
	if v := os.Getenv(EnvPrefix + "PERSONA"); v != "" {
		cfg.Persona = v
	}
	if v := os.Getenv(EnvPrefix + "MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv(EnvPrefix + "RECOGNIZER"); v != "" {
		cfg.Recognizer = v
	}
	if v := os.Getenv(EnvPrefix + "SYNTHESIZER"); v != "" {
		cfg.Synthesizer = v
	}
	if v := os.Getenv(EnvPrefix + "VOICE_NAME"); v != "" {
		cfg.VoiceName = v
	}
}

func loadSecrets(cfg *Config) {
	cfg.GeminiAPIKey = os.Getenv(EnvPrefix + "GEMINI_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv(EnvPrefix + "OPENAI_API_KEY")
	cfg.AnthropicAPIKey = os.Getenv(EnvPrefix + "ANTHROPIC_API_KEY")
	cfg.DeepgramAPIKey = os.Getenv(EnvPrefix + "DEEPGRAM_API_KEY")
}

func validate(cfg *Config) []string {
	var warnings []string

	provider := cfg.Model
	if idx := strings.Index(provider, "/"); idx >= 0 {
		provider = provider[:idx]
	}
	switch provider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			warnings = append(warnings, "Gemini API key not configured; set "+EnvPrefix+"GEMINI_API_KEY.")
		}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			warnings = append(warnings, "OpenAI API key not configured; set "+EnvPrefix+"OPENAI_API_KEY.")
		}
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			warnings = append(warnings, "Anthropic API key not configured; set "+EnvPrefix+"ANTHROPIC_API_KEY.")
		}
	default:
		warnings = append(warnings, fmt.Sprintf("Unknown model provider %q.", provider))
	}

	switch cfg.Recognizer {
	case "google":
	case "deepgram":
		if cfg.DeepgramAPIKey == "" {
			warnings = append(warnings, "Deepgram API key not configured; set "+EnvPrefix+"DEEPGRAM_API_KEY.")
		}
	default:
		warnings = append(warnings, fmt.Sprintf("Unknown recognizer %q; using google.", cfg.Recognizer))
		cfg.Recognizer = "google"
	}

	switch cfg.Synthesizer {
	case "google":
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			warnings = append(warnings, "OpenAI API key not configured; set "+EnvPrefix+"OPENAI_API_KEY.")
		}
	default:
		warnings = append(warnings, fmt.Sprintf("Unknown synthesizer %q; using google.", cfg.Synthesizer))
		cfg.Synthesizer = "google"
	}

	if _, err := time.ParseDuration(cfg.FlushDelay); err != nil {
		warnings = append(warnings, fmt.Sprintf("Invalid flush_delay %q; using default 2s.", cfg.FlushDelay))
	}
	if cfg.MinUtteranceBytes >= cfg.MaxUtteranceBytes {
		warnings = append(warnings, fmt.Sprintf(
			"min_utterance_bytes %d is not below max_utterance_bytes %d; every flush will hit the size trigger.",
			cfg.MinUtteranceBytes, cfg.MaxUtteranceBytes))
	}

	return warnings
}
