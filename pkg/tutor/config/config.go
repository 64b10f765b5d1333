// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ChatProviderName selects the reply generation backend.
type ChatProviderName string

const (
	ChatProviderOpenAI ChatProviderName = "openai"
	ChatProviderGemini ChatProviderName = "gemini"
)

type Config struct {
	Addr string

	// Provider credentials. OpenAI is always required for transcription
	// and synthesis; Gemini only when selected for chat.
	OpenAIAPIKey string
	GeminiAPIKey string

	ChatProvider ChatProviderName
	ChatModel    string
	Temperature  float64
	MaxTokens    int

	STTModel    string
	STTLanguage string
	STTPrompt   string
	STTFormat   string

	TTSModel string
	TTSVoice string
	TTSSpeed float64

	// Conversation shaping.
	ContextWindow       int
	MinTranscriptLength int

	// Session cache.
	SessionTTL      time.Duration
	SessionMaxTurns int
	SweepInterval   time.Duration

	// Websocket limits. Inbound frames carry base64 audio, so the cap is
	// generous.
	MaxMessageBytes int64

	// CORS
	CORSAllowedOrigins map[string]struct{} // empty => disabled

	// Operational defaults
	ReadHeaderTimeout   time.Duration
	ShutdownGracePeriod time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                envOr("ANDRE_ADDR", ":5002"),
		OpenAIAPIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		GeminiAPIKey:        strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		ChatProvider:        ChatProviderName(envOr("ANDRE_CHAT_PROVIDER", string(ChatProviderOpenAI))),
		ChatModel:           envOr("ANDRE_CHAT_MODEL", ""),
		Temperature:         envFloat64Or("ANDRE_TEMPERATURE", 0.7),
		MaxTokens:           envIntOr("ANDRE_MAX_TOKENS", 400),
		STTModel:            envOr("ANDRE_STT_MODEL", "whisper-1"),
		STTLanguage:         envOr("ANDRE_STT_LANGUAGE", "fr"),
		STTPrompt:           envOr("ANDRE_STT_PROMPT", "Conversation en français"),
		STTFormat:           envOr("ANDRE_STT_FORMAT", "wav"),
		TTSModel:            envOr("ANDRE_TTS_MODEL", "tts-1"),
		TTSVoice:            envOr("ANDRE_TTS_VOICE", "ash"),
		TTSSpeed:            envFloat64Or("ANDRE_TTS_SPEED", 0.9),
		ContextWindow:       envIntOr("ANDRE_CONTEXT_WINDOW", 10),
		MinTranscriptLength: envIntOr("ANDRE_MIN_TRANSCRIPT_LENGTH", 2),
		SessionTTL:          envDurationOr("ANDRE_SESSION_TTL", 2*time.Hour),
		SessionMaxTurns:     envIntOr("ANDRE_SESSION_MAX_TURNS", 50),
		SweepInterval:       envDurationOr("ANDRE_SESSION_SWEEP_INTERVAL", time.Hour),
		MaxMessageBytes:     envInt64Or("ANDRE_MAX_MESSAGE_BYTES", 16<<20), // 16 MiB
		CORSAllowedOrigins:  make(map[string]struct{}),
		ReadHeaderTimeout:   envDurationOr("ANDRE_READ_HEADER_TIMEOUT", 10*time.Second),
		ShutdownGracePeriod: envDurationOr("ANDRE_SHUTDOWN_GRACE_PERIOD", 30*time.Second),
	}

	for _, origin := range splitCSV(os.Getenv("ANDRE_CORS_ORIGINS")) {
		cfg.CORSAllowedOrigins[origin] = struct{}{}
	}

	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY must be set")
	}
	switch cfg.ChatProvider {
	case ChatProviderOpenAI:
	case ChatProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return Config{}, fmt.Errorf("GEMINI_API_KEY must be set when ANDRE_CHAT_PROVIDER=gemini")
		}
	default:
		return Config{}, fmt.Errorf("ANDRE_CHAT_PROVIDER must be one of openai|gemini")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return Config{}, fmt.Errorf("ANDRE_TEMPERATURE must be in [0, 2]")
	}
	if cfg.MaxTokens <= 0 {
		return Config{}, fmt.Errorf("ANDRE_MAX_TOKENS must be > 0")
	}
	if cfg.TTSSpeed < 0.25 || cfg.TTSSpeed > 4 {
		return Config{}, fmt.Errorf("ANDRE_TTS_SPEED must be in [0.25, 4]")
	}
	if cfg.ContextWindow <= 0 {
		return Config{}, fmt.Errorf("ANDRE_CONTEXT_WINDOW must be > 0")
	}
	if cfg.MinTranscriptLength <= 0 {
		return Config{}, fmt.Errorf("ANDRE_MIN_TRANSCRIPT_LENGTH must be > 0")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("ANDRE_SESSION_TTL must be > 0")
	}
	if cfg.SessionMaxTurns <= 1 {
		return Config{}, fmt.Errorf("ANDRE_SESSION_MAX_TURNS must be > 1")
	}
	if cfg.SweepInterval <= 0 {
		return Config{}, fmt.Errorf("ANDRE_SESSION_SWEEP_INTERVAL must be > 0")
	}
	if cfg.MaxMessageBytes <= 0 {
		return Config{}, fmt.Errorf("ANDRE_MAX_MESSAGE_BYTES must be > 0")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		return Config{}, fmt.Errorf("ANDRE_READ_HEADER_TIMEOUT must be > 0")
	}
	if cfg.ShutdownGracePeriod <= 0 {
		return Config{}, fmt.Errorf("ANDRE_SHUTDOWN_GRACE_PERIOD must be > 0")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envInt64Or(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envIntOr(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func envFloat64Or(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return n
}

func envDurationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
