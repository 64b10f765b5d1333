// Package server wires configuration, providers, and handlers into one
// HTTP handler.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/andre-ai/tutor/pkg/chat"
	"github.com/andre-ai/tutor/pkg/tutor/config"
	"github.com/andre-ai/tutor/pkg/tutor/filter"
	"github.com/andre-ai/tutor/pkg/tutor/handlers"
	"github.com/andre-ai/tutor/pkg/tutor/live"
	"github.com/andre-ai/tutor/pkg/tutor/mw"
	"github.com/andre-ai/tutor/pkg/tutor/pipeline"
	"github.com/andre-ai/tutor/pkg/tutor/store"
	"github.com/andre-ai/tutor/pkg/voice/stt"
	"github.com/andre-ai/tutor/pkg/voice/tts"
)

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	mux    *http.ServeMux
	store  *store.Store
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}

	chatProvider, err := newChatProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sessionStore := store.New(store.Config{
		TTL:      cfg.SessionTTL,
		MaxTurns: cfg.SessionMaxTurns,
	})

	p := pipeline.New(
		stt.NewOpenAIWithClient(cfg.OpenAIAPIKey, "", httpClient),
		tts.NewOpenAIWithClient(cfg.OpenAIAPIKey, "", httpClient),
		chatProvider,
		filter.New(nil, cfg.MinTranscriptLength),
		nil,
		pipeline.Options{
			ChatModel:     cfg.ChatModel,
			STTModel:      cfg.STTModel,
			STTLanguage:   cfg.STTLanguage,
			STTPrompt:     cfg.STTPrompt,
			STTFormat:     cfg.STTFormat,
			TTSModel:      cfg.TTSModel,
			TTSVoice:      cfg.TTSVoice,
			TTSSpeed:      cfg.TTSSpeed,
			Temperature:   cfg.Temperature,
			MaxTokens:     cfg.MaxTokens,
			ContextWindow: cfg.ContextWindow,
		},
		logger,
	)

	s := &Server{
		cfg:    cfg,
		logger: logger,
		mux:    http.NewServeMux(),
		store:  sessionStore,
	}
	s.routes(live.NewOrchestrator(sessionStore, p, logger))
	return s, nil
}

func newChatProvider(ctx context.Context, cfg config.Config) (chat.Provider, error) {
	switch cfg.ChatProvider {
	case config.ChatProviderGemini:
		provider, err := chat.NewGemini(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("init gemini: %w", err)
		}
		return provider, nil
	default:
		return chat.NewOpenAI(cfg.OpenAIAPIKey), nil
	}
}

func (s *Server) routes(orchestrator *live.Orchestrator) {
	s.mux.Handle("GET /api/health", handlers.HealthHandler{})
	s.mux.Handle("GET /api/exercises/by-age/{age}", handlers.ExercisesByAgeHandler{})
	s.mux.Handle("GET /api/exercises/{id}", handlers.ExerciseByIDHandler{})

	s.mux.Handle("/ws", live.Handler{
		Orchestrator:    orchestrator,
		Logger:          s.logger,
		MaxMessageBytes: s.cfg.MaxMessageBytes,
	})
}

// StartSweep begins periodic eviction of expired sessions.
func (s *Server) StartSweep(ctx context.Context) {
	s.store.StartSweep(ctx, s.cfg.SweepInterval, s.logger)
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = mw.CORS(s.cfg, h)
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, h)
	h = mw.RequestID(h)
	return h
}
