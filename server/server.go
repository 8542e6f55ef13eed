// Package server exposes the template engine and critic registry over
// HTTP: render, validate, evaluate, plus health and critic listing.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/verdict/ai/provider"
	"github.com/teranos/verdict/config"
	"github.com/teranos/verdict/critic"
	"github.com/teranos/verdict/template"
)

// VerdictServer serves the HTTP API.
type VerdictServer struct {
	cfg       *config.Config
	engine    *template.Engine
	store     *critic.Store
	evaluator *critic.Evaluator
	client    provider.Client // nil when no provider is configured
	logger    *zap.SugaredLogger

	httpServer *http.Server
}

// NewVerdictServer wires a server. client may be nil; the evaluate
// endpoint then answers 503 instead of failing at startup, so render
// and validate remain usable without provider credentials.
func NewVerdictServer(cfg *config.Config, engine *template.Engine, store *critic.Store, client provider.Client, logger *zap.SugaredLogger) *VerdictServer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	s := &VerdictServer{
		cfg:    cfg,
		engine: engine,
		store:  store,
		client: client,
		logger: logger,
	}
	if client != nil {
		s.evaluator = critic.NewEvaluator(engine, client, logger)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // evaluate fans out to an LLM per critic
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Routes builds the HTTP handler with logging and request-ID middleware
// applied to every route.
func (s *VerdictServer) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/api/v1/critics", s.HandleCritics)
	mux.HandleFunc("/api/v1/render", s.HandleRender)
	mux.HandleFunc("/api/v1/validate", s.HandleValidate)
	mux.HandleFunc("/api/v1/evaluate", s.HandleEvaluate)

	return s.requestIDMiddleware(s.loggingMiddleware(mux))
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *VerdictServer) Start() error {
	s.logger.Infow("verdict server listening",
		"addr", s.httpServer.Addr,
		"critics", s.store.Registry().Len(),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *VerdictServer) Shutdown(ctx context.Context) error {
	s.logger.Infow("verdict server shutting down")
	return s.httpServer.Shutdown(ctx)
}
