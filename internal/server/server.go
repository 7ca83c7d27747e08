// Package server exposes the document chat pipeline over HTTP: multipart
// upload, websocket chat streaming, summary, transcript export, and session
// control.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/doc-chat/internal/chat"
	"github.com/ziadkadry99/doc-chat/internal/config"
	"github.com/ziadkadry99/doc-chat/internal/session"
	"github.com/ziadkadry99/doc-chat/internal/summary"
)

// Server serves one document chat session over HTTP.
type Server struct {
	cfg        *config.Config
	sess       *session.Session
	engine     *chat.Engine
	summarizer *summary.Summarizer
	log        zerolog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server wired to the given session and pipeline.
func New(cfg *config.Config, sess *session.Session, engine *chat.Engine, summarizer *summary.Summarizer, log zerolog.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		sess:       sess,
		engine:     engine,
		summarizer: summarizer,
		log:        log,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// The websocket route manages its own lifetime; uploads of large
	// documents can take a while to embed.
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/documents", s.handleUpload)
		r.Get("/status", s.handleStatus)
		r.Post("/summary", s.handleSummary)
		r.Get("/transcript", s.handleTranscript)
		r.Post("/reset", s.handleReset)
		r.Post("/chat/clear", s.handleClearChat)
		r.Get("/chat", s.handleChatSocket)
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info().Str("addr", addr).Msg("docchat server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
