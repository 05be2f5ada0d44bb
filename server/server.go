// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/poiesic/minuted/answer"
	"github.com/poiesic/minuted/ingestion"
	"github.com/poiesic/minuted/storage"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8080"

// Server exposes the HTTP API: meeting upload and lookup, job status,
// and grounded question answering with optional SSE streaming.
type Server struct {
	addr       string
	router     *mux.Router
	httpServer *http.Server
	pipeline   *ingestion.Pipeline
	answerer   *answer.Answerer
	meetings   storage.MeetingRepository
	jobs       storage.JobRepository
	limiter    *fixedWindowLimiter
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) error {
		if addr == "" {
			return fmt.Errorf("listen address must not be empty")
		}
		s.addr = addr
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		s.logger = logger.With("component", "http-server")
		return nil
	}
}

// WithAskRateLimit sets the per-client ask rate limit.
func WithAskRateLimit(limit int, window time.Duration) Option {
	return func(s *Server) error {
		if limit < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidRateLimit, limit)
		}
		if window <= 0 {
			window = defaultAskWindow
		}
		s.limiter = newFixedWindowLimiter(limit, window)
		return nil
	}
}

// New creates a configured Server. It does not start listening; call
// Start for that, or serve s.Handler() yourself.
func New(pipeline *ingestion.Pipeline, answerer *answer.Answerer, meetings storage.MeetingRepository, jobs storage.JobRepository, opts ...Option) (*Server, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if answerer == nil {
		return nil, ErrAnswererRequired
	}
	if meetings == nil {
		return nil, ErrMeetingRepositoryRequired
	}
	if jobs == nil {
		return nil, ErrJobRepositoryRequired
	}

	s := &Server{
		addr:     DefaultAddr,
		pipeline: pipeline,
		answerer: answerer,
		meetings: meetings,
		jobs:     jobs,
		limiter:  newFixedWindowLimiter(defaultAskLimit, defaultAskWindow),
		logger:   slog.Default().With("component", "http-server"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.recoverPanics, s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/meetings", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/meetings", s.handleListMeetings).Methods(http.MethodGet)
	api.HandleFunc("/meetings/{id}", s.handleGetMeeting).Methods(http.MethodGet)
	api.HandleFunc("/meetings/{id}/stats", s.handleMeetingStats).Methods(http.MethodGet)
	api.HandleFunc("/jobs/{id}", s.handleGetJob).Methods(http.MethodGet)

	ask := api.PathPrefix("/meetings/{id}/ask").Subrouter()
	ask.Use(s.rateLimitAsk)
	ask.HandleFunc("", s.handleAsk).Methods(http.MethodPost)

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	return r
}

// Handler returns the routed handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens and serves until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	return s.httpServer.Shutdown(ctx)
}
