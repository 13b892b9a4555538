// Package server provides the HTTP REST API for the job tracker.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/job-tracker/internal/cache"
	"github.com/jonathan/job-tracker/internal/credits"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/evaluation"
	"github.com/jonathan/job-tracker/internal/ingest"
	"github.com/jonathan/job-tracker/internal/llm"
	"github.com/jonathan/job-tracker/internal/server/ratelimit"
	"github.com/jonathan/job-tracker/internal/types"
)

// store is the subset of the database layer the handlers use directly.
// Score and AI mutations go through workflows instead, so aggregation and
// re-ranking stay in one place.
type store interface {
	CreatePosting(ctx context.Context, userID uuid.UUID, input *types.CreatePostingRequest, initialStatus string) (*types.JobPosting, error)
	GetPosting(ctx context.Context, userID, postingID uuid.UUID) (*types.JobPosting, error)
	ListPostings(ctx context.Context, userID uuid.UUID) ([]types.JobPosting, error)
	UpdatePostingStatus(ctx context.Context, userID, postingID uuid.UUID, newStatus string) (*types.JobPosting, error)
	DeletePosting(ctx context.Context, userID, postingID uuid.UUID) error
	ListExperiences(ctx context.Context, userID uuid.UUID) ([]types.Experience, error)
	CreateExperience(ctx context.Context, userID uuid.UUID, input *types.CreateExperienceRequest) (*types.Experience, error)
	DeleteExperience(ctx context.Context, userID, experienceID uuid.UUID) error
	Ledger(ctx context.Context, userID uuid.UUID) (credits.Ledger, error)
}

// workflows is the orchestration surface for everything that touches scores,
// priorities, or credits. Implemented by evaluation.Orchestrator.
type workflows interface {
	EvaluateFit(ctx context.Context, userID, postingID uuid.UUID) (*evaluation.FitResult, error)
	GenerateResume(ctx context.Context, userID, postingID uuid.UUID, req *types.GenerateResumeRequest) (*evaluation.ResumeResult, error)
	AnalyzeJob(ctx context.Context, userID, postingID uuid.UUID, url string) (*evaluation.AnalysisResult, error)
	ApplyCriteriaRatings(ctx context.Context, userID, postingID uuid.UUID, criteria []types.CriterionScore) (*types.JobPosting, error)
	ApplyCompetencyRatings(ctx context.Context, userID, postingID uuid.UUID, competencies []types.KeyCompetency) (*types.JobPosting, error)
	OverridePriority(ctx context.Context, userID, postingID uuid.UUID, priority int) error
	RecomputeUserPriorities(ctx context.Context, userID uuid.UUID) error
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	db          store
	workflows   workflows
	board       *cache.Board
	rateLimiter *ratelimit.Limiter
	log         *zap.Logger

	closeDB  func()
	closeLLM func() error
}

// Config holds server configuration.
type Config struct {
	Port        int
	DatabaseURL string
	RedisURL    string
	APIKey      string
	UseBrowser  bool
}

// New creates a new server instance with real backing services.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	board := cache.NewBoard(nil)
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, board caching disabled", zap.Error(err))
		} else {
			board = cache.NewBoard(rdb)
		}
	}

	fetchOpts := ingest.DefaultOptions()
	fetchOpts.UseBrowser = cfg.UseBrowser
	fetch := func(ctx context.Context, url string) (*ingest.Posting, error) {
		return ingest.FetchPosting(ctx, url, fetchOpts)
	}

	gate := credits.NewGate(database, log)
	orchestrator := evaluation.New(database, gate, llm.NewEvaluator(client), fetch, log)

	s := &Server{
		db:        database,
		workflows: orchestrator,
		board:     board,
		log:       log,
		closeDB:   database.Close,
		closeLLM:  client.Close,
	}
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router. Paths are user-scoped; identity comes from the
// path rather than an auth layer.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Posting CRUD and board
	mux.HandleFunc("POST /users/{user_id}/postings", s.handleCreatePosting)
	mux.HandleFunc("GET /users/{user_id}/postings", s.handleListPostings)
	mux.HandleFunc("GET /users/{user_id}/postings/{id}", s.handleGetPosting)
	mux.HandleFunc("PATCH /users/{user_id}/postings/{id}/status", s.handleUpdateStatus)
	mux.HandleFunc("DELETE /users/{user_id}/postings/{id}", s.handleDeletePosting)

	// Score entry and priority
	mux.HandleFunc("PUT /users/{user_id}/postings/{id}/criteria-scores", s.handleRateCriteria)
	mux.HandleFunc("PUT /users/{user_id}/postings/{id}/competency-scores", s.handleRateCompetencies)
	mux.HandleFunc("PUT /users/{user_id}/postings/{id}/priority", s.handleOverridePriority)
	mux.HandleFunc("POST /users/{user_id}/postings/recompute", s.handleRecomputePriorities)

	// Credit-gated AI operations
	mux.HandleFunc("POST /users/{user_id}/postings/{id}/evaluate-fit", s.handleEvaluateFit)
	mux.HandleFunc("POST /users/{user_id}/postings/{id}/analyze", s.handleAnalyzeJob)
	mux.HandleFunc("POST /users/{user_id}/postings/{id}/resume", s.handleGenerateResume)

	// Experience bank
	mux.HandleFunc("GET /users/{user_id}/experiences", s.handleListExperiences)
	mux.HandleFunc("POST /users/{user_id}/experiences", s.handleCreateExperience)
	mux.HandleFunc("DELETE /users/{user_id}/experiences/{id}", s.handleDeleteExperience)

	// Credit ledger
	mux.HandleFunc("GET /users/{user_id}/credits", s.handleGetLedger)

	return mux
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.closeLLM != nil {
		_ = s.closeLLM()
	}
	if s.closeDB != nil {
		s.closeDB()
	}
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request. Uses the
// IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.log.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Int("remaining", info.Remaining))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
