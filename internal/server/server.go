// Package server exposes the amortization engine over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/emi-calculator/internal/cache"
	"github.com/iwvelando/emi-calculator/pkg/amortization"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Options carries the collaborators of the HTTP handler. Only Config is required.
type Options struct {
	Config      *Config
	Cache       cache.Cache
	RateLimiter *RateLimiter
	Version     string
}

type handler struct {
	logger      *zap.Logger
	engine      *amortization.Engine
	cache       cache.Cache
	maxBodySize int64
	calculator  CalculatorConfig
	version     string
}

// NewHandler constructs the HTTP handler that serves the EMI API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		engine:      amortization.NewEngine(logger),
		cache:       opts.Cache,
		maxBodySize: cfg.BodySizeBytes(),
		calculator:  cfg.Calculator,
		version:     trimmedVersion,
	}

	mux := http.NewServeMux()

	// Installment summary for one loan
	mux.HandleFunc("/api/emi", h.handleEMI)

	// Installment summary plus the paginated amortization table
	mux.HandleFunc("/api/schedule", h.handleSchedule)

	mux.HandleFunc("/api/version", h.handleVersion)
	mux.HandleFunc("/healthz", h.handleHealth)

	var root http.Handler = mux
	root = withRateLimit(opts.RateLimiter, logger, root)
	root = withRequestLogging(logger, root)
	return root
}

// OpenCache builds the response cache selected by the configuration. It
// returns nil when caching is disabled.
func (c *Config) OpenCache(logger *zap.Logger) cache.Cache {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.RedisAddress == "" {
		return cache.NewMemory(c.Cache.MaxEntries, c.cacheTTL)
	}
	return cache.NewRedis(logger, &redis.Options{
		Addr:     c.Cache.RedisAddress,
		Password: c.Cache.RedisPassword,
		DB:       c.Cache.RedisDB,
	}, c.cacheTTL)
}

// NewHTTPServer wraps handler in an http.Server with the timeouts used in production.
func NewHTTPServer(cfg *Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if p, ok := h.cache.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			h.logger.Warn("cache health check failed",
				zap.String("op", "server.handleHealth"),
				zap.Error(err),
			)
			writeJSON(h.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"cache":  err.Error(),
			})
			return
		}
	}

	writeJSON(h.logger, w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// decodeBody reads a size-limited JSON request body into dst and reports
// the HTTP status to use on failure.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) (int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds limit of %d bytes", h.maxBodySize)
		}
		return http.StatusBadRequest, fmt.Errorf("failed to decode request: %v", err)
	}
	return http.StatusOK, nil
}

// respondError logs a failed request and writes its JSON error body. Validation
// failures become 400 responses naming the offending request field.
func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, err error, op string) {
	resp := errorResponse{Error: err.Error()}

	var validationErr *amortization.ValidationError
	if errors.As(err, &validationErr) {
		status = http.StatusBadRequest
		resp.Field = requestField(validationErr.Field)
	}

	fields := []zap.Field{
		zap.String("op", op),
		zap.String("requestId", RequestID(r.Context())),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Debug("request rejected", fields...)
	}

	writeJSON(h.logger, w, status, resp)
}

// requestField maps engine field names onto the names clients send.
func requestField(field string) string {
	switch field {
	case amortization.FieldAnnualRate:
		return "interestRate"
	case amortization.FieldPrincipal:
		return amortization.FieldLoanAmount
	default:
		return field
	}
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func writeRawJSON(logger *zap.Logger, w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logger.Error("failed to write JSON response", zap.Error(err))
	}
}
