package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/youmna-rabie/tebex-gateway/internal/config"
	"github.com/youmna-rabie/tebex-gateway/internal/event"
	"github.com/youmna-rabie/tebex-gateway/internal/types"
	"github.com/youmna-rabie/tebex-gateway/pkg/webhook"
	"github.com/youmna-rabie/tebex-gateway/pkg/webhook/webhookhttp"
)

const (
	adminPageSize   = 50
	shutdownTimeout = 10 * time.Second

	outcomeBodyTooLarge = "body_too_large"
	outcomeBodyUnread   = "body_unread"
)

// Server is the HTTP adapter in front of a webhook.Gateway. It records every
// answered request in the delivery log and exposes health, admin and metrics
// endpoints.
type Server struct {
	cfg     *config.Config
	gateway *webhook.Gateway
	store   event.Store
	metrics http.Handler
	router  chi.Router
	logger  *slog.Logger
}

// NewServer creates a Server wired with the given dependencies. metrics may
// be nil, in which case /metrics is not mounted.
func NewServer(
	cfg *config.Config,
	gw *webhook.Gateway,
	store event.Store,
	metrics http.Handler,
	logger *slog.Logger,
) *Server {
	s := &Server{
		cfg:     cfg,
		gateway: gw,
		store:   store,
		metrics: metrics,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logging(logger))
	r.Use(Recovery(logger))

	// Mounted for every method so the adapter answers non-POST requests
	// in the same plain-text form as the rest of the webhook replies.
	r.Handle(gw.EndpointPath(), webhookhttp.Handler(gw,
		webhookhttp.WithOriginHeader(cfg.Webhook.OriginHeader),
		webhookhttp.WithSignatureHeader(cfg.Webhook.SignatureHeader),
		webhookhttp.WithMaxBodyBytes(cfg.Webhook.MaxBodyBytes),
		webhookhttp.WithLogger(logger),
		webhookhttp.WithResultFunc(s.recordResult),
	))
	r.Get("/health", s.handleHealth)
	r.Get("/admin/deliveries", s.handleAdminDeliveries)
	r.Get("/admin/deliveries/{id}", s.handleAdminDelivery)
	r.Get("/admin/kinds", s.handleAdminKinds)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured host:port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr, "endpoint", s.gateway.EndpointPath())
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info("shutting down gracefully")
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	s.logger.Info("server stopped")
	return nil
}

// outcomeLabel names the result in the delivery log. Requests refused
// before the gateway ran have no pipeline outcome.
func outcomeLabel(res webhook.Result) string {
	switch {
	case res.Outcome != 0:
		return res.Outcome.String()
	case errors.Is(res.Err, webhookhttp.ErrBodyTooLarge):
		return outcomeBodyTooLarge
	default:
		return outcomeBodyUnread
	}
}

// recordResult is the webhookhttp.ResultFunc that feeds the delivery log.
func (s *Server) recordResult(r *http.Request, req webhook.Request, res webhook.Result) {
	d := types.Delivery{
		Outcome:    outcomeLabel(res),
		StatusCode: res.StatusCode,
		Origin:     req.Origin,
	}
	if res.Envelope != nil {
		d.EventID = res.Envelope.ID
		d.Type = res.Envelope.Type
	}
	s.record(r, d)
}

// record stores d in the delivery log. A failed save never changes the
// response already decided by the gateway.
func (s *Server) record(r *http.Request, d types.Delivery) {
	d.ID = uuid.New()
	d.RequestID = RequestIDFromContext(r.Context())
	d.Timestamp = time.Now().UTC()
	if err := s.store.Save(d); err != nil {
		s.logger.Error("failed to save delivery", "error", err, "delivery_id", d.ID)
	}
}

// handleHealth responds to GET /health with a simple liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAdminDeliveries responds to GET /admin/deliveries with recent
// deliveries, newest first. Supports ?limit= and ?offset=.
func (s *Server) handleAdminDeliveries(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", adminPageSize)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	deliveries, err := s.store.List(limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list deliveries",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deliveries": deliveries,
		"count":      len(deliveries),
		"total":      s.store.Count(),
	})
}

// handleAdminDelivery responds to GET /admin/deliveries/{id} with one
// delivery from the log.
func (s *Server) handleAdminDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid delivery id"})
		return
	}

	d, err := s.store.Get(id)
	if errors.Is(err, event.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to get delivery",
		})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type kindInfo struct {
	Kind        string `json:"kind"`
	Subscribers int    `json:"subscribers"`
	Deliverable bool   `json:"deliverable"`
}

// handleAdminKinds responds to GET /admin/kinds with every recognised event
// kind and its subscriber count.
func (s *Server) handleAdminKinds(w http.ResponseWriter, _ *http.Request) {
	kinds := webhook.AllEventKinds()
	out := make([]kindInfo, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, kindInfo{
			Kind:        k.String(),
			Subscribers: s.gateway.Subscribers(k),
			Deliverable: k.Deliverable(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"kinds": out,
		"count": len(out),
	})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
