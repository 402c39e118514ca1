// Package server exposes the portal's JSON HTTP surface.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pbv-society/societyhub/internal/apperr"
	"github.com/pbv-society/societyhub/internal/auth"
	"github.com/pbv-society/societyhub/internal/middleware"
	"github.com/pbv-society/societyhub/internal/service"
)

// Server wires the portal services to HTTP routes.
type Server struct {
	approval      *service.ApprovalService
	auth          *service.AuthService
	notifications *service.NotificationService
	jwtManager    *auth.JWTManager
}

// New creates a Server over the given services.
func New(approval *service.ApprovalService, authSvc *service.AuthService, notifications *service.NotificationService, jwtManager *auth.JWTManager) *Server {
	return &Server{
		approval:      approval,
		auth:          authSvc,
		notifications: notifications,
		jwtManager:    jwtManager,
	}
}

// Handler builds the full route table with CORS, logging, and metrics
// applied to every request.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Credential-issuance workflow. The bearer check lives inside the
	// service so that all failures surface per its uniform contract.
	mux.HandleFunc("GET /api/mc/pending", s.handleListPending)
	mux.HandleFunc("POST /api/mc/approve", s.handleApprove)
	mux.HandleFunc("POST /api/mc/forgot-password", s.handleForgotPassword)

	// Member-facing endpoints
	mux.HandleFunc("POST /api/mc/register", s.handleRegister)
	mux.HandleFunc("POST /api/mc/login", s.handleLogin)
	mux.HandleFunc("POST /api/mc/change-password", s.handleChangePassword)

	// Operator notifications, bearer-gated
	mux.Handle("GET /api/notifications",
		middleware.RequireAuth(s.jwtManager, http.HandlerFunc(s.handleListNotifications)))
	mux.Handle("POST /api/notifications/{id}/read",
		middleware.RequireAuth(s.jwtManager, http.HandlerFunc(s.handleMarkRead)))
	mux.Handle("POST /api/notifications/read-all",
		middleware.RequireAuth(s.jwtManager, http.HandlerFunc(s.handleMarkAllRead)))

	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.Logging(middleware.Metrics(middleware.CORS(mux)))
}

// writeJSON writes a 200 response with a JSON body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeWorkflowError converts any workflow failure to the uniform
// 500 {"error": msg} shape the portal frontend expects.
func writeWorkflowError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	if encErr := json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}); encErr != nil {
		slog.Error("Failed to encode error response", "error", encErr)
	}
}

// writeKindError maps an error kind to an HTTP status. Used by the
// member-facing endpoints, which are not bound by the workflow's
// uniform-500 contract.
func writeKindError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.Unauthorized:
		status = http.StatusUnauthorized
	case apperr.Forbidden:
		status = http.StatusForbidden
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.InvalidState:
		status = http.StatusConflict
	case apperr.ValidationError:
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}); encErr != nil {
		slog.Error("Failed to encode error response", "error", encErr)
	}
}

// decode parses a JSON request body.
func decode[T any](r *http.Request) (*T, error) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return nil, apperr.Wrap(apperr.ValidationError, "invalid request body", err)
	}
	return &v, nil
}
