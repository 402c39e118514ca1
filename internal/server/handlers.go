package server

import (
	"net/http"

	"github.com/pbv-society/societyhub/internal/middleware"
	"github.com/pbv-society/societyhub/internal/service"
)

func (s *Server) handleListPending(w http.ResponseWriter, r *http.Request) {
	list, err := s.approval.ListPending(r.Context(), middleware.BearerToken(r))
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	req, err := decode[service.ApprovalRequest](r)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	result, err := s.approval.Decide(r.Context(), middleware.BearerToken(r), req)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	req, err := decode[struct {
		Email string `json:"email"`
	}](r)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	result, err := s.approval.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, err := decode[service.RegisterRequest](r)
	if err != nil {
		writeKindError(w, err)
		return
	}

	result, err := s.auth.Register(r.Context(), req)
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := decode[service.LoginRequest](r)
	if err != nil {
		writeKindError(w, err)
		return
	}

	result, err := s.auth.Login(r.Context(), req)
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	req, err := decode[service.ChangePasswordRequest](r)
	if err != nil {
		writeKindError(w, err)
		return
	}

	result, err := s.auth.ChangePassword(r.Context(), req)
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := s.notifications.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	err := s.notifications.MarkRead(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	err := s.notifications.MarkAllRead(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}
