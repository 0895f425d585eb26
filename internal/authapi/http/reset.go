package http

import (
	"net/http"
	"strings"

	"github.com/angularauth/authapi/internal/authapi/service"
	"github.com/angularauth/authapi/pkg/httpx"
	"github.com/angularauth/authapi/pkg/slogx"
)

// ResetRequestHandler serves POST /v1/auth/reset/request
type ResetRequestHandler struct {
	AuthService *service.AuthService
}

type resetRequestBody struct {
	Email string `json:"email"`
}

func (h *ResetRequestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req resetRequestBody
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		writeInvalidRequest(w)
		return
	}

	resp, err := h.AuthService.RequestPasswordReset(ctx, req.Email)
	if err != nil {
		log.Error("reset request failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// ResetCompleteHandler serves POST /v1/auth/reset/complete
type ResetCompleteHandler struct {
	AuthService *service.AuthService
}

type resetCompleteBody struct {
	Email       string `json:"email"`
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
}

func (h *ResetCompleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req resetCompleteBody
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.ResetToken == "" || req.NewPassword == "" {
		writeInvalidRequest(w)
		return
	}

	resp, err := h.AuthService.CompletePasswordReset(ctx, req.Email, req.ResetToken, req.NewPassword)
	if err != nil {
		log.Error("reset completion failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
