package http

import (
	"net/http"
	"strings"

	"github.com/angularauth/authapi/internal/authapi/service"
	"github.com/angularauth/authapi/pkg/httpx"
	"github.com/angularauth/authapi/pkg/slogx"
)

// RegisterHandler serves POST /v1/auth/register
type RegisterHandler struct {
	AuthService *service.AuthService
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeInvalidRequest(w)
		return
	}

	// Role is never client-assignable; new accounts always start as User.
	resp, err := h.AuthService.Register(ctx, service.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		log.Error("registration failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
