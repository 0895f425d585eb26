package http

import (
	"net/http"
	"strings"

	"github.com/angularauth/authapi/internal/authapi/service"
	"github.com/angularauth/authapi/pkg/httpx"
	"github.com/angularauth/authapi/pkg/slogx"
)

// LoginHandler serves POST /v1/auth/login
type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeInvalidRequest(w)
		return
	}

	resp, err := h.AuthService.Login(ctx, req.Username, req.Password)
	if err != nil {
		log.Error("login failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, resp)
}
