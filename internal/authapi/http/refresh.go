package http

import (
	"errors"
	"net/http"

	"github.com/angularauth/authapi/internal/authapi/service"
	"github.com/angularauth/authapi/pkg/httpx"
	"github.com/angularauth/authapi/pkg/slogx"
)

// RefreshHandler serves POST /v1/auth/refresh
type RefreshHandler struct {
	AuthService *service.AuthService
}

type refreshRequest struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.AccessToken == "" || req.RefreshToken == "" {
		writeInvalidRequest(w)
		return
	}

	resp, err := h.AuthService.Refresh(ctx, req.AccessToken, req.RefreshToken)
	if err != nil {
		// A structurally broken access token (bad signature, wrong alg,
		// malformed) is the caller's fault, not a server failure.
		if errors.Is(err, service.ErrInvalidToken) {
			writeInvalidRequest(w)
			return
		}
		log.Error("token refresh failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, resp)
}
