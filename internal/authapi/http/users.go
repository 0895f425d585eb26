package http

import (
	"net/http"

	"github.com/angularauth/authapi/internal/authapi/domain"
	"github.com/angularauth/authapi/internal/authapi/service"
	"github.com/angularauth/authapi/pkg/httpx"
	"github.com/angularauth/authapi/pkg/slogx"
)

// UsersHandler serves GET /v1/users
//
// Returns the redacted projection of every account. Password hashes and
// token material never leave the store through this endpoint.
type UsersHandler struct {
	UserService *service.UserService
}

func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, err := h.UserService.ListUsers(ctx)
	if err != nil {
		log.Error("user listing failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, domain.OK(users))
}
