package http

import (
	"encoding/json"
	"net/http"

	"github.com/angularauth/authapi/internal/authapi/domain"
	"github.com/angularauth/authapi/pkg/httpx"
)

const msgServerError = "Something went wrong"

// decodeJSON reads a JSON request body into dst. On failure it writes the
// standard invalid-request envelope and reports false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, domain.Fail("Invalid request body"))
		return false
	}
	return true
}

func writeInvalidRequest(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusBadRequest, domain.Fail("Invalid Request"))
}

func writeServerError(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusInternalServerError, domain.Fail(msgServerError))
}
