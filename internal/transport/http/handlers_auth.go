package httptransport

import (
	"encoding/json"
	"net/http"

	"certifier/internal/platform/middleware"
	"certifier/internal/transport/http/shared"
	dErrors "certifier/pkg/domain-errors"
)

type loginRequest struct {
	AccessKey string `json:"access_key"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// handleLogin checks the shared access key and issues a session token.
// Failed attempts are counted but never locked out: the operator may retry
// indefinitely.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid login request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	token, err := h.auth.Login(req.AccessKey)
	if err != nil {
		h.metrics.IncrementAuthFailures()
		h.logger.WarnContext(ctx, "access denied",
			"request_id", requestID,
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(middleware.GetSessionID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}
