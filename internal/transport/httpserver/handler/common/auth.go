package common

import (
	"net/http"

	"social-app-go/internal/transport/httpserver/middleware"
)

type authMeResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	writeJSON(w, http.StatusOK, authMeResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}
