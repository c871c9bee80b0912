package http

import (
	"net/http"

	"github.com/openlots/lendpool/internal/service"
	"github.com/openlots/lendpool/pkg/httpx"
)

type LogoutHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Logout
//	@Description	Revokes the presented bearer token, if any, and destroys the session. Idempotent.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]bool
//	@Router			/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.Logout(r.Context(), bearerToken(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}
