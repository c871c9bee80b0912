package http

import (
	"net/http"

	"github.com/openlots/lendpool/pkg/httpx"
)

type MeHandler struct{}

// ServeHTTP godoc
//
//	@Summary		Current principal
//	@Description	Returns the authenticated identity resolved from the bearer token or session.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	MeResponse
//	@Failure		401	{object}	ErrorResponse	"not authenticated"
//	@Router			/auth/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(r.Context())
	if !ok {
		writeAuthRequired(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, MeResponse{
		Authenticated: true,
		ID:            p.ID,
		Role:          string(p.Role),
		Name:          p.Name,
		Email:         p.Email,
	})
}
