package http

import (
	"net/http"

	"github.com/openlots/lendpool/internal/domain"
	"github.com/openlots/lendpool/internal/service"
	"github.com/openlots/lendpool/pkg/httpx"
)

type ValidateEmailHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Email availability check
//	@Description	Reports whether an email is free to register. A role query parameter narrows the check to one account table; without it both must be free.
//	@Tags			Auth
//	@Produce		json
//	@Param			email	query		string	true	"email to check"
//	@Param			role	query		string	false	"borrower or investor"
//	@Success		200		{object}	map[string]bool
//	@Failure		400		{object}	ErrorResponse
//	@Router			/validate/email [get].
func (h *ValidateEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	role := domain.Role(r.URL.Query().Get("role"))
	if role != "" && !role.Valid() {
		httpx.WriteError(w, http.StatusBadRequest, "Role must be borrower or investor")
		return
	}

	available, err := h.AuthService.EmailAvailable(r.Context(), r.URL.Query().Get("email"), role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"available": available})
}
