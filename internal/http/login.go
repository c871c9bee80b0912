package http

import (
	"encoding/json"
	"net/http"

	"github.com/openlots/lendpool/internal/domain"
	"github.com/openlots/lendpool/internal/service"
	"github.com/openlots/lendpool/pkg/httpx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleBorrower godoc
//
//	@Summary		Borrower login
//	@Description	Verifies borrower credentials. On success the prior token for this account is revoked, a fresh one is returned, and the session cookie is rebound.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"credentials"
//	@Success		200		{object}	AuthResponse
//	@Failure		401		{object}	ErrorResponse	"invalid credentials"
//	@Router			/borrowers/login [post].
func (h *LoginHandler) HandleBorrower(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.RoleBorrower)
}

// HandleInvestor godoc
//
//	@Summary		Investor login
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"credentials"
//	@Success		200		{object}	AuthResponse
//	@Failure		401		{object}	ErrorResponse	"invalid credentials"
//	@Router			/investors/login [post].
func (h *LoginHandler) HandleInvestor(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.RoleInvestor)
}

func (h *LoginHandler) login(w http.ResponseWriter, r *http.Request, role domain.Role) {
	var in loginRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	result, err := h.AuthService.Login(r.Context(), role, in.Email, in.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeAuthResponse(w, http.StatusOK, result)
}
