package http

import (
	"encoding/json"
	"net/http"

	"github.com/openlots/lendpool/internal/service"
	"github.com/openlots/lendpool/pkg/httpx"
)

type SignupHandler struct {
	AuthService *service.AuthService
}

// HandleBorrower godoc
//
//	@Summary		Borrower signup
//	@Description	Creates a borrower account and immediately authenticates it: the response carries a fresh bearer token and the session cookie is set.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		service.BorrowerSignup	true	"signup payload"
//	@Success		201		{object}	AuthResponse
//	@Failure		400		{object}	ErrorResponse	"validation failure"
//	@Failure		409		{object}	ErrorResponse	"email already registered"
//	@Router			/borrowers/signup [post].
func (h *SignupHandler) HandleBorrower(w http.ResponseWriter, r *http.Request) {
	var in service.BorrowerSignup
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	result, err := h.AuthService.SignupBorrower(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeAuthResponse(w, http.StatusCreated, result)
}

// HandleInvestor godoc
//
//	@Summary		Investor signup
//	@Description	Creates an investor account with KYC attributes and immediately authenticates it.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		service.InvestorSignup	true	"signup payload"
//	@Success		201		{object}	AuthResponse
//	@Failure		400		{object}	ErrorResponse	"validation failure"
//	@Failure		409		{object}	ErrorResponse	"email already registered"
//	@Router			/investors/signup [post].
func (h *SignupHandler) HandleInvestor(w http.ResponseWriter, r *http.Request) {
	var in service.InvestorSignup
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	result, err := h.AuthService.SignupInvestor(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeAuthResponse(w, http.StatusCreated, result)
}

func writeAuthResponse(w http.ResponseWriter, code int, result service.AuthResult) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, code, AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Role:      string(result.Principal.Role),
		User: UserResponse{
			ID:    result.Principal.ID,
			Name:  result.Principal.Name,
			Email: result.Principal.Email,
		},
	})
}
