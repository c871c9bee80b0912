package http

import (
	"encoding/json"
	"net/http"

	"github.com/openlots/lendpool/internal/domain"
	"github.com/openlots/lendpool/internal/service"
	"github.com/openlots/lendpool/pkg/httpx"
)

type VerifyHandler struct {
	VerificationService *service.VerificationService
}

type verifyRequest struct {
	Role    string          `json:"role"`
	Payload json.RawMessage `json:"payload"`
}

type verifyConfirmRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Code  string `json:"code"`
}

// HandleRequest godoc
//
//	@Summary		Request a signup verification code
//	@Description	Validates the signup payload, parks it, and emails a 4-digit code. A re-request replaces any pending code for the same email and role.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		verifyRequest	true	"role plus the full signup payload"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	ErrorResponse	"validation failure"
//	@Failure		409		{object}	ErrorResponse	"email already registered"
//	@Router			/auth/verify/request [post].
func (h *VerifyHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	var in verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	email, err := h.VerificationService.Request(r.Context(), domain.Role(in.Role), in.Payload)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "code_sent",
		"email":  email,
	})
}

// HandleConfirm godoc
//
//	@Summary		Confirm a verification code
//	@Description	Consumes the pending code and executes the parked signup. The response matches the direct signup response; the new account starts verified.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		verifyConfirmRequest	true	"email, role, code"
//	@Success		201		{object}	AuthResponse
//	@Failure		400		{object}	ErrorResponse	"invalid or expired code"
//	@Router			/auth/verify/confirm [post].
func (h *VerifyHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	var in verifyConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	result, err := h.VerificationService.Confirm(r.Context(), in.Email, domain.Role(in.Role), in.Code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeAuthResponse(w, http.StatusCreated, result)
}
