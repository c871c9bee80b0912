package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVerificationRequest parks a signup payload and confirms the pending
// state: no account exists until a valid code is confirmed. The emailed code
// itself is not reachable from outside the container (SMTP is unconfigured,
// so it only appears in the service log), which keeps these assertions to the
// request half and the failure paths of confirm.
func TestVerificationRequest(t *testing.T) {
	baseURL, cleanup := setupAPIContainer(t)
	defer cleanup()

	client := newAPIClient(t, baseURL)

	code, raw := client.post("/auth/verify/request", map[string]any{
		"role":    "borrower",
		"payload": borrowerSignupPayload("pending@example.com"),
	})
	require.Equal(t, http.StatusOK, code, string(raw))

	var body struct {
		Status string `json:"status"`
		Email  string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Equal(t, "code_sent", body.Status)
	require.Equal(t, "pending@example.com", body.Email)

	t.Run("no account until confirmed", func(t *testing.T) {
		code, _ := client.post("/borrowers/login", map[string]string{
			"email":    "pending@example.com",
			"password": "correct-horse",
		})
		require.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("wrong code refused", func(t *testing.T) {
		// 10000 is not a valid 4-digit code, so this can never collide.
		code, _ := client.post("/auth/verify/confirm", map[string]string{
			"email": "pending@example.com",
			"role":  "borrower",
			"code":  "10000",
		})
		require.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("email now reserved", func(t *testing.T) {
		// The pending record does not block availability (no account exists),
		// but a direct signup for the same email still works and wins.
		code, _ := client.post("/borrowers/signup", borrowerSignupPayload("pending@example.com"))
		require.Equal(t, http.StatusCreated, code)

		// Once the account exists, re-requesting a code is refused.
		code, _ = client.post("/auth/verify/request", map[string]any{
			"role":    "borrower",
			"payload": borrowerSignupPayload("pending@example.com"),
		})
		require.Equal(t, http.StatusConflict, code)
	})
}

// TestVerificationRequestValidation mirrors the direct signup validation.
func TestVerificationRequestValidation(t *testing.T) {
	baseURL, cleanup := setupAPIContainer(t)
	defer cleanup()

	client := newAPIClient(t, baseURL)

	bad := borrowerSignupPayload("bad@example.com")
	bad["password"] = "short"

	code, _ := client.post("/auth/verify/request", map[string]any{
		"role":    "borrower",
		"payload": bad,
	})
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = client.post("/auth/verify/request", map[string]any{
		"role":    "admin",
		"payload": borrowerSignupPayload("bad@example.com"),
	})
	require.Equal(t, http.StatusBadRequest, code)
}
