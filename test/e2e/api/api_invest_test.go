package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMarketplaceFlow is the headline scenario: a borrower lists a pool, an
// investor finds it, commits capital, and sees it in their portfolio.
func TestMarketplaceFlow(t *testing.T) {
	baseURL, cleanup := setupAPIContainer(t)
	defer cleanup()

	borrower := newAPIClient(t, baseURL)
	signupBorrower(t, borrower, "owner@example.com")
	poolID := createPool(t, borrower)

	investor := newAPIClient(t, baseURL)
	signupInvestor(t, investor, "backer@example.com")

	t.Run("browse", func(t *testing.T) {
		code, raw := investor.get("/investor/pools")
		require.Equal(t, http.StatusOK, code)

		var listings []struct {
			ID            string `json:"id"`
			BorrowerName  string `json:"borrowerName"`
			BorrowerEmail string `json:"borrowerEmail"`
			Invested      string `json:"invested"`
		}
		require.NoError(t, json.Unmarshal(raw, &listings))
		require.Len(t, listings, 1)
		require.Equal(t, poolID, listings[0].ID)
		require.Equal(t, "Avery Stone", listings[0].BorrowerName)
		require.Empty(t, listings[0].BorrowerEmail, "list view must not leak the borrower email")
		require.Equal(t, "0", listings[0].Invested)
	})

	t.Run("detail", func(t *testing.T) {
		code, raw := investor.get("/investor/pools/" + poolID)
		require.Equal(t, http.StatusOK, code)

		var detail struct {
			BorrowerEmail string `json:"borrowerEmail"`
		}
		require.NoError(t, json.Unmarshal(raw, &detail))
		require.Equal(t, "owner@example.com", detail.BorrowerEmail)
	})

	t.Run("invest", func(t *testing.T) {
		code, raw := investor.post("/investor/pools/"+poolID+"/invest",
			map[string]string{"amount": "$2,500"})
		require.Equal(t, http.StatusCreated, code, string(raw))

		var created struct {
			PoolID string `json:"poolId"`
			Amount string `json:"amount"`
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(raw, &created))
		require.Equal(t, poolID, created.PoolID)
		require.Equal(t, "2500", created.Amount)
		require.Equal(t, "active", created.Status)
	})

	t.Run("portfolio", func(t *testing.T) {
		code, raw := investor.get("/investor/investments")
		require.Equal(t, http.StatusOK, code)

		var records []struct {
			Amount string `json:"amount"`
			Pool   struct {
				ID string `json:"id"`
			} `json:"pool"`
			BorrowerName string `json:"borrowerName"`
		}
		require.NoError(t, json.Unmarshal(raw, &records))
		require.Len(t, records, 1)
		require.Equal(t, "2500", records[0].Amount)
		require.Equal(t, poolID, records[0].Pool.ID)
		require.Equal(t, "Avery Stone", records[0].BorrowerName)
	})

	t.Run("dashboard", func(t *testing.T) {
		code, raw := investor.get("/investor/dashboard")
		require.Equal(t, http.StatusOK, code)

		var dash struct {
			TotalInvested     string `json:"totalInvested"`
			ActiveInvestments int    `json:"activeInvestments"`
			NextPayoutDate    string `json:"nextPayoutDate"`
		}
		require.NoError(t, json.Unmarshal(raw, &dash))
		require.Equal(t, "2500", dash.TotalInvested)
		require.Equal(t, 1, dash.ActiveInvestments)
		require.NotEmpty(t, dash.NextPayoutDate)
	})

	t.Run("pool delete now refused", func(t *testing.T) {
		code, raw := borrower.do(http.MethodDelete, "/pools/"+poolID+"/delete", nil)
		require.Equal(t, http.StatusConflict, code)

		var body struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(raw, &body))
		require.Equal(t, "Pool has investments and cannot be deleted", body.Error)
	})
}

// TestInvestmentRules covers duplicates, amount bounds, and the automatic
// funded transition.
func TestInvestmentRules(t *testing.T) {
	baseURL, cleanup := setupAPIContainer(t)
	defer cleanup()

	borrower := newAPIClient(t, baseURL)
	signupBorrower(t, borrower, "owner@example.com")
	poolID := createPool(t, borrower) // asks for 10000

	investor := newAPIClient(t, baseURL)
	signupInvestor(t, investor, "backer@example.com")

	t.Run("amount over the ask", func(t *testing.T) {
		code, _ := investor.post("/investor/pools/"+poolID+"/invest",
			map[string]string{"amount": "10000.01"})
		require.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("zero amount", func(t *testing.T) {
		code, _ := investor.post("/investor/pools/"+poolID+"/invest",
			map[string]string{"amount": "0"})
		require.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("full funding flips the pool", func(t *testing.T) {
		code, _ := investor.post("/investor/pools/"+poolID+"/invest",
			map[string]string{"amount": "10000"})
		require.Equal(t, http.StatusCreated, code)

		// The funded pool leaves the marketplace.
		code, _ = investor.get("/investor/pools/" + poolID)
		require.Equal(t, http.StatusNotFound, code)

		// The owner sees the status change.
		code, raw := borrower.get("/pools/" + poolID)
		require.Equal(t, http.StatusOK, code)

		var pool struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(raw, &pool))
		require.Equal(t, "funded", pool.Status)
	})

	t.Run("second investment refused", func(t *testing.T) {
		// The pool is funded by now, so the status check fires first.
		code, raw := investor.post("/investor/pools/"+poolID+"/invest",
			map[string]string{"amount": "100"})
		require.Equal(t, http.StatusBadRequest, code, string(raw))
	})
}

// TestInvestorRoleEnforcement verifies borrowers cannot reach the investor
// marketplace routes.
func TestInvestorRoleEnforcement(t *testing.T) {
	baseURL, cleanup := setupAPIContainer(t)
	defer cleanup()

	borrower := newAPIClient(t, baseURL)
	signupBorrower(t, borrower, "owner@example.com")

	code, _ := borrower.get("/investor/pools")
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = borrower.get("/investor/dashboard")
	require.Equal(t, http.StatusUnauthorized, code)
}
