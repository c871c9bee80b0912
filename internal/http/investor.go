package http

import (
	"encoding/json"
	"net/http"

	"github.com/openlots/lendpool/internal/service"
	"github.com/openlots/lendpool/pkg/httpx"
)

// InvestorHandler covers the investor-facing marketplace: browsing, investing
// and the dashboard. Every method runs behind RequireRole(investor).
type InvestorHandler struct {
	InvestmentService *service.InvestmentService
}

type investRequest struct {
	Amount string `json:"amount"`
}

// HandleBrowse godoc
//
//	@Summary		Browse active pools
//	@Description	Lists all active pools across borrowers with the owner's display name and funding progress. Borrower email and liabilities are not exposed here.
//	@Tags			Investments
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		PoolListingResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/investor/pools [get].
func (h *InvestorHandler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	listings, err := h.InvestmentService.Browse(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]PoolListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l, false))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDetail godoc
//
//	@Summary		Active pool detail
//	@Description	One active pool with the borrower's email and the risk/liability fields exposed.
//	@Tags			Investments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"pool id"
//	@Success		200	{object}	PoolListingResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/investor/pools/{id} [get].
func (h *InvestorHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	listing, err := h.InvestmentService.BrowseDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toListingResponse(listing, true))
}

// HandleInvest godoc
//
//	@Summary		Invest in a pool
//	@Description	Commits capital to an active pool. One investment per investor per pool; the amount must be positive and no more than the pool's requested amount.
//	@Tags			Investments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"pool id"
//	@Param			request	body		investRequest	true	"amount; accepts $ and , separators"
//	@Success		201		{object}	map[string]any
//	@Failure		400		{object}	ErrorResponse	"bad amount or inactive pool"
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"already invested"
//	@Router			/investor/pools/{id}/invest [post].
func (h *InvestorHandler) HandleInvest(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	var in investRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	inv, err := h.InvestmentService.Invest(r.Context(), p.ID, r.PathValue("id"), in.Amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":        inv.ID,
		"poolId":    inv.PoolID,
		"amount":    inv.Amount,
		"status":    inv.Status,
		"createdAt": inv.CreatedAt,
	})
}

// HandleInvestments godoc
//
//	@Summary		List own investments
//	@Tags			Investments
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		InvestmentResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/investor/investments [get].
func (h *InvestorHandler) HandleInvestments(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	records, err := h.InvestmentService.ListMine(r.Context(), p.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]InvestmentResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toInvestmentResponse(rec))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDashboard godoc
//
//	@Summary		Investor dashboard
//	@Description	Aggregate position: total invested, active count, amount-weighted average rate, and an illustrative pending payout with a +30 day payout date.
//	@Tags			Investments
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	DashboardResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/investor/dashboard [get].
func (h *InvestorHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	d, err := h.InvestmentService.Dashboard(r.Context(), p.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, DashboardResponse{
		TotalInvested:     d.TotalInvested,
		ActiveInvestments: d.ActiveInvestments,
		AvgRoiRate:        d.AvgRoiRate,
		PendingPayout:     d.PendingPayout,
		NextPayoutDate:    d.NextPayoutDate,
	})
}
