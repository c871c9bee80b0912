package http

import (
	"encoding/json"
	"net/http"

	"github.com/openlots/lendpool/internal/service"
	"github.com/openlots/lendpool/pkg/httpx"
)

// PoolsHandler covers the borrower-facing pool lifecycle. Every method runs
// behind RequireRole(borrower), so the principal is always present.
type PoolsHandler struct {
	PoolService *service.PoolService
}

// HandleCreate godoc
//
//	@Summary		Create a pool
//	@Description	Creates a funding pool for the authenticated borrower. The pool enters the marketplace as active.
//	@Tags			Pools
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		service.PoolInput	true	"pool fields; currency values accept $ and , separators"
//	@Success		201		{object}	PoolResponse
//	@Failure		400		{object}	ErrorResponse	"validation failure"
//	@Failure		401		{object}	ErrorResponse
//	@Router			/pools/create [post].
func (h *PoolsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	var in service.PoolInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	pool, err := h.PoolService.Create(r.Context(), p.ID, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toPoolResponse(pool))
}

// HandleList godoc
//
//	@Summary		List own pools
//	@Tags			Pools
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		PoolResponse
//	@Failure		401	{object}	ErrorResponse
//	@Router			/pools [get].
func (h *PoolsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	pools, err := h.PoolService.List(r.Context(), p.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]PoolResponse, 0, len(pools))
	for _, pool := range pools {
		out = append(out, toPoolResponse(pool))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary		Pool detail
//	@Description	Returns the pool only when the authenticated borrower owns it; anything else is a 404.
//	@Tags			Pools
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"pool id"
//	@Success		200	{object}	PoolResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/pools/{id} [get].
func (h *PoolsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	pool, err := h.PoolService.Get(r.Context(), r.PathValue("id"), p.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPoolResponse(pool))
}

// HandleUpdate godoc
//
//	@Summary		Partially update a pool
//	@Description	Applies only the fields present in the body. Moving term away from custom clears the stored month count unless a new one is supplied.
//	@Tags			Pools
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"pool id"
//	@Param			request	body		service.PoolUpdate	true	"fields to change"
//	@Success		200		{object}	PoolResponse
//	@Failure		400		{object}	ErrorResponse	"validation failure"
//	@Failure		404		{object}	ErrorResponse
//	@Router			/pools/{id}/update [put].
func (h *PoolsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	var in service.PoolUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	pool, err := h.PoolService.Update(r.Context(), r.PathValue("id"), p.ID, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPoolResponse(pool))
}

// HandleDelete godoc
//
//	@Summary		Delete a pool
//	@Description	Deletes the borrower's pool. Refused with 409 once any investment exists.
//	@Tags			Pools
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"pool id"
//	@Success		200	{object}	map[string]bool
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse	"pool has investments"
//	@Router			/pools/{id}/delete [delete].
func (h *PoolsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFrom(r.Context())

	if err := h.PoolService.Delete(r.Context(), r.PathValue("id"), p.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
