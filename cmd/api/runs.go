package main

import (
	"errors"
	"net/http"

	"github.com/farxc/oilst_consolidator/internal/response"
	"github.com/farxc/oilst_consolidator/internal/store"
	"github.com/google/uuid"
)

type GetRunsResponse = response.APIResponse[[]store.Run]
type GetRunResponse = response.APIResponse[*store.Run]
type GetBasketSizeResponse = response.APIResponse[[]store.BasketSizeCount]
type GetQuarterlySalesResponse = response.APIResponse[[]store.QuarterlySales]

// @Summary		List runs
// @Description	Get the latest consolidation runs.
// @Tags			Runs
// @Produce		json
// @Param			limit	query		int						false	"Limit the number of results"	default(10)
// @Success		200		{object}	GetRunsResponse			"Successfully retrieved latest runs"
// @Failure		400		{object}	response.ErrorResponse	"Invalid limit"
// @Failure		500		{object}	response.ErrorResponse	"Failed to get runs"
// @Router			/runs [get]
func (app *application) handleGetRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntOrDefault(r.URL.Query().Get("limit"), defaultRunsLimit)
	if err != nil || limit <= 0 || limit > maxRunsLimit {
		writeJSONError(w, http.StatusBadRequest, "limit must be an integer between 1 and 100")
		return
	}

	data, err := app.store.Runs.GetLatest(r.Context(), limit)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get runs: "+err.Error())
		return
	}

	response := &GetRunsResponse{
		Success: true,
		Count:   len(data),
		Data:    data,
		Message: "Successfully retrieved latest runs",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Get run
// @Description	Get one consolidation run with its quality summary.
// @Tags			Runs
// @Produce		json
// @Param			id	path		string					true	"Run id"
// @Success		200	{object}	GetRunResponse			"Successfully retrieved run"
// @Failure		400	{object}	response.ErrorResponse	"Invalid run id"
// @Failure		404	{object}	response.ErrorResponse	"Run not found"
// @Failure		500	{object}	response.ErrorResponse	"Failed to get run"
// @Router			/runs/{id} [get]
func (app *application) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := parseRunID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	run, err := app.store.Runs.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "run not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "failed to get run: "+err.Error())
		return
	}

	response := &GetRunResponse{
		Success: true,
		Data:    run,
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Basket size counts
// @Description	Distinct orders per basket size and delay status for a run.
// @Tags			Reports
// @Produce		json
// @Param			id	path		string					true	"Run id"
// @Success		200	{object}	GetBasketSizeResponse	"Successfully retrieved basket size counts"
// @Failure		400	{object}	response.ErrorResponse	"Invalid run id"
// @Failure		404	{object}	response.ErrorResponse	"Run not found"
// @Failure		500	{object}	response.ErrorResponse	"Failed to get basket size counts"
// @Router			/runs/{id}/basket-size [get]
func (app *application) handleGetBasketSize(w http.ResponseWriter, r *http.Request) {
	id, ok := app.requireRun(w, r)
	if !ok {
		return
	}

	data, err := app.store.Reports.GetBasketSizeCounts(r.Context(), id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get basket size counts: "+err.Error())
		return
	}

	response := &GetBasketSizeResponse{
		Success: true,
		Count:   len(data),
		Data:    data,
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		Quarterly sales proportions
// @Description	Share of each delay status in the quarter's total sales for a run.
// @Tags			Reports
// @Produce		json
// @Param			id		path		string						true	"Run id"
// @Param			year	query		int							false	"Only this year"
// @Success		200		{object}	GetQuarterlySalesResponse	"Successfully retrieved quarterly sales"
// @Failure		400		{object}	response.ErrorResponse		"Invalid run id or year"
// @Failure		404		{object}	response.ErrorResponse		"Run not found"
// @Failure		500		{object}	response.ErrorResponse		"Failed to get quarterly sales"
// @Router			/runs/{id}/quarterly-sales [get]
func (app *application) handleGetQuarterlySales(w http.ResponseWriter, r *http.Request) {
	year, err := parseIntOrDefault(r.URL.Query().Get("year"), 0)
	if err != nil || year < 0 {
		writeJSONError(w, http.StatusBadRequest, "year must be a positive integer")
		return
	}

	id, ok := app.requireRun(w, r)
	if !ok {
		return
	}

	data, err := app.store.Reports.GetQuarterlySales(r.Context(), id, year)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get quarterly sales: "+err.Error())
		return
	}

	response := &GetQuarterlySalesResponse{
		Success: true,
		Count:   len(data),
		Data:    data,
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// requireRun parses the run id and checks that the run exists, writing the
// error response itself when it does not.
func (app *application) requireRun(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := parseRunID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return uuid.Nil, false
	}

	if _, err := app.store.Runs.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "run not found")
			return uuid.Nil, false
		}
		writeJSONError(w, http.StatusInternalServerError, "failed to get run: "+err.Error())
		return uuid.Nil, false
	}
	return id, true
}
