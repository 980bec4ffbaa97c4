package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"larpilot/backoffice/internal/common"
	"larpilot/backoffice/internal/models/dtos/requests"
	"larpilot/backoffice/internal/models/dtos/responses"
)

// ListLocations handles GET /api/v1/locations
func (h *Handlers) ListLocations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		locations, err := h.deps.Services.Locations.ListVisible(r.Context(), requestActor(r))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Locations", responses.NewLocationListResponse(locations))
	}
}

// CreateLocation handles POST /api/v1/locations
func (h *Handlers) CreateLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req requests.LocationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, "Invalid request body", http.StatusBadRequest)
			return
		}

		location, err := h.deps.Services.Locations.Create(r.Context(), requestActor(r), &req)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Location created", responses.NewLocationResponse(location), http.StatusCreated)
	}
}

// UpdateLocation handles PUT /api/v1/locations/{locationID}
func (h *Handlers) UpdateLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req requests.LocationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, "Invalid request body", http.StatusBadRequest)
			return
		}

		location, err := h.deps.Services.Locations.Update(r.Context(), requestActor(r), chi.URLParam(r, "locationID"), &req)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Location updated", responses.NewLocationResponse(location))
	}
}

// DeleteLocation handles DELETE /api/v1/locations/{locationID}
func (h *Handlers) DeleteLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := h.deps.Services.Locations.Delete(r.Context(), requestActor(r), chi.URLParam(r, "locationID")); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Location deleted", nil)
	}
}

// ListPendingLocations handles GET /api/v1/admin/locations/pending
func (h *Handlers) ListPendingLocations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		locations, err := h.deps.Services.Locations.ListPending(r.Context(), requestActor(r))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Pending locations", responses.NewLocationListResponse(locations))
	}
}

// ApproveLocation handles POST /api/v1/admin/locations/{locationID}/approve
func (h *Handlers) ApproveLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		location, err := h.deps.Services.Locations.Approve(r.Context(), requestActor(r), chi.URLParam(r, "locationID"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Location approved", responses.NewLocationResponse(location))
	}
}

// RejectLocation handles POST /api/v1/admin/locations/{locationID}/reject.
// The body is optional.
func (h *Handlers) RejectLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req requests.RejectLocationRequest
		if err := decodeJSON(w, r, &req); err != nil && err != errEmptyBody {
			common.RespondError(w, initTime, "Invalid request body", http.StatusBadRequest)
			return
		}

		location, err := h.deps.Services.Locations.Reject(r.Context(), requestActor(r), chi.URLParam(r, "locationID"), req.Reason)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Location rejected", responses.NewLocationResponse(location))
	}
}
