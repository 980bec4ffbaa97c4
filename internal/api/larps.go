package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"larpilot/backoffice/internal/common"
	"larpilot/backoffice/internal/models/dtos/requests"
	"larpilot/backoffice/internal/models/dtos/responses"
)

// CreateLarp handles POST /api/v1/larps
func (h *Handlers) CreateLarp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req requests.CreateLarpRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, "Invalid request body", http.StatusBadRequest)
			return
		}

		larp, err := h.deps.Services.Larps.Create(r.Context(), requestActor(r), &req)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "LARP created", responses.NewLarpResponse(larp), http.StatusCreated)
	}
}

// GetLarp handles GET /api/v1/larps/{larpID}
func (h *Handlers) GetLarp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		larp, err := h.deps.Services.Larps.Get(r.Context(), requestActor(r), chi.URLParam(r, "larpID"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "LARP fetched", responses.NewLarpResponse(larp))
	}
}

// ListPublicLarps handles GET /public/larps
func (h *Handlers) ListPublicLarps() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		larps, err := h.deps.Services.Larps.ListPublic(r.Context())
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Public LARPs", responses.NewLarpListResponse(larps))
	}
}

// ListTransitions handles GET /api/v1/larps/{larpID}/transitions
func (h *Handlers) ListTransitions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		larp, transitions, err := h.deps.Services.Larps.EnabledTransitions(r.Context(), requestActor(r), chi.URLParam(r, "larpID"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Enabled transitions", responses.NewTransitionsResponse(larp, transitions))
	}
}

// ApplyTransition handles POST /api/v1/larps/{larpID}/transitions/{transition}
func (h *Handlers) ApplyTransition() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		larp, err := h.deps.Services.Larps.ApplyTransition(
			r.Context(),
			requestActor(r),
			chi.URLParam(r, "larpID"),
			chi.URLParam(r, "transition"),
		)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Transition applied", responses.NewLarpResponse(larp))
	}
}

// GetLarpHistory handles GET /api/v1/larps/{larpID}/history
func (h *Handlers) GetLarpHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		changes, err := h.deps.Services.Larps.History(r.Context(), requestActor(r), chi.URLParam(r, "larpID"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Status history", responses.NewHistoryResponse(changes))
	}
}
