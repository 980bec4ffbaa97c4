package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"larpilot/backoffice/internal/common"
	"larpilot/backoffice/internal/models/dtos/requests"
	"larpilot/backoffice/internal/models/dtos/responses"
)

// GetCapabilities handles GET /api/v1/me/capabilities
func (h *Handlers) GetCapabilities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		caps, err := h.deps.Services.Accounts.Capabilities(r.Context(), requestActor(r))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Capabilities", caps)
	}
}

// ListPlans handles GET /api/v1/plans
func (h *Handlers) ListPlans() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		plans, err := h.deps.Services.Accounts.ListPlans(r.Context())
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Plans", responses.NewPlanListResponse(plans))
	}
}

// GetAccount handles GET /api/v1/admin/users/{userID}
func (h *Handlers) GetAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		user, err := h.deps.Services.Accounts.GetAccount(r.Context(), requestActor(r), chi.URLParam(r, "userID"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Account", responses.NewAccountResponse(user))
	}
}

// SetAccountStatus handles PUT /api/v1/admin/users/{userID}/status
func (h *Handlers) SetAccountStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req requests.SetAccountStatusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := req.Validate(); err != nil {
			common.RespondError(w, initTime, err.Error(), http.StatusBadRequest)
			return
		}

		user, err := h.deps.Services.Accounts.SetAccountStatus(r.Context(), requestActor(r), chi.URLParam(r, "userID"), req.Status)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Account status updated", responses.NewAccountResponse(user))
	}
}

// SetAccountPlan handles PUT /api/v1/admin/users/{userID}/plan
func (h *Handlers) SetAccountPlan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req requests.SetPlanRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, "Invalid request body", http.StatusBadRequest)
			return
		}

		user, err := h.deps.Services.Accounts.SetPlan(r.Context(), requestActor(r), chi.URLParam(r, "userID"), req.PlanID)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Account plan updated", responses.NewAccountResponse(user))
	}
}
