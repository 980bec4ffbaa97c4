package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"larpilot/backoffice/internal/common"
	"larpilot/backoffice/internal/models/dtos/requests"
	"larpilot/backoffice/internal/models/dtos/responses"
)

// ListParticipants handles GET /api/v1/larps/{larpID}/participants
func (h *Handlers) ListParticipants() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		participants, err := h.deps.Services.Participants.List(r.Context(), requestActor(r), chi.URLParam(r, "larpID"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Participants", responses.NewParticipantListResponse(participants))
	}
}

// AddParticipant handles POST /api/v1/larps/{larpID}/participants
func (h *Handlers) AddParticipant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req requests.AddParticipantRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := req.Validate(); err != nil {
			common.RespondError(w, initTime, err.Error(), http.StatusBadRequest)
			return
		}

		participant, err := h.deps.Services.Participants.Add(r.Context(), requestActor(r), chi.URLParam(r, "larpID"), req.UserID, req.Roles)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Participant added", responses.NewParticipantResponse(participant), http.StatusCreated)
	}
}

// UpdateParticipantRoles handles PUT /api/v1/larps/{larpID}/participants/{participantID}/roles
func (h *Handlers) UpdateParticipantRoles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req requests.UpdateRolesRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := req.Validate(); err != nil {
			common.RespondError(w, initTime, err.Error(), http.StatusBadRequest)
			return
		}

		participant, err := h.deps.Services.Participants.UpdateRoles(
			r.Context(),
			requestActor(r),
			chi.URLParam(r, "larpID"),
			chi.URLParam(r, "participantID"),
			req.Roles,
		)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Roles updated", responses.NewParticipantResponse(participant))
	}
}

// RemoveParticipant handles DELETE /api/v1/larps/{larpID}/participants/{participantID}
func (h *Handlers) RemoveParticipant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		err := h.deps.Services.Participants.Remove(
			r.Context(),
			requestActor(r),
			chi.URLParam(r, "larpID"),
			chi.URLParam(r, "participantID"),
		)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Participant removed", nil)
	}
}
