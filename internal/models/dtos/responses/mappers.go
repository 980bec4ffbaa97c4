package responses

import (
	models "larpilot/backoffice/internal/models/gorm"
	"larpilot/backoffice/internal/workflow"
)

func NewLarpResponse(l *models.Larp) LarpResponse {
	return LarpResponse{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Status:      l.Status.String(),
		StartDate:   l.StartDate,
		EndDate:     l.EndDate,
		LocationID:  l.LocationID,
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt,
	}
}

func NewLarpListResponse(larps []models.Larp) []LarpResponse {
	out := make([]LarpResponse, 0, len(larps))
	for i := range larps {
		out = append(out, NewLarpResponse(&larps[i]))
	}
	return out
}

func NewTransitionsResponse(l *models.Larp, transitions []workflow.Transition) TransitionsResponse {
	names := make([]string, 0, len(transitions))
	for _, t := range transitions {
		names = append(names, t.String())
	}
	return TransitionsResponse{LarpID: l.ID, Status: l.Status.String(), Transitions: names}
}

func NewHistoryResponse(changes []models.LarpStatusChange) []StatusChangeResponse {
	out := make([]StatusChangeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, StatusChangeResponse{
			Transition: c.Transition.String(),
			From:       c.FromStatus.String(),
			To:         c.ToStatus.String(),
			ActorID:    c.ActorID,
			ChangedAt:  c.CreatedAt,
		})
	}
	return out
}

func NewParticipantResponse(p *models.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:          p.ID,
		LarpID:      p.LarpID,
		UserID:      p.UserID,
		DisplayName: p.User.DisplayName,
		Roles:       p.Roles.Strings(),
	}
}

func NewParticipantListResponse(participants []models.Participant) []ParticipantResponse {
	out := make([]ParticipantResponse, 0, len(participants))
	for i := range participants {
		out = append(out, NewParticipantResponse(&participants[i]))
	}
	return out
}

func NewLocationResponse(l *models.Location) LocationResponse {
	return LocationResponse{
		ID:              l.ID,
		Name:            l.Name,
		Description:     l.Description,
		Address:         l.Address,
		Country:         l.Country,
		IsPublic:        l.IsPublic,
		CreatedBy:       l.CreatedBy,
		ApprovalStatus:  l.Approval.Status.String(),
		ApprovedBy:      l.Approval.ApprovedBy,
		ApprovedAt:      l.Approval.ApprovedAt,
		RejectionReason: l.Approval.RejectionReason,
	}
}

func NewLocationListResponse(locations []models.Location) []LocationResponse {
	out := make([]LocationResponse, 0, len(locations))
	for i := range locations {
		out = append(out, NewLocationResponse(&locations[i]))
	}
	return out
}

func NewAccountResponse(u *models.User) AccountResponse {
	return AccountResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Status:      u.Status.String(),
		GlobalRole:  u.GlobalRole.String(),
		PlanID:      u.PlanID,
	}
}

func NewPlanListResponse(plans []models.Plan) []PlanResponse {
	out := make([]PlanResponse, len(plans))
	for i, p := range plans {
		out[i] = PlanResponse{ID: p.ID, Name: p.Name, MaxLarps: p.MaxLarps}
	}
	return out
}
