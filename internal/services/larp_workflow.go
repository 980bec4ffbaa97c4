package services

import (
	"context"

	"larpilot/backoffice/internal/logging"
	"larpilot/backoffice/internal/metrics"
	models "larpilot/backoffice/internal/models/gorm"
	"larpilot/backoffice/internal/workflow"
)

// StatusSwapper persists a status change only if the LARP is still in from.
type StatusSwapper interface {
	CompareAndSwapStatus(ctx context.Context, larpID string, from, to workflow.LarpStatus, transition workflow.Transition, actorID string) (bool, error)
}

// LarpWorkflow binds the lifecycle table to persisted LARPs.
type LarpWorkflow struct {
	store   StatusSwapper
	metrics *metrics.MetricsRegistry
}

func NewLarpWorkflow(store StatusSwapper, metricsReg *metrics.MetricsRegistry) *LarpWorkflow {
	return &LarpWorkflow{store: store, metrics: metricsReg}
}

func (w *LarpWorkflow) CanTransition(larp *models.Larp, transition workflow.Transition) bool {
	return workflow.CanTransition(larp.Status, transition)
}

func (w *LarpWorkflow) EnabledTransitions(larp *models.Larp) []workflow.Transition {
	return workflow.EnabledTransitions(larp.Status)
}

// ApplyTransition moves the LARP along transition. It returns false without
// writing when the transition is not enabled, and false when another request
// changed the status first. On success larp.Status is updated in place.
func (w *LarpWorkflow) ApplyTransition(ctx context.Context, larp *models.Larp, transition workflow.Transition, actorID string) (bool, error) {
	from := larp.Status
	to, ok := workflow.NextStatus(from, transition)
	if !ok {
		w.record(transition, "not_enabled")
		logging.Info("Transition not enabled",
			"larp_id", larp.ID,
			"transition", transition.String(),
			"status", from.String(),
			"actor_id", actorID,
		)
		return false, nil
	}

	swapped, err := w.store.CompareAndSwapStatus(ctx, larp.ID, from, to, transition, actorID)
	if err != nil {
		w.record(transition, "error")
		return false, err
	}
	if !swapped {
		w.record(transition, "stale")
		logging.Warn("Transition lost to a concurrent change",
			"larp_id", larp.ID,
			"transition", transition.String(),
			"expected_status", from.String(),
			"actor_id", actorID,
		)
		return false, nil
	}

	larp.Status = to
	w.record(transition, "applied")
	logging.Info("LARP transition applied",
		"larp_id", larp.ID,
		"transition", transition.String(),
		"from", from.String(),
		"to", to.String(),
		"actor_id", actorID,
	)
	return true, nil
}

func (w *LarpWorkflow) record(transition workflow.Transition, result string) {
	if w.metrics != nil {
		w.metrics.RecordTransition(transition.String(), result)
	}
}
