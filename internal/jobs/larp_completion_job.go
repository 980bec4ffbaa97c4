package jobs

import (
	"context"
	"fmt"
	"time"

	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/logging"
	"larpilot/backoffice/internal/metrics"
	models "larpilot/backoffice/internal/models/gorm"
	"larpilot/backoffice/internal/workflow"
)

// EndedLarpFinder lists CONFIRMED LARPs whose end date is before cutoff.
type EndedLarpFinder interface {
	ListConfirmedEndedBefore(ctx context.Context, cutoff time.Time) ([]models.Larp, error)
}

// Transitioner applies a lifecycle transition, see services.LarpWorkflow.
type Transitioner interface {
	ApplyTransition(ctx context.Context, larp *models.Larp, transition workflow.Transition, actorID string) (bool, error)
}

// CompletionResult summarizes one sweep.
type CompletionResult struct {
	Candidates int
	Completed  int
	Skipped    int
	Failed     int
}

// LarpCompletionJob moves confirmed LARPs that have ended to COMPLETED.
type LarpCompletionJob struct {
	larps    EndedLarpFinder
	workflow Transitioner
	metrics  *metrics.MetricsRegistry
	now      func() time.Time
}

func NewLarpCompletionJob(larps EndedLarpFinder, wf Transitioner, metricsReg *metrics.MetricsRegistry) *LarpCompletionJob {
	return &LarpCompletionJob{
		larps:    larps,
		workflow: wf,
		metrics:  metricsReg,
		now:      time.Now,
	}
}

// Run performs one sweep. Individual failures are logged and counted; only a
// failed listing aborts the run.
func (j *LarpCompletionJob) Run(ctx context.Context) (CompletionResult, error) {
	start := time.Now()
	var result CompletionResult
	defer func() {
		if j.metrics != nil {
			j.metrics.CompletionJobDuration.Observe(time.Since(start).Seconds())
		}
	}()

	larps, err := j.larps.ListConfirmedEndedBefore(ctx, j.now().UTC())
	if err != nil {
		return result, fmt.Errorf("list ended larps: %w", err)
	}
	result.Candidates = len(larps)

	for i := range larps {
		larp := &larps[i]
		applied, err := j.workflow.ApplyTransition(ctx, larp, workflow.ToCompleted, constants.SystemActorID)
		switch {
		case err != nil:
			result.Failed++
			logging.Error("Failed to complete LARP", "larp_id", larp.ID, "error", err)
		case !applied:
			// Someone else changed the status in the meantime.
			result.Skipped++
		default:
			result.Completed++
		}
	}

	logging.Info("LARP completion sweep finished",
		"candidates", result.Candidates,
		"completed", result.Completed,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration", time.Since(start).Truncate(time.Millisecond).String(),
	)
	return result, nil
}

// RunScheduled runs the sweep once at start and then every interval until
// ctx is cancelled.
func (j *LarpCompletionJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if _, err := j.Run(ctx); err != nil {
		logging.Error("Error in initial completion sweep", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if _, err := j.Run(ctx); err != nil {
				logging.Error("Error in scheduled completion sweep", "error", err)
			}
		case <-ctx.Done():
			logging.Info("Shutting down LARP completion sweep")
			return
		}
	}
}
