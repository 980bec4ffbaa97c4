package jobs

import (
	"context"

	"larpilot/backoffice/internal/config"
	"larpilot/backoffice/internal/logging"
)

// InitializeJobs starts the background jobs enabled in cfg. The returned job
// is nil when the completion sweep is disabled.
func InitializeJobs(ctx context.Context, cfg *config.Config, completion *LarpCompletionJob) *LarpCompletionJob {
	if !cfg.CompletionJobEnabled {
		logging.Info("LARP completion sweep disabled")
		return nil
	}

	go completion.RunScheduled(ctx, cfg.CompletionJobInterval)
	logging.Info("LARP completion sweep scheduled", "interval", cfg.CompletionJobInterval.String())
	return completion
}
