package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"larpilot/backoffice/internal/common"
	"larpilot/backoffice/internal/models/entities"
)

// Probe checks one backing service.
type Probe func(ctx context.Context) error

// GormProbe pings the pool underneath a gorm connection.
func GormProbe(orm *gorm.DB) Probe {
	return func(ctx context.Context) error {
		sqlDB, err := orm.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

const probeTimeout = 2 * time.Second

// HealthCheckHandler handles GET /healthCheck. Probes run concurrently; any
// failing probe answers 503 naming the failed services.
func HealthCheckHandler(probes map[string]Probe, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		names := make([]string, 0, len(probes))
		for name := range probes {
			names = append(names, name)
		}
		sort.Strings(names)

		var (
			mu       sync.Mutex
			services = make(map[string]entities.ServiceStatus, len(probes))
		)
		g, gctx := errgroup.WithContext(ctx)
		for _, name := range names {
			name := name
			probe := probes[name]
			g.Go(func() error {
				status := entities.ServiceStatus{Status: "ok", Details: "connected"}
				if err := probe(gctx); err != nil {
					status = entities.ServiceStatus{Status: "down", Details: err.Error()}
				}
				mu.Lock()
				services[name] = status
				mu.Unlock()
				// Failures are reported per service, not through the group.
				return nil
			})
		}
		_ = g.Wait()

		overallStatus := "ok"
		var failed []string
		for _, name := range names {
			if svc := services[name]; svc.Status != "ok" {
				overallStatus = "down"
				failed = append(failed, name+": "+svc.Details)
			}
		}

		resp := entities.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  upSince.UTC(),
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}

		if len(failed) > 0 {
			common.RespondError(w, initTime, "Unhealthy: "+strings.Join(failed, "; "), http.StatusServiceUnavailable)
			return
		}
		common.RespondSuccess(w, initTime, fmt.Sprintf("%d services checked", len(services)), resp)
	}
}
