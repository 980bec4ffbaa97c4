package api

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"larpilot/backoffice/internal/auth"
	"larpilot/backoffice/internal/common"
	"larpilot/backoffice/internal/config"
	"larpilot/backoffice/internal/db"
	"larpilot/backoffice/internal/db/repositories"
	"larpilot/backoffice/internal/jobs"
	"larpilot/backoffice/internal/logging"
	"larpilot/backoffice/internal/metrics"
	"larpilot/backoffice/internal/models/dtos/requests"
	"larpilot/backoffice/internal/models/dtos/responses"
	models "larpilot/backoffice/internal/models/gorm"
	"larpilot/backoffice/internal/services"
	"larpilot/backoffice/internal/workflow"
)

// LarpService is what the LARP handlers need from services.LarpService.
type LarpService interface {
	Create(ctx context.Context, actor *auth.Actor, req *requests.CreateLarpRequest) (*models.Larp, error)
	Get(ctx context.Context, actor *auth.Actor, larpID string) (*models.Larp, error)
	ListPublic(ctx context.Context) ([]models.Larp, error)
	EnabledTransitions(ctx context.Context, actor *auth.Actor, larpID string) (*models.Larp, []workflow.Transition, error)
	ApplyTransition(ctx context.Context, actor *auth.Actor, larpID, name string) (*models.Larp, error)
	History(ctx context.Context, actor *auth.Actor, larpID string) ([]models.LarpStatusChange, error)
}

type ParticipantService interface {
	List(ctx context.Context, actor *auth.Actor, larpID string) ([]models.Participant, error)
	Add(ctx context.Context, actor *auth.Actor, larpID, userID string, roles []string) (*models.Participant, error)
	UpdateRoles(ctx context.Context, actor *auth.Actor, larpID, participantID string, roles []string) (*models.Participant, error)
	Remove(ctx context.Context, actor *auth.Actor, larpID, participantID string) error
}

type LocationService interface {
	Create(ctx context.Context, actor *auth.Actor, req *requests.LocationRequest) (*models.Location, error)
	Update(ctx context.Context, actor *auth.Actor, locationID string, req *requests.LocationRequest) (*models.Location, error)
	Delete(ctx context.Context, actor *auth.Actor, locationID string) error
	Approve(ctx context.Context, actor *auth.Actor, locationID string) (*models.Location, error)
	Reject(ctx context.Context, actor *auth.Actor, locationID, reason string) (*models.Location, error)
	ListPending(ctx context.Context, actor *auth.Actor) ([]models.Location, error)
	ListVisible(ctx context.Context, actor *auth.Actor) ([]models.Location, error)
}

type AccountService interface {
	Capabilities(ctx context.Context, actor *auth.Actor) (*responses.CapabilitiesResponse, error)
	GetAccount(ctx context.Context, actor *auth.Actor, userID string) (*models.User, error)
	SetAccountStatus(ctx context.Context, actor *auth.Actor, userID, status string) (*models.User, error)
	SetPlan(ctx context.Context, actor *auth.Actor, userID string, planID *string) (*models.User, error)
	ListPlans(ctx context.Context) ([]models.Plan, error)
}

type Repositories struct {
	Users        *repositories.UserGormRepository
	Plans        *repositories.PlanGormRepository
	Larps        *repositories.LarpGormRepository
	Participants *repositories.ParticipantGormRepository
	Locations    *repositories.LocationGormRepository
	// Accounts is only set on postgres, where the sqlx pool exists.
	Accounts *repositories.AccountRepository
}

type Services struct {
	Larps        LarpService
	Participants ParticipantService
	Locations    LocationService
	Accounts     AccountService
	Workflow     *services.LarpWorkflow
}

type Dependencies struct {
	Config      *config.Config
	ORM         *gorm.DB
	SQL         *sqlx.DB
	Cache       common.CacheInterface
	Redis       *common.RedisCacheService
	Metrics     *metrics.MetricsRegistry
	Tokens      *auth.TokenIssuer
	Actors      *common.ActorLoader
	Authorizer  *auth.Authorizer
	Repo        *Repositories
	Services    *Services
	Completion  *jobs.LarpCompletionJob
	HealthProbe map[string]Probe
}

// InitDependencies wires repositories and services on top of an open gorm
// connection. A Redis cache is used when configured and reachable, the
// in-memory cache otherwise.
func InitDependencies(ctx context.Context, cfg *config.Config, orm *gorm.DB, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	deps := &Dependencies{
		Config:      cfg,
		ORM:         orm,
		Metrics:     metricsReg,
		Tokens:      tokens,
		HealthProbe: map[string]Probe{"database": GormProbe(orm)},
	}

	deps.Cache = common.NewCacheService(cfg.ActorCacheTTL, 2*cfg.ActorCacheTTL)
	if addr := cfg.RedisAddr(); addr != "" {
		redisCache, err := common.NewRedisCacheService(addr, cfg.RedisPassword)
		if err != nil {
			logging.Warn("Redis unavailable, using in-memory cache", "addr", addr, "error", err)
		} else {
			deps.Cache = redisCache
			deps.Redis = redisCache
			deps.HealthProbe["redis"] = redisCache.Ping
		}
	}

	repo := &Repositories{
		Users:        repositories.NewUserGormRepository(orm),
		Plans:        repositories.NewPlanGormRepository(orm),
		Larps:        repositories.NewLarpGormRepository(orm),
		Participants: repositories.NewParticipantGormRepository(orm),
		Locations:    repositories.NewLocationGormRepository(orm),
	}

	if cfg.DBDriver == "postgres" {
		sqlDB, err := db.InitPostgres(cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		deps.SQL = sqlDB
		repo.Accounts = repositories.NewAccountRepository(sqlDB)
		deps.HealthProbe["postgres"] = repo.Accounts.Ping
	}
	deps.Repo = repo

	deps.Authorizer = auth.NewAuthorizer(repo.Participants, repo.Participants, metricsReg)
	deps.Actors = common.NewActorLoader(repo.Users, deps.Cache, cfg.ActorCacheTTL, metricsReg)

	larpWorkflow := services.NewLarpWorkflow(repo.Larps, metricsReg)
	deps.Services = &Services{
		Larps:        services.NewLarpService(repo.Larps, repo.Participants, repo.Locations, larpWorkflow, deps.Authorizer),
		Participants: services.NewParticipantService(repo.Larps, repo.Participants, repo.Users, deps.Authorizer),
		Locations:    services.NewLocationService(repo.Locations, deps.Authorizer, metricsReg),
		Accounts:     services.NewUserService(repo.Users, repo.Plans, repo.Participants, deps.Authorizer, deps.Actors),
		Workflow:     larpWorkflow,
	}
	deps.Completion = jobs.InitializeJobs(ctx, cfg, jobs.NewLarpCompletionJob(repo.Larps, larpWorkflow, metricsReg))

	return deps, nil
}

// Close releases the connections opened by InitDependencies.
func (d *Dependencies) Close() {
	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			logging.Warn("Cache close failed", "error", err)
		}
	}
	if d.SQL != nil {
		if err := d.SQL.Close(); err != nil {
			logging.Warn("sqlx close failed", "error", err)
		}
	}
}
