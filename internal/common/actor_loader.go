package common

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"larpilot/backoffice/internal/auth"
	"larpilot/backoffice/internal/constants"
	models "larpilot/backoffice/internal/models/gorm"
)

// UserLookup loads a user with its plan.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// CacheObserver is told about every cache lookup, e.g. for metrics.
type CacheObserver interface {
	RecordCacheLookup(pattern string, hit bool)
}

// ActorLoader resolves the authenticated user into an auth.Actor. Results are
// cached and concurrent misses for the same user share one query.
type ActorLoader struct {
	users    UserLookup
	cache    CacheInterface
	ttl      time.Duration
	observer CacheObserver
	group    singleflight.Group
}

func NewActorLoader(users UserLookup, cache CacheInterface, ttl time.Duration, observer CacheObserver) *ActorLoader {
	return &ActorLoader{
		users:    users,
		cache:    cache,
		ttl:      ttl,
		observer: observer,
	}
}

func (l *ActorLoader) Load(ctx context.Context, userID string) (*auth.Actor, error) {
	key := actorCacheKey(userID)

	var cached auth.Actor
	if l.cache.Get(key, &cached) {
		l.observe(true)
		return &cached, nil
	}
	l.observe(false)

	v, err, _ := l.group.Do(key, func() (any, error) {
		user, err := l.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		actor := user.ToActor()
		l.cache.Set(key, actor, l.ttl)
		return actor, nil
	})
	if err != nil {
		return nil, err
	}

	// Each caller gets its own copy.
	actor := *v.(*auth.Actor)
	return &actor, nil
}

// Invalidate drops the cached actor after an account change.
func (l *ActorLoader) Invalidate(userID string) {
	l.cache.Delete(actorCacheKey(userID))
}

func (l *ActorLoader) observe(hit bool) {
	if l.observer != nil {
		l.observer.RecordCacheLookup("actor", hit)
	}
}

func actorCacheKey(userID string) string {
	return string(constants.CachePrefixActor) + userID
}
