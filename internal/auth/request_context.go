package auth

import (
	"context"
)

type contextKey string

var actorKey contextKey = "actor"

func SetActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor returns the authenticated actor or nil.
func GetActor(ctx context.Context) *Actor {
	val := ctx.Value(actorKey)
	if actor, ok := val.(*Actor); ok {
		return actor
	}
	return nil
}
