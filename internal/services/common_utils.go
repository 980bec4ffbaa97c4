package services

import (
	"context"
	"fmt"

	"larpilot/backoffice/internal/apperr"
	"larpilot/backoffice/internal/auth"
	"larpilot/backoffice/internal/constants"
	"larpilot/backoffice/internal/logging"
)

// authorize turns a denial into a FORBIDDEN AppError carrying message.
// Programming errors from the authorizer pass through unchanged.
func authorize(ctx context.Context, authz *auth.Authorizer, actor *auth.Actor, permission constants.Permission, target any, message string) error {
	granted, err := authz.IsGranted(ctx, actor, permission, target)
	if err != nil {
		return fmt.Errorf("authorize %s: %w", permission, err)
	}
	if !granted {
		logging.Warn("Permission denied",
			"permission", permission.String(),
			"actor_id", actorID(actor),
			"target", describeTarget(target),
		)
		return apperr.New(apperr.CodeForbidden, message)
	}
	return nil
}

func actorID(actor *auth.Actor) string {
	if actor == nil {
		return ""
	}
	return actor.UserID
}

func describeTarget(target any) string {
	switch t := target.(type) {
	case nil:
		return ""
	case auth.LarpScoped:
		return "larp:" + t.ScopeLarpID()
	case auth.LocationResource:
		return "location created by " + t.CreatorID()
	default:
		return fmt.Sprintf("%T", target)
	}
}
