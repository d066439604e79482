package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medinote/medinote/internal/platform/auth"
)

// ActorFrom builds the acting principal from the authenticated request
// context. It fails when auth middleware did not run or the claims are
// malformed.
func ActorFrom(ctx context.Context) (Actor, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return Actor{}, fmt.Errorf("no authenticated user in context")
	}
	role := auth.RoleFromContext(ctx)
	if !ValidRole(role) {
		return Actor{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return Actor{ID: id, Role: role}, nil
}
