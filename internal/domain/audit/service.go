package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medinote/medinote/internal/domain/identity"
	"github.com/medinote/medinote/internal/platform/middleware"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record fills actor network metadata from the request context and appends
// the entry. Callers run it inside the transaction of the mutation it
// describes; a failure here rolls the mutation back.
func (s *Service) Record(ctx context.Context, actor identity.Actor, action, entityType string, entityID uuid.UUID, label string, changes map[string]interface{}) error {
	e := &Entry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Label:      label,
		Changes:    changes,
		IPAddress:  middleware.ClientIPFromContext(ctx),
		UserAgent:  middleware.ClientUserAgentFromContext(ctx),
	}
	if err := s.repo.Record(ctx, e); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error) {
	return s.repo.List(ctx, f, limit, offset)
}
