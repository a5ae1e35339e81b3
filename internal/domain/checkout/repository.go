package checkout

import (
	"context"

	"github.com/google/uuid"
)

// SessionRepository persists checkout sessions
type SessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// FindOpenByUser and FindOpenByGuest return sessions not yet in a terminal status
	FindOpenByUser(ctx context.Context, userID uuid.UUID) ([]Session, error)
	FindOpenByGuest(ctx context.Context, guestID string) ([]Session, error)

	Save(ctx context.Context, s *Session) error
}
