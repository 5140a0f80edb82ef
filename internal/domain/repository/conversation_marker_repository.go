package repository

import (
	"context"

	"ojalocal/internal/domain/entity"
)

type ConversationMarkerRepository interface {
	// Create is idempotent: inserting an existing marker is a no-op.
	Create(ctx context.Context, marker *entity.ConversationMarker) error
}
