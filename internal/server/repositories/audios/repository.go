package audios

import (
	"context"

	"github.com/starfox1230/memorize/internal/server/models"
)

type Repository interface {
	// Insert stores a new metadata record. The store assigns ID and
	// Timestamp; both are written back into item.
	Insert(ctx context.Context, item *models.AudioItem) error
	// GetByID returns the record for id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.AudioItem, error)
	// DeleteByID removes the record for id, or returns common.ErrorNotFound
	// when no row matches.
	DeleteByID(ctx context.Context, id string) error
	// List returns records ordered by timestamp descending. A non-empty user
	// restricts the result to that owner; an empty user returns everything.
	List(ctx context.Context, user string) ([]*models.AudioItem, error)
}
