package entries

import (
	"context"

	"github.com/dmitrijs2005/gophdiary/internal/server/models"
)

// Repository stores diary entries. Bound to a pool connection it is the
// simple insert path; bound to a transaction it takes part in the caller's
// unit of work.
type Repository interface {
	Insert(ctx context.Context, entry *models.Entry) (int64, error)
	List(ctx context.Context, limit, offset int) ([]*models.Entry, error)
	Count(ctx context.Context) (int64, error)
	ListByTag(ctx context.Context, tagID int64, limit, offset int) ([]*models.Entry, error)
	CountByTag(ctx context.Context, tagID int64) (int64, error)
}
