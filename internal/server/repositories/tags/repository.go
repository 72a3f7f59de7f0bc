package tags

import (
	"context"

	"github.com/dmitrijs2005/gophdiary/internal/server/models"
)

// Repository stores tags and their links to entries.
type Repository interface {
	// FindOrCreate returns the id of the tag called name, inserting it when
	// absent. created reports whether this call inserted the row.
	FindOrCreate(ctx context.Context, name string) (id int64, created bool, err error)
	// Associate links entryID to tagID. Linking twice is a no-op.
	Associate(ctx context.Context, entryID, tagID int64) error
	ListForEntry(ctx context.Context, entryID int64) ([]models.Tag, error)
	ListAll(ctx context.Context) ([]models.Tag, error)
}
