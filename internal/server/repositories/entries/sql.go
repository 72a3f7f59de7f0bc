// Package entries provides SQL-backed repositories for diary entries.
package entries

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
)

type queries struct {
	insert     string
	list       string
	count      string
	listByTag  string
	countByTag string
}

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB, *sql.Conn or *sql.Tx).
// The SQL text is dialect specific, see NewPostgresRepository and NewSQLiteRepository.
type SQLRepository struct {
	db dbx.DBTX
	q  queries
}

// Insert stores entry and returns the generated id, also written back to entry.ID.
func (r *SQLRepository) Insert(ctx context.Context, entry *models.Entry) (int64, error) {
	err := r.db.QueryRowContext(ctx, r.q.insert, entry.Content, entry.Datetime).Scan(&entry.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert entry: %w", err)
	}
	return entry.ID, nil
}

// List returns a page of entries, newest id first.
func (r *SQLRepository) List(ctx context.Context, limit, offset int) ([]*models.Entry, error) {
	return r.selectEntries(ctx, r.q.list, limit, offset)
}

// Count returns the total number of entries.
func (r *SQLRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, r.q.count).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// ListByTag returns a page of the entries linked to tagID, latest datetime first.
func (r *SQLRepository) ListByTag(ctx context.Context, tagID int64, limit, offset int) ([]*models.Entry, error) {
	return r.selectEntries(ctx, r.q.listByTag, tagID, limit, offset)
}

// CountByTag returns the number of entries linked to tagID.
func (r *SQLRepository) CountByTag(ctx context.Context, tagID int64) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, r.q.countByTag, tagID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries by tag: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) selectEntries(ctx context.Context, query string, args ...any) ([]*models.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Entry, 0)
	for rows.Next() {
		var item models.Entry
		if err := rows.Scan(&item.ID, &item.Content, &item.Datetime); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
