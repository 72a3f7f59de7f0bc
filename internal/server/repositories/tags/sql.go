// Package tags provides SQL-backed repositories for tags and entry-tag links.
package tags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/dbx"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
)

type queries struct {
	findByName   string
	insertIgnore string
	associate    string
	listForEntry string
	listAll      string
}

// SQLRepository implements Repository over a dbx.DBTX.
type SQLRepository struct {
	db dbx.DBTX
	q  queries
}

// FindOrCreate looks name up and inserts it when missing. A concurrent insert
// of the same name is absorbed by the unique constraint: the insert then
// returns no row and the existing id is selected again.
func (r *SQLRepository) FindOrCreate(ctx context.Context, name string) (int64, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false, fmt.Errorf("%w: tag name is blank", common.ErrValidation)
	}

	id, err := r.findByName(ctx, name)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, err
	}

	err = r.db.QueryRowContext(ctx, r.q.insertIgnore, name).Scan(&id)
	switch {
	case err == nil:
		return id, true, nil
	case errors.Is(err, sql.ErrNoRows):
		id, err = r.findByName(ctx, name)
		if err != nil {
			return 0, false, err
		}
		return id, false, nil
	default:
		return 0, false, fmt.Errorf("failed to insert tag: %w", err)
	}
}

func (r *SQLRepository) findByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, r.q.findByName, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find tag: %w", err)
	}
	return id, nil
}

// Associate links an entry to a tag, ignoring an already existing link.
func (r *SQLRepository) Associate(ctx context.Context, entryID, tagID int64) error {
	if _, err := r.db.ExecContext(ctx, r.q.associate, entryID, tagID); err != nil {
		return fmt.Errorf("failed to associate tag: %w", err)
	}
	return nil
}

// ListForEntry returns the tags of one entry ordered by name.
func (r *SQLRepository) ListForEntry(ctx context.Context, entryID int64) ([]models.Tag, error) {
	return r.selectTags(ctx, r.q.listForEntry, entryID)
}

// ListAll returns every tag ordered by name.
func (r *SQLRepository) ListAll(ctx context.Context) ([]models.Tag, error) {
	return r.selectTags(ctx, r.q.listAll)
}

func (r *SQLRepository) selectTags(ctx context.Context, query string, args ...any) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tags: %w", err)
	}
	defer rows.Close()

	result := make([]models.Tag, 0)
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
