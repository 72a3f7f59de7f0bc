package tags

import "github.com/dmitrijs2005/gophdiary/internal/dbx"

var postgresQueries = queries{
	findByName:   `SELECT id FROM tags WHERE name = $1`,
	insertIgnore: `INSERT INTO tags (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id`,
	associate:    `INSERT INTO entry_tags (entry_id, tag_id) VALUES ($1, $2) ON CONFLICT (entry_id, tag_id) DO NOTHING`,
	listForEntry: `
		SELECT t.id, t.name
		FROM tags t
		JOIN entry_tags et ON t.id = et.tag_id
		WHERE et.entry_id = $1
		ORDER BY t.name`,
	listAll: `SELECT id, name FROM tags ORDER BY name`,
}

// NewPostgresRepository constructs a PostgreSQL repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: postgresQueries}
}
