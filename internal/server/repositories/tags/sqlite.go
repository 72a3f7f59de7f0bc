package tags

import "github.com/dmitrijs2005/gophdiary/internal/dbx"

var sqliteQueries = queries{
	findByName:   `SELECT id FROM tags WHERE name = ?`,
	insertIgnore: `INSERT INTO tags (name) VALUES (?) ON CONFLICT (name) DO NOTHING RETURNING id`,
	associate:    `INSERT INTO entry_tags (entry_id, tag_id) VALUES (?, ?) ON CONFLICT (entry_id, tag_id) DO NOTHING`,
	listForEntry: `
		SELECT t.id, t.name
		FROM tags t
		JOIN entry_tags et ON t.id = et.tag_id
		WHERE et.entry_id = ?
		ORDER BY t.name`,
	listAll: `SELECT id, name FROM tags ORDER BY name`,
}

// NewSQLiteRepository constructs a SQLite repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: sqliteQueries}
}
