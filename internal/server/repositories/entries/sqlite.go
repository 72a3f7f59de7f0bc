package entries

import "github.com/dmitrijs2005/gophdiary/internal/dbx"

var sqliteQueries = queries{
	insert: `INSERT INTO entries (content, datetime) VALUES (?, ?) RETURNING id`,
	list:   `SELECT id, content, datetime FROM entries ORDER BY id DESC LIMIT ? OFFSET ?`,
	count:  `SELECT COUNT(*) FROM entries`,
	listByTag: `
		SELECT e.id, e.content, e.datetime
		FROM entries e
		JOIN entry_tags et ON e.id = et.entry_id
		WHERE et.tag_id = ?
		ORDER BY e.datetime DESC, e.id DESC
		LIMIT ? OFFSET ?`,
	countByTag: `
		SELECT COUNT(*)
		FROM entries e
		JOIN entry_tags et ON e.id = et.entry_id
		WHERE et.tag_id = ?`,
}

// NewSQLiteRepository constructs a SQLite repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: sqliteQueries}
}
