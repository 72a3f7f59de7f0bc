package entries

import "github.com/dmitrijs2005/gophdiary/internal/dbx"

var postgresQueries = queries{
	insert: `INSERT INTO entries (content, datetime) VALUES ($1, $2) RETURNING id`,
	list:   `SELECT id, content, datetime FROM entries ORDER BY id DESC LIMIT $1 OFFSET $2`,
	count:  `SELECT COUNT(*) FROM entries`,
	listByTag: `
		SELECT e.id, e.content, e.datetime
		FROM entries e
		JOIN entry_tags et ON e.id = et.entry_id
		WHERE et.tag_id = $1
		ORDER BY e.datetime DESC, e.id DESC
		LIMIT $2 OFFSET $3`,
	countByTag: `
		SELECT COUNT(*)
		FROM entries e
		JOIN entry_tags et ON e.id = et.entry_id
		WHERE et.tag_id = $1`,
}

// NewPostgresRepository constructs a PostgreSQL repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: postgresQueries}
}
