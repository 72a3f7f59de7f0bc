package tags

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/dmitrijs2005/gophdiary/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestFindOrCreate_Existing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM tags WHERE name = \$1`).
		WithArgs("work").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	id, created, err := repo.FindOrCreate(context.Background(), "work")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreate_InsertsTrimmedName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM tags WHERE name = \$1`).
		WithArgs("work").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO tags \(name\) VALUES \(\$1\) ON CONFLICT \(name\) DO NOTHING RETURNING id`).
		WithArgs("work").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))

	id, created, err := repo.FindOrCreate(context.Background(), "  work\t")
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)
	assert.True(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreate_LostRaceSelectsAgain(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM tags WHERE name = \$1`).
		WithArgs("work").
		WillReturnError(sql.ErrNoRows)
	// the conflicting row was committed by someone else: DO NOTHING returns no row
	mock.ExpectQuery(`INSERT INTO tags`).
		WithArgs("work").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT id FROM tags WHERE name = \$1`).
		WithArgs("work").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	id, created, err := repo.FindOrCreate(context.Background(), "work")
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreate_BlankName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	for _, name := range []string{"", "   ", "\n\t"} {
		_, _, err := repo.FindOrCreate(context.Background(), name)
		assert.ErrorIs(t, err, common.ErrValidation, "name %q", name)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreate_SelectError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM tags`).WillReturnError(errors.New("db down"))

	_, _, err := repo.FindOrCreate(context.Background(), "work")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to find tag")
	assert.NotErrorIs(t, err, sql.ErrNoRows)
}

func TestFindOrCreate_InsertError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM tags`).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO tags`).WillReturnError(errors.New("disk full"))

	_, _, err := repo.FindOrCreate(context.Background(), "work")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert tag: disk full")
}

func TestAssociate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO entry_tags \(entry_id, tag_id\) VALUES \(\$1, \$2\) ON CONFLICT \(entry_id, tag_id\) DO NOTHING`).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Associate(context.Background(), 1, 2))
}

func TestAssociate_Error(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO entry_tags`).WillReturnError(errors.New("fk violation"))

	err := repo.Associate(context.Background(), 1, 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to associate tag")
}

func TestListForEntry(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT t\.id, t\.name\s+FROM tags t\s+JOIN entry_tags et ON t\.id = et\.tag_id\s+WHERE et\.entry_id = \$1\s+ORDER BY t\.name`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(2), "home").AddRow(int64(1), "work"))

	got, err := repo.ListForEntry(context.Background(), 4)
	require.NoError(t, err)

	want := []models.Tag{{ID: 2, Name: "home"}, {ID: 1, Name: "work"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ListForEntry mismatch (-want +got):\n%s", diff)
	}
}

func TestListAll_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name FROM tags ORDER BY name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListAll_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name FROM tags`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("not-a-number", "x"))

	_, err := repo.ListAll(context.Background())
	require.Error(t, err)
}

func TestListAll_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name FROM tags`).WillReturnError(errors.New("gone"))

	_, err := repo.ListAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to select tags: gone")
}
