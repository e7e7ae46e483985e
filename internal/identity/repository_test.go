// AngelaMos | 2026
// repository_test.go

package identity

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/reviewboard/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

// Deleting a user cascades their reviews away, so the titles they had
// reviewed must get their rating recomputed in the same transaction.
func TestDeleteRecomputesReviewedTitleRatings(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT DISTINCT r\.title_id`).
		WithArgs("prolific").
		WillReturnRows(sqlmock.NewRows([]string{"title_id"}).
			AddRow("title1").
			AddRow("title2"))
	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("prolific").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE titles[\s\S]*AVG\(score\)`).
		WithArgs("title1", "title2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), "prolific")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWithoutReviewsSkipsRecompute(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT DISTINCT r\.title_id`).
		WithArgs("lurker").
		WillReturnRows(sqlmock.NewRows([]string{"title_id"}))
	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("lurker").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), "lurker")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUnknownUserRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT DISTINCT r\.title_id`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"title_id"}))
	mock.ExpectExec(`DELETE FROM users`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "ghost")
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
