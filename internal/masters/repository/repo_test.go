package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenderops/procurement-backend/internal/masters/domain"
)

func setupRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return New(db), mock, db
}

func orgRow(id int64, name, acronym string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "name", "acronym", "created_at", "updated_at"}).
		AddRow(id, name, acronym, now, now)
}

func TestRepository_GetOrganisation(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	t.Run("returns the row", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM organizations`).
			WithArgs(int64(3)).
			WillReturnRows(orgRow(3, "National Thermal", "NTPC"))

		o, err := repo.GetOrganisation(context.Background(), 3)
		require.NoError(t, err)
		require.NotNil(t, o)
		assert.Equal(t, "NTPC", o.Acronym)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lookup miss is soft: nil, nil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM organizations`).
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		o, err := repo.GetOrganisation(context.Background(), 404)
		require.NoError(t, err)
		assert.Nil(t, o)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetItem(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	t.Run("lookup miss is soft: nil, nil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM items`).
			WithArgs(int64(404)).
			WillReturnError(sql.ErrNoRows)

		it, err := repo.GetItem(context.Background(), 404)
		require.NoError(t, err)
		assert.Nil(t, it)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_DeleteItem(t *testing.T) {
	repo, mock, db := setupRepo(t)
	defer db.Close()

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM items`).
			WithArgs(int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteItem(context.Background(), 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
