package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCached(t *testing.T) (*CachedRepository, sqlmock.Sqlmock, *miniredis.Miniredis) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCached(New(db), client, time.Minute), mock, mr
}

func TestCachedRepository_ReadThrough(t *testing.T) {
	cached, mock, mr := setupCached(t)
	ctx := context.Background()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM items`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(7, "Cement", now, now))

	// First read goes to the database and populates the cache.
	it, err := cached.GetItem(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.Equal(t, "Cement", it.Name)
	assert.True(t, mr.Exists("master:item:7"))

	// Second read is served from Redis: no further DB expectations.
	it, err = cached.GetItem(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.Equal(t, "Cement", it.Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedRepository_MissIsNotCached(t *testing.T) {
	cached, mock, mr := setupCached(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT (.+) FROM organizations`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	o, err := cached.GetOrganisation(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, o)
	assert.False(t, mr.Exists("master:org:404"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedRepository_DeleteInvalidates(t *testing.T) {
	cached, mock, mr := setupCached(t)
	ctx := context.Background()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM items`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(7, "Cement", now, now))

	_, err := cached.GetItem(ctx, 7)
	require.NoError(t, err)
	require.True(t, mr.Exists("master:item:7"))

	mock.ExpectExec(`DELETE FROM items`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, cached.DeleteItem(ctx, 7))
	assert.False(t, mr.Exists("master:item:7"))
	require.NoError(t, mock.ExpectationsWereMet())
}
