package kvstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestSQLite_GetDBErrorWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteStore(db)
	require.NoError(t, db.Close())

	v, err := r.Get(context.Background(), "k")
	require.Error(t, err)
	require.Nil(t, v)
	require.Contains(t, err.Error(), "failed to get kv[k]")
}

func TestSQLite_SetDBErrorWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteStore(db)
	require.NoError(t, db.Close())

	err := r.Set(context.Background(), "k", []byte("v"))
	require.ErrorContains(t, err, "failed to set kv[k]")
}

func TestSQLite_DeleteDBErrorWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteStore(db)
	require.NoError(t, db.Close())

	require.ErrorContains(t, r.Delete(context.Background(), "k"), "failed to delete kv[k]")
}

func TestSQLite_ClearAndListDBErrorWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteStore(db)
	require.NoError(t, db.Close())

	require.ErrorContains(t, r.Clear(context.Background()), "failed to clear kv")
	_, err := r.List(context.Background(), "")
	require.ErrorContains(t, err, "failed to list kv")
}

func TestSQLite_SetManyRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_store")).
		WithArgs("alice_history", []byte("[]")).
		WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	r := NewSQLiteStore(db)
	err = r.SetMany(context.Background(), map[string][]byte{"alice_history": []byte("[]")})
	require.ErrorContains(t, err, "failed to set kv batch")
	require.ErrorContains(t, err, "locked")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLite_ListEscapesLikeWildcards(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteStore(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a_b", []byte("1")))
	require.NoError(t, r.Set(ctx, "axb", []byte("2")))

	m, err := r.List(ctx, "a_")
	require.NoError(t, err)
	require.Len(t, m, 1)
	require.Contains(t, m, "a_b")
}

func TestSQLite_ListIsCaseSensitive(t *testing.T) {
	r := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "secure/alice/profile", []byte("1")))
	require.NoError(t, r.Set(ctx, "secure/Alice/profile", []byte("2")))

	m, err := r.List(ctx, "secure/alice/")
	require.NoError(t, err)
	require.Equal(t, map[string][]byte{"secure/alice/profile": []byte("1")}, m)
}
