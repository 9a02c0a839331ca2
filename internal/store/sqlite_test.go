package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	got, err := s.Get(ctx, KeyWorkspaceDraft)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set(ctx, KeyWorkspaceDraft, []byte(`{"a":1}`)))
	require.NoError(t, s.Set(ctx, KeyWorkspaceDraft, []byte(`{"a":2}`)))

	got, err = s.Get(ctx, KeyWorkspaceDraft)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	require.NoError(t, s.Delete(ctx, KeyWorkspaceDraft))
	got, err = s.Get(ctx, KeyWorkspaceDraft)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "assistant.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyProfiles, []byte("[]")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, KeyProfiles)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestSQLiteStore_WriteFailureIsWriteError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO records").
		WithArgs(KeyProfiles, []byte("x")).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectExec("DELETE FROM records").
		WithArgs(KeyProfiles).
		WillReturnError(errors.New("database is locked"))

	s := NewSQLiteStoreFromDB(db)
	ctx := context.Background()

	err = s.Set(ctx, KeyProfiles, []byte("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)
	assert.Contains(t, err.Error(), "disk I/O error")

	assert.ErrorIs(t, s.Delete(ctx, KeyProfiles), ErrWrite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_ReadFailureIsNotWriteError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM records").
		WithArgs(KeyProfiles).
		WillReturnError(errors.New("boom"))

	_, err = NewSQLiteStoreFromDB(db).Get(context.Background(), KeyProfiles)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrWrite))
	assert.NoError(t, mock.ExpectationsWereMet())
}
