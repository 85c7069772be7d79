package localstate

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridloal/e-commerce-go-storefront/internal/platform/database"
)

func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Get(ctx, KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, KeyCart, []byte(`[{"id":1}]`)))
	got, err := store.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))

	require.NoError(t, store.Set(ctx, KeyCart, []byte(`[]`)))
	got, err = store.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, store.Delete(ctx, KeyCart))
	_, err = store.Get(ctx, KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	db, err := database.Connect(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()

	exerciseStore(t, NewSQLiteStore(db))
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	db, err := database.Connect(path)
	require.NoError(t, err)
	require.NoError(t, NewSQLiteStore(db).Set(ctx, KeyTheme, []byte(ThemeDark)))
	require.NoError(t, db.Close())

	db, err = database.Connect(path)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, ThemeDark, NewThemePreference(NewSQLiteStore(db)).Get(ctx))
}

func TestSQLiteStore_QueryErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLiteStore(db)
	ctx := context.Background()
	dbErr := errors.New("disk I/O error")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM local_state WHERE state_key = ?`)).
		WithArgs(KeyCart).
		WillReturnError(dbErr)
	_, err = store.Get(ctx, KeyCart)
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO local_state`)).
		WithArgs(KeyCart, []byte(`[]`)).
		WillReturnError(dbErr)
	assert.ErrorIs(t, store.Set(ctx, KeyCart, []byte(`[]`)), dbErr)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM local_state WHERE state_key = ?`)).
		WithArgs(KeyCart).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, store.Delete(ctx, KeyCart))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client)
	exerciseStore(t, store)

	require.NoError(t, store.Set(context.Background(), KeyTheme, []byte(ThemeDark)))
	raw, err := mr.Get("storefront:theme")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, raw)
	assert.Zero(t, mr.TTL("storefront:theme"))
}

func TestRedisStore_ConnectionError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err := NewRedisStore(client).Get(context.Background(), KeyCart)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestThemePreference_DefaultAndToggle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	pref := NewThemePreference(NewRedisStore(client))
	ctx := context.Background()

	assert.Equal(t, ThemeLight, pref.Get(ctx))

	next, err := pref.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, next)
	assert.Equal(t, ThemeDark, pref.Get(ctx))

	next, err = pref.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, next)

	mr.Set("storefront:theme", "neon")
	assert.Equal(t, ThemeLight, pref.Get(ctx))
}
