package env

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestEnv(t *testing.T) *Env {
	t.Helper()
	e, err := Open(Options{
		Path:   filepath.Join(t.TempDir(), "env"),
		MaxDBs: 8,
		Create: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func put(t *testing.T, e *Env, db *DB, key, value string) {
	t.Helper()
	txn := e.Begin()
	require.NoError(t, txn.Put(db, []byte(key), []byte(value)))
	require.NoError(t, txn.Commit())
}

func TestCloseIsIdempotent(t *testing.T) {
	e := openTestEnv(t)
	require.NoError(t, e.Close())
	// The cleanup registered by openTestEnv closes again; an explicit
	// second close must also be a no-op.
	require.NoError(t, e.Close())
}

func TestOpenMissingEnvironmentFails(t *testing.T) {
	_, err := Open(Options{Path: filepath.Join(t.TempDir(), "absent")})
	assert.Error(t, err)
}

func TestPutGetDelete(t *testing.T) {
	e := openTestEnv(t)
	main, err := e.OpenDB(MainDB)
	require.NoError(t, err)

	put(t, e, main, "alpha", "1")

	got, err := main.Get([]byte("alpha"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	_, err = main.Get([]byte("missing"))
	assert.ErrorIs(t, err, ErrKeyNotFound)

	txn := e.Begin()
	require.NoError(t, txn.Delete(main, []byte("alpha")))
	require.NoError(t, txn.Commit())

	_, err = main.Get([]byte("alpha"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestEntryCountTracking(t *testing.T) {
	e := openTestEnv(t)
	main, err := e.OpenDB("")
	require.NoError(t, err)

	put(t, e, main, "a", "1")
	put(t, e, main, "b", "2")
	// Overwrite must not change the count.
	put(t, e, main, "a", "3")

	n, err := main.Entries()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	txn := e.Begin()
	require.NoError(t, txn.Delete(main, []byte("a")))
	// Deleting an absent key is a no-op for the count.
	require.NoError(t, txn.Delete(main, []byte("zzz")))
	require.NoError(t, txn.Commit())

	n, err = main.Entries()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}

func TestPutNoOverwrite(t *testing.T) {
	e := openTestEnv(t)
	main, err := e.OpenDB(MainDB)
	require.NoError(t, err)

	txn := e.Begin()
	stored, err := txn.PutNoOverwrite(main, []byte("k"), []byte("first"))
	require.NoError(t, err)
	assert.True(t, stored)
	stored, err = txn.PutNoOverwrite(main, []byte("k"), []byte("second"))
	require.NoError(t, err)
	assert.False(t, stored)
	require.NoError(t, txn.Commit())

	got, err := main.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)
}

func TestTxnGetSeesPendingWrites(t *testing.T) {
	e := openTestEnv(t)
	main, err := e.OpenDB(MainDB)
	require.NoError(t, err)

	txn := e.Begin()
	require.NoError(t, txn.Put(main, []byte("k"), []byte("v")))
	got, err := txn.Get(main, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	txn.Discard()

	_, err = main.Get([]byte("k"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestTxnAutoCommitChunks(t *testing.T) {
	e := openTestEnv(t)
	main, err := e.OpenDB(MainDB)
	require.NoError(t, err)

	txn := e.Begin()
	txn.MaxPuts = 10
	for i := 0; i < 95; i++ {
		require.NoError(t, txn.Put(main, []byte(fmt.Sprintf("key-%02d", i)), []byte("v")))
	}
	require.NoError(t, txn.Commit())

	n, err := main.Entries()
	require.NoError(t, err)
	assert.Equal(t, uint64(95), n)

	cur, err := main.Cursor()
	require.NoError(t, err)
	defer cur.Close()
	count := 0
	for cur.Next() {
		count++
	}
	require.NoError(t, cur.Err())
	assert.Equal(t, 95, count)
}

func TestCursorOrderAndIsolation(t *testing.T) {
	e := openTestEnv(t)
	main, err := e.OpenDB(MainDB)
	require.NoError(t, err)
	other, err := e.OpenDB("other")
	require.NoError(t, err)

	put(t, e, main, "b", "main-b")
	put(t, e, main, "a", "main-a")
	put(t, e, other, "c", "other-c")

	cur, err := main.Cursor()
	require.NoError(t, err)
	defer cur.Close()

	var keys []string
	for cur.Next() {
		keys = append(keys, string(cur.Key()))
	}
	require.NoError(t, cur.Err())
	assert.Equal(t, []string{"a", "b"}, keys, "cursor must be ordered and scoped to one sub-database")
}

func TestSubDatabasePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env")

	e, err := Open(Options{Path: path, MaxDBs: 8, Create: true})
	require.NoError(t, err)
	db, err := e.OpenDB("users")
	require.NoError(t, err)
	put(t, e, db, "u1", "alice")
	require.NoError(t, e.Close())

	e2, err := Open(Options{Path: path, MaxDBs: 8})
	require.NoError(t, err)
	defer e2.Close()

	assert.Equal(t, []string{MainDB, "users"}, e2.DBNames())
	db2, err := e2.OpenDB("users")
	require.NoError(t, err)
	got, err := db2.Get([]byte("u1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("alice"), got)
}

func TestMaxDBsLimit(t *testing.T) {
	e, err := Open(Options{Path: filepath.Join(t.TempDir(), "env"), MaxDBs: 2, Create: true})
	require.NoError(t, err)
	defer e.Close()

	_, err = e.OpenDB("one")
	require.NoError(t, err)
	_, err = e.OpenDB("two")
	require.NoError(t, err)
	_, err = e.OpenDB("three")
	assert.ErrorIs(t, err, ErrTooManyDBs)
}

func TestDrop(t *testing.T) {
	e := openTestEnv(t)
	main, err := e.OpenDB(MainDB)
	require.NoError(t, err)
	db, err := e.OpenDB("scratch")
	require.NoError(t, err)

	put(t, e, db, "k", "v")
	require.NoError(t, e.Drop(db))

	assert.Equal(t, []string{MainDB}, e.DBNames())
	assert.ErrorIs(t, e.Drop(main), ErrMainDrop)
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env")
	e, err := Open(Options{Path: path, Create: true})
	require.NoError(t, err)
	main, err := e.OpenDB(MainDB)
	require.NoError(t, err)
	put(t, e, main, "k", "v")
	require.NoError(t, e.Close())

	ro, err := Open(Options{Path: path, ReadOnly: true})
	require.NoError(t, err)
	defer ro.Close()

	roMain, err := ro.OpenDB(MainDB)
	require.NoError(t, err)
	txn := ro.Begin()
	defer txn.Discard()
	assert.ErrorIs(t, txn.Put(roMain, []byte("x"), []byte("y")), ErrReadOnly)

	_, err = ro.OpenDB("newdb")
	assert.ErrorIs(t, err, ErrNoSuchDB)
}
