// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
)

func createDatabase(t *testing.T, backend Backend, content map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(dir, backend, Options{})
	require.NoError(t, err)
	for k, v := range content {
		require.NoError(t, store.Put([]byte(k), []byte(v)))
	}
	require.NoError(t, store.Close())
	return dir
}

func requireContent(t *testing.T, store ethdb.KeyValueReader, content map[string]string) {
	t.Helper()
	for k, v := range content {
		got, err := store.Get([]byte(k))
		require.NoError(t, err)
		require.Equal(t, []byte(v), got)
	}
	has, err := store.Has([]byte("missing"))
	require.NoError(t, err)
	require.False(t, has)
	_, err = store.Get([]byte("missing"))
	require.Error(t, err)
}

func TestOpen_ReadOnlyStoresProvideContent(t *testing.T) {
	content := map[string]string{"key1": "value1", "key2": "value2"}
	for _, backend := range []Backend{BackendLevelDB, BackendPebble} {
		t.Run(string(backend), func(t *testing.T) {
			dir := createDatabase(t, backend, content)
			store, err := Open(dir, backend, Options{CacheMiB: 16, Handles: 64, ReadOnly: true})
			require.NoError(t, err)
			defer func() { require.NoError(t, store.Close()) }()

			requireContent(t, store, content)
			require.Error(t, store.Put([]byte("key3"), []byte("value3")), "read-only store must reject writes")
		})
	}
}

func TestOpen_ReadsLevelDbWrittenByOtherTools(t *testing.T) {
	dir := t.TempDir()
	db, err := leveldb.OpenFile(dir, nil)
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("key"), []byte("value"), nil))
	require.NoError(t, db.Close())

	store, err := Open(dir, BackendAuto, Options{ReadOnly: true})
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()
	requireContent(t, store, map[string]string{"key": "value"})
}

func TestOpen_ReadsPebbleWrittenByOtherTools(t *testing.T) {
	dir := t.TempDir()
	db, err := pebble.Open(dir, &pebble.Options{})
	require.NoError(t, err)
	require.NoError(t, db.Set([]byte("key"), []byte("value"), pebble.Sync))
	require.NoError(t, db.Close())

	backend, err := DetectBackend(dir)
	require.NoError(t, err)
	require.Equal(t, BackendPebble, backend)

	store, err := Open(dir, BackendAuto, Options{ReadOnly: true})
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()
	requireContent(t, store, map[string]string{"key": "value"})
}

func TestOpen_ReadOnlyDoesNotCreateDatabases(t *testing.T) {
	for _, backend := range []Backend{BackendAuto, BackendLevelDB, BackendPebble} {
		t.Run(string(backend), func(t *testing.T) {
			dir := t.TempDir()
			_, err := Open(dir, backend, Options{ReadOnly: true})
			require.Error(t, err)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			require.Empty(t, entries)

			missing := filepath.Join(dir, "missing")
			_, err = Open(missing, backend, Options{ReadOnly: true})
			require.Error(t, err)
			_, err = os.Stat(missing)
			require.True(t, os.IsNotExist(err))
		})
	}
}

func TestOpen_ReadOnlyFailsWhileWriterHoldsLock(t *testing.T) {
	dir := createDatabase(t, BackendLevelDB, nil)
	writer, err := Open(dir, BackendLevelDB, Options{})
	require.NoError(t, err)
	defer func() { require.NoError(t, writer.Close()) }()

	_, err = Open(dir, BackendLevelDB, Options{ReadOnly: true})
	require.Error(t, err)
}

func TestOpen_RejectsMismatchingBackend(t *testing.T) {
	dir := createDatabase(t, BackendLevelDB, nil)
	_, err := Open(dir, BackendPebble, Options{ReadOnly: true})
	require.ErrorContains(t, err, "uses leveldb")
}

func TestOpen_RejectsFiles(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("data"), 0600))
	_, err := Open(file, BackendAuto, Options{ReadOnly: true})
	require.ErrorContains(t, err, "not a directory")
}

func TestOpen_NewDatabasesDefaultToPebble(t *testing.T) {
	dir := createDatabase(t, BackendAuto, map[string]string{"k": "v"})
	backend, err := DetectBackend(dir)
	require.NoError(t, err)
	require.Equal(t, BackendPebble, backend)
}

func TestDetectBackend_DistinguishesEngines(t *testing.T) {
	backend, err := DetectBackend(createDatabase(t, BackendLevelDB, nil))
	require.NoError(t, err)
	require.Equal(t, BackendLevelDB, backend)

	backend, err = DetectBackend(createDatabase(t, BackendPebble, nil))
	require.NoError(t, err)
	require.Equal(t, BackendPebble, backend)

	_, err = DetectBackend(t.TempDir())
	require.ErrorContains(t, err, "no database found")
}

func TestParseBackend_AcceptsKnownNames(t *testing.T) {
	for name, want := range map[string]Backend{
		"":        BackendAuto,
		"auto":    BackendAuto,
		"leveldb": BackendLevelDB,
		"pebble":  BackendPebble,
	} {
		got, err := ParseBackend(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseBackend("rocksdb")
	require.Error(t, err)
	require.Equal(t, []string{"leveldb", "pebble"}, Backends())
}
