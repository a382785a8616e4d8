package pollenstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/davidmasek/pollenstore/codec"
	"github.com/davidmasek/pollenstore/keydir"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "data.db")
}

func TestOpen(t *testing.T) {
	store, err := Open(tempStorePath(t))
	require.Nil(t, err)
	assert.NotNil(t, store)

	keys, err := store.List()
	assert.Nil(t, err)
	assert.Empty(t, keys)
	assert.Nil(t, store.Close())
}

func TestDiskStore_SetGet(t *testing.T) {
	store, err := Open(tempStorePath(t))
	require.Nil(t, err)
	defer store.Close()

	err = store.Set("name", "jojo")
	assert.Nil(t, err)

	value, err := store.Get("name")
	assert.Nil(t, err)
	assert.Equal(t, "jojo", value)

	// overwrite
	err = store.Set("name", "dio")
	assert.Nil(t, err)
	value, err = store.Get("name")
	assert.Nil(t, err)
	assert.Equal(t, "dio", value)
}

func TestDiskStore_MissingKey(t *testing.T) {
	store, err := Open(tempStorePath(t))
	require.Nil(t, err)
	defer store.Close()

	value, err := store.Get("anything-never-set")
	assert.Nil(t, err)
	assert.Equal(t, "", value)
}

func TestDiskStore_EmptyValue(t *testing.T) {
	store, err := Open(tempStorePath(t))
	require.Nil(t, err)
	defer store.Close()

	err = store.Set("name", "")
	assert.Nil(t, err)

	// indistinguishable from a missing key on Get, but still listed
	value, err := store.Get("name")
	assert.Nil(t, err)
	assert.Equal(t, "", value)

	keys, err := store.List()
	assert.Nil(t, err)
	assert.Equal(t, []string{"name"}, keys)
}

func TestDiskStore_Persistence(t *testing.T) {
	path := tempStorePath(t)
	store, err := Open(path)
	require.Nil(t, err)

	tests := map[string]string{
		"crime and punishment": "dostoevsky",
		"anna karenina":        "tolstoy",
		"war and peace":        "tolstoy",
		"hamlet":               "shakespeare",
		"othello":              "shakespeare",
		"brave new world":      "huxley",
		"dune":                 "frank herbert",
	}
	for k, v := range tests {
		assert.Nil(t, store.Set(k, v))
	}
	assert.Nil(t, store.Close())

	store, err = Open(path)
	require.Nil(t, err)
	defer store.Close()

	for k, v := range tests {
		value, err := store.Get(k)
		assert.Nil(t, err)
		assert.Equal(t, v, value)
	}
}

func TestDiskStore_RemoveThenPersistence(t *testing.T) {
	path := tempStorePath(t)
	store, err := Open(path)
	require.Nil(t, err)

	assert.Nil(t, store.Set("name", "jojo"))
	assert.Nil(t, store.Remove("name"))

	value, err := store.Get("name")
	assert.Nil(t, err)
	assert.Equal(t, "", value)
	assert.Nil(t, store.Close())

	store, err = Open(path)
	require.Nil(t, err)
	defer store.Close()

	value, err = store.Get("name")
	assert.Nil(t, err)
	assert.Equal(t, "", value)

	keys, err := store.List()
	assert.Nil(t, err)
	assert.NotContains(t, keys, "name")
}

func TestDiskStore_ListReflectsOverwrites(t *testing.T) {
	path := tempStorePath(t)
	store, err := Open(path)
	require.Nil(t, err)

	assert.Nil(t, store.Set("alpha", "xyz"))
	assert.Nil(t, store.Set("beta", "xyz"))
	assert.Nil(t, store.Set("alpha", "foo"))

	keys, err := store.List()
	assert.Nil(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"alpha", "beta"}, keys)

	assert.Nil(t, store.Remove("alpha"))
	keys, err = store.List()
	assert.Nil(t, err)
	assert.Equal(t, []string{"beta"}, keys)
	assert.Nil(t, store.Close())

	store, err = Open(path)
	require.Nil(t, err)
	defer store.Close()

	keys, err = store.List()
	assert.Nil(t, err)
	assert.Equal(t, []string{"beta"}, keys)
}

func TestDiskStore_RemoveMissingIsNoop(t *testing.T) {
	path := tempStorePath(t)
	store, err := Open(path)
	require.Nil(t, err)
	defer store.Close()

	assert.Nil(t, store.Remove("never-set"))

	// a no-op remove must not append a tombstone
	info, err := os.Stat(path)
	require.Nil(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestDiskStore_TombstoneGrowsLog(t *testing.T) {
	path := tempStorePath(t)
	store, err := Open(path)
	require.Nil(t, err)
	defer store.Close()

	assert.Nil(t, store.Set("name", "jojo"))
	before, err := os.Stat(path)
	require.Nil(t, err)

	assert.Nil(t, store.Remove("name"))
	after, err := os.Stat(path)
	require.Nil(t, err)

	// the tombstone is a real record: header + key, empty value
	assert.Equal(t, before.Size()+codec.HeaderSize+int64(len("name")), after.Size())
}

func TestDiskStore_TruncatedLogRejected(t *testing.T) {
	path := tempStorePath(t)
	store, err := Open(path)
	require.Nil(t, err)
	assert.Nil(t, store.Set("name", "jojo"))
	assert.Nil(t, store.Close())

	// append a record whose declared value extends past end of file
	cl := codec.NewCodecImpl()
	header, err := cl.EncodeHeader(10, int64(len("key")), 100)
	require.Nil(t, err)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.Nil(t, err)
	_, err = f.Write(append(header, "key"...))
	require.Nil(t, err)
	require.Nil(t, f.Close())

	_, err = Open(path)
	assert.ErrorIs(t, err, ErrCorruptLog)
}

func TestDiskStore_PartialHeaderRejected(t *testing.T) {
	path := tempStorePath(t)
	store, err := Open(path)
	require.Nil(t, err)
	assert.Nil(t, store.Set("name", "jojo"))
	assert.Nil(t, store.Close())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.Nil(t, err)
	_, err = f.Write([]byte{1, 2, 3, 4, 5})
	require.Nil(t, err)
	require.Nil(t, f.Close())

	_, err = Open(path)
	assert.ErrorIs(t, err, ErrCorruptLog)
}

func TestDiskStore_Closed(t *testing.T) {
	store, err := Open(tempStorePath(t))
	require.Nil(t, err)
	assert.Nil(t, store.Close())

	assert.ErrorIs(t, store.Set("k", "v"), ErrStoreClosed)
	_, err = store.Get("k")
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, store.Remove("k"), ErrStoreClosed)
	_, err = store.List()
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, store.Close(), ErrStoreClosed)
}

func TestDiskStore_DatabaseInUse(t *testing.T) {
	path := tempStorePath(t)
	store, err := Open(path)
	require.Nil(t, err)
	defer store.Close()

	_, err = Open(path)
	assert.ErrorIs(t, err, ErrDatabaseInUse)
}

func TestDiskStore_WithMapKeydir(t *testing.T) {
	path := tempStorePath(t)
	store, err := Open(path, WithKeydir(keydir.NewMap()))
	require.Nil(t, err)

	for i := 0; i < 50; i++ {
		assert.Nil(t, store.Set(fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i)))
	}
	for i := 0; i < 25; i++ {
		assert.Nil(t, store.Remove(fmt.Sprintf("key-%d", i)))
	}
	assert.Nil(t, store.Close())

	store, err = Open(path, WithKeydir(keydir.NewMap()))
	require.Nil(t, err)
	defer store.Close()

	keys, err := store.List()
	assert.Nil(t, err)
	assert.Equal(t, 25, len(keys))
}

func TestDiskStore_SetInvalidUTF8(t *testing.T) {
	path := tempStorePath(t)
	store, err := Open(path)
	require.Nil(t, err)

	// refused at encode time: nothing may reach the log that a later
	// replay would reject
	assert.ErrorIs(t, store.Set("\xff\xfe", "value"), codec.ErrInvalidEncoding)
	assert.ErrorIs(t, store.Set("key", "\xff\xfe"), codec.ErrInvalidEncoding)

	info, err := os.Stat(path)
	require.Nil(t, err)
	assert.Equal(t, int64(0), info.Size())

	keys, err := store.List()
	assert.Nil(t, err)
	assert.Empty(t, keys)
	assert.Nil(t, store.Close())

	// the log stays replayable
	store, err = Open(path)
	require.Nil(t, err)
	assert.Nil(t, store.Close())
}

func TestDiskStore_GetAfterInPlaceTruncation(t *testing.T) {
	path := tempStorePath(t)
	store, err := Open(path)
	require.Nil(t, err)
	defer store.Close()

	assert.Nil(t, store.Set("name", "jojo"))

	// shrink the file behind the store's back: the key directory now
	// promises more bytes than the file holds
	require.Nil(t, os.Truncate(path, 2))

	_, err = store.Get("name")
	assert.ErrorIs(t, err, ErrCorruptLog)
}

func TestDiskStore_FailedOpenLeavesKeydirEmpty(t *testing.T) {
	path := tempStorePath(t)
	store, err := Open(path)
	require.Nil(t, err)
	assert.Nil(t, store.Set("name", "jojo"))
	assert.Nil(t, store.Close())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.Nil(t, err)
	_, err = f.Write([]byte{1, 2, 3})
	require.Nil(t, err)
	require.Nil(t, f.Close())

	// replay aborts after inserting "name"; the injected keydir must not
	// keep entries from the aborted replay
	kd := keydir.NewMap()
	_, err = Open(path, WithKeydir(kd))
	assert.ErrorIs(t, err, ErrCorruptLog)
	assert.Equal(t, 0, kd.Len())
}
