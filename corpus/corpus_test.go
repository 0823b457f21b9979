package corpus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashOf(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(HashOf("abc"), HashOf("abc"))
	assert.NotEqual(HashOf("abc"), HashOf("abd"))
	assert.Len(HashOf("anything at all"), 16)
}

// exercises the full Store contract against a given implementation
func testStoreContract(t *testing.T, store Store) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	n, err := store.Len(ctx)
	require.NoError(err)
	assert.Equal(0, n)

	added, err := store.AddItems(ctx, "src-a", []string{"one two three", "", "   ", "four five six"})
	require.NoError(err)
	assert.Equal(2, added)

	// repeats within a source are dropped
	added, err = store.AddItems(ctx, "src-a", []string{"one two three", "seven eight"})
	require.NoError(err)
	assert.Equal(1, added)

	items, err := store.Items(ctx)
	require.NoError(err)
	assert.Equal([]string{"one two three", "four five six", "seven eight"}, items)

	n, err = store.Len(ctx)
	require.NoError(err)
	assert.Equal(3, n)

	hash := HashOf("a generated post")
	posted, err := store.WasPosted(ctx, hash)
	require.NoError(err)
	assert.False(posted)

	require.NoError(store.MarkPosted(ctx, hash))
	posted, err = store.WasPosted(ctx, hash)
	require.NoError(err)
	assert.True(posted)

	cursor, err := store.LastSeen(ctx, "src-a")
	require.NoError(err)
	assert.Equal("", cursor)

	require.NoError(store.SetLastSeen(ctx, "src-a", "cursor-1"))
	require.NoError(store.SetLastSeen(ctx, "src-a", "cursor-2"))
	cursor, err = store.LastSeen(ctx, "src-a")
	require.NoError(err)
	assert.Equal("cursor-2", cursor)
}

func TestMemStore(t *testing.T) {
	testStoreContract(t, NewMemStore())
}

func TestDBStoreSqlite(t *testing.T) {
	db, err := OpenDatabase("sqlite://:memory:", 4)
	require.NoError(t, err)

	store, err := NewDBStore(db)
	require.NoError(t, err)

	testStoreContract(t, store)
}
