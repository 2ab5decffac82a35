package docstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lromero/smartlink/internal/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_InsertAndGet(t *testing.T) {
	t.Run("round-trips a document", func(t *testing.T) {
		store := docstore.NewMemoryStore()

		id, err := store.Insert(context.Background(), "things", docstore.Document{
			"name":  "first",
			"count": 3,
		})

		require.NoError(t, err)
		require.NotEmpty(t, id)

		record, err := store.Get(context.Background(), "things", id)

		require.NoError(t, err)
		assert.Equal(t, "first", record.Data["name"])
		// JSON normalization turns numbers into float64
		assert.Equal(t, float64(3), record.Data["count"])
	})

	t.Run("get of unknown id returns ErrNotFound", func(t *testing.T) {
		store := docstore.NewMemoryStore()

		_, err := store.Get(context.Background(), "things", "nope")

		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("assigns distinct ids", func(t *testing.T) {
		store := docstore.NewMemoryStore()

		id1, err := store.Insert(context.Background(), "things", docstore.Document{"n": 1})
		require.NoError(t, err)

		id2, err := store.Insert(context.Background(), "things", docstore.Document{"n": 2})
		require.NoError(t, err)

		assert.NotEqual(t, id1, id2)
	})
}

func TestMemoryStore_QueryEquals(t *testing.T) {
	t.Run("matches string fields", func(t *testing.T) {
		store := docstore.NewMemoryStore()

		_, err := store.Insert(context.Background(), "things", docstore.Document{"owner": "alice"})
		require.NoError(t, err)
		_, err = store.Insert(context.Background(), "things", docstore.Document{"owner": "alice"})
		require.NoError(t, err)
		_, err = store.Insert(context.Background(), "things", docstore.Document{"owner": "bob"})
		require.NoError(t, err)

		records, err := store.QueryEquals(context.Background(), "things", "owner", "alice")

		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("no matches yields empty result", func(t *testing.T) {
		store := docstore.NewMemoryStore()

		records, err := store.QueryEquals(context.Background(), "things", "owner", "nobody")

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("collections are isolated", func(t *testing.T) {
		store := docstore.NewMemoryStore()

		_, err := store.Insert(context.Background(), "a", docstore.Document{"k": "v"})
		require.NoError(t, err)

		records, err := store.QueryEquals(context.Background(), "b", "k", "v")

		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestMemoryStore_AtomicIncrementAndTimestamp(t *testing.T) {
	t.Run("increments counter and stamps time", func(t *testing.T) {
		store := docstore.NewMemoryStore()

		id, err := store.Insert(context.Background(), "things", docstore.Document{
			"clicks":    0,
			"clickedAt": nil,
		})
		require.NoError(t, err)

		before := time.Now().UTC()

		err = store.AtomicIncrementAndTimestamp(context.Background(), "things", id, "clicks", "clickedAt")
		require.NoError(t, err)

		record, err := store.Get(context.Background(), "things", id)
		require.NoError(t, err)

		assert.Equal(t, float64(1), record.Data["clicks"])

		stamped, err := time.Parse(time.RFC3339Nano, record.Data["clickedAt"].(string))
		require.NoError(t, err)
		assert.False(t, stamped.Before(before.Truncate(time.Second)))
	})

	t.Run("unknown id returns ErrNotFound", func(t *testing.T) {
		store := docstore.NewMemoryStore()

		err := store.AtomicIncrementAndTimestamp(context.Background(), "things", "nope", "clicks", "clickedAt")

		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("concurrent increments never lose updates", func(t *testing.T) {
		store := docstore.NewMemoryStore()

		id, err := store.Insert(context.Background(), "things", docstore.Document{"clicks": 0})
		require.NoError(t, err)

		const visitors = 100

		var wg sync.WaitGroup

		wg.Add(visitors)

		for i := 0; i < visitors; i++ {
			go func() {
				defer wg.Done()

				_ = store.AtomicIncrementAndTimestamp(context.Background(), "things", id, "clicks", "clickedAt")
			}()
		}

		wg.Wait()

		record, err := store.Get(context.Background(), "things", id)
		require.NoError(t, err)
		assert.Equal(t, float64(visitors), record.Data["clicks"])
	})
}

func TestMemoryStore_Update(t *testing.T) {
	t.Run("merges fields", func(t *testing.T) {
		store := docstore.NewMemoryStore()

		id, err := store.Insert(context.Background(), "things", docstore.Document{
			"status": "Applied",
			"role":   "SRE",
		})
		require.NoError(t, err)

		err = store.Update(context.Background(), "things", id, docstore.Document{"status": "Interviewing"})
		require.NoError(t, err)

		record, err := store.Get(context.Background(), "things", id)
		require.NoError(t, err)
		assert.Equal(t, "Interviewing", record.Data["status"])
		assert.Equal(t, "SRE", record.Data["role"])
	})

	t.Run("unknown id returns ErrNotFound", func(t *testing.T) {
		store := docstore.NewMemoryStore()

		err := store.Update(context.Background(), "things", "nope", docstore.Document{"status": "x"})

		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})
}

func TestMemoryStore_Delete(t *testing.T) {
	t.Run("removes the document", func(t *testing.T) {
		store := docstore.NewMemoryStore()

		id, err := store.Insert(context.Background(), "things", docstore.Document{"k": "v"})
		require.NoError(t, err)

		err = store.Delete(context.Background(), "things", id)
		require.NoError(t, err)

		_, err = store.Get(context.Background(), "things", id)
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("deleting an absent id is not an error", func(t *testing.T) {
		store := docstore.NewMemoryStore()

		err := store.Delete(context.Background(), "things", "nope")

		assert.NoError(t, err)
	})
}
