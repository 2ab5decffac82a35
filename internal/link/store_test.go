package link_test

import (
	"context"
	"testing"
	"time"

	"github.com/lromero/smartlink/internal/docstore"
	"github.com/lromero/smartlink/internal/link"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *link.Store {
	t.Helper()

	generator, err := link.NewSlugGenerator()
	require.NoError(t, err)

	return link.NewStore(docstore.NewMemoryStore(), generator)
}

func TestStore_Create(t *testing.T) {
	t.Run("creates a link with zeroed counters", func(t *testing.T) {
		store := newTestStore(t)

		l, err := store.Create(context.Background(), "user-1", "Portfolio", "example.com/cv")

		require.NoError(t, err)
		assert.NotEmpty(t, l.ID)
		assert.Len(t, l.Slug, link.SlugLength)
		assert.Equal(t, "user-1", l.OwnerID)
		assert.Equal(t, "Portfolio", l.Name)
		assert.Equal(t, "example.com/cv", l.DestinationURL)
		assert.Zero(t, l.ClickCount)
		assert.Nil(t, l.LastClickedAt)
		assert.False(t, l.CreatedAt.IsZero())
	})

	t.Run("generated slugs differ across links", func(t *testing.T) {
		store := newTestStore(t)

		l1, err := store.Create(context.Background(), "user-1", "one", "a.com")
		require.NoError(t, err)

		l2, err := store.Create(context.Background(), "user-1", "two", "b.com")
		require.NoError(t, err)

		assert.NotEqual(t, l1.Slug, l2.Slug)
	})

	t.Run("exhausted slug space fails with ErrSlugExhausted", func(t *testing.T) {
		generator := func() string { return "stuck1" }
		store := link.NewStore(docstore.NewMemoryStore(), generator)

		_, err := store.Create(context.Background(), "user-1", "first", "a.com")
		require.NoError(t, err)

		_, err = store.Create(context.Background(), "user-1", "second", "b.com")

		assert.ErrorIs(t, err, link.ErrSlugExhausted)
	})
}

func TestStore_FindBySlug(t *testing.T) {
	t.Run("finds a created link", func(t *testing.T) {
		store := newTestStore(t)

		created, err := store.Create(context.Background(), "user-1", "Portfolio", "example.com")
		require.NoError(t, err)

		found, err := store.FindBySlug(context.Background(), created.Slug)

		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, created.DestinationURL, found.DestinationURL)
		assert.Nil(t, found.LastClickedAt)
	})

	t.Run("unknown slug returns ErrNotFound", func(t *testing.T) {
		store := newTestStore(t)

		_, err := store.FindBySlug(context.Background(), "zzzzzz")

		assert.ErrorIs(t, err, link.ErrNotFound)
	})
}

func TestStore_RecordHumanVisit(t *testing.T) {
	t.Run("increments counter and sets last clicked", func(t *testing.T) {
		store := newTestStore(t)

		created, err := store.Create(context.Background(), "user-1", "Portfolio", "example.com")
		require.NoError(t, err)

		require.NoError(t, store.RecordHumanVisit(context.Background(), created.ID))
		require.NoError(t, store.RecordHumanVisit(context.Background(), created.ID))

		found, err := store.FindBySlug(context.Background(), created.Slug)
		require.NoError(t, err)

		assert.Equal(t, int64(2), found.ClickCount)
		require.NotNil(t, found.LastClickedAt)
		assert.WithinDuration(t, time.Now().UTC(), *found.LastClickedAt, 5*time.Second)
	})

	t.Run("counter and timestamp stay paired", func(t *testing.T) {
		store := newTestStore(t)

		created, err := store.Create(context.Background(), "user-1", "Portfolio", "example.com")
		require.NoError(t, err)

		// clickCount == 0 iff lastClickedAt is nil
		found, err := store.FindBySlug(context.Background(), created.Slug)
		require.NoError(t, err)
		assert.Zero(t, found.ClickCount)
		assert.Nil(t, found.LastClickedAt)

		require.NoError(t, store.RecordHumanVisit(context.Background(), created.ID))

		found, err = store.FindBySlug(context.Background(), created.Slug)
		require.NoError(t, err)
		assert.NotZero(t, found.ClickCount)
		assert.NotNil(t, found.LastClickedAt)
	})

	t.Run("deleted link returns ErrNotFound", func(t *testing.T) {
		store := newTestStore(t)

		created, err := store.Create(context.Background(), "user-1", "Portfolio", "example.com")
		require.NoError(t, err)

		require.NoError(t, store.Delete(context.Background(), "user-1", created.ID))

		err = store.RecordHumanVisit(context.Background(), created.ID)

		assert.ErrorIs(t, err, link.ErrNotFound)
	})
}

func TestStore_Delete(t *testing.T) {
	t.Run("freed slug no longer resolves", func(t *testing.T) {
		store := newTestStore(t)

		created, err := store.Create(context.Background(), "user-1", "Portfolio", "example.com")
		require.NoError(t, err)

		require.NoError(t, store.Delete(context.Background(), "user-1", created.ID))

		_, err = store.FindBySlug(context.Background(), created.Slug)

		assert.ErrorIs(t, err, link.ErrNotFound)
	})

	t.Run("another owner's link cannot be deleted", func(t *testing.T) {
		store := newTestStore(t)

		created, err := store.Create(context.Background(), "user-1", "Portfolio", "example.com")
		require.NoError(t, err)

		err = store.Delete(context.Background(), "user-2", created.ID)
		assert.ErrorIs(t, err, link.ErrNotFound)

		found, err := store.FindBySlug(context.Background(), created.Slug)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("unknown id returns ErrNotFound", func(t *testing.T) {
		store := newTestStore(t)

		err := store.Delete(context.Background(), "user-1", "nope")

		assert.ErrorIs(t, err, link.ErrNotFound)
	})
}

func TestStore_ListByOwner(t *testing.T) {
	t.Run("returns only the owner's links, newest first", func(t *testing.T) {
		docs := docstore.NewMemoryStore()

		generator, err := link.NewSlugGenerator()
		require.NoError(t, err)

		store := link.NewStore(docs, generator)

		first, err := store.Create(context.Background(), "user-1", "first", "a.com")
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		second, err := store.Create(context.Background(), "user-1", "second", "b.com")
		require.NoError(t, err)

		_, err = store.Create(context.Background(), "user-2", "other", "c.com")
		require.NoError(t, err)

		links, err := store.ListByOwner(context.Background(), "user-1")

		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, second.ID, links[0].ID)
		assert.Equal(t, first.ID, links[1].ID)
	})

	t.Run("owner with no links gets empty list", func(t *testing.T) {
		store := newTestStore(t)

		links, err := store.ListByOwner(context.Background(), "nobody")

		require.NoError(t, err)
		assert.Empty(t, links)
	})
}
