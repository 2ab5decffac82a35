package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lromero/smartlink/internal/analytics"
	"github.com/lromero/smartlink/internal/handlers"
	"github.com/lromero/smartlink/internal/link"
	"github.com/lromero/smartlink/internal/visit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedirectHandler(store link.Repository) *handlers.RedirectHandler {
	resolver := link.NewResolver(store, visit.Classify, zap.NewNop())

	return handlers.NewRedirectHandler(resolver, noopPublish[analytics.LinkVisitedEvent](), zap.NewNop())
}

func visitorContext(userAgent string) context.Context {
	return handlers.ContextWithRequestMeta(context.Background(), handlers.RequestMeta{
		ClientIP:  "203.0.113.7",
		UserAgent: userAgent,
		Referrer:  "https://news.example.org",
	})
}

func TestRedirect(t *testing.T) {
	t.Run("redirects a human visitor and counts the click", func(t *testing.T) {
		store := newLinkStore(t)
		handler := newRedirectHandler(store)

		created, err := store.Create(context.Background(), "user-1", "Portfolio", "example.com/cv")
		require.NoError(t, err)

		resp, err := handler.Redirect(visitorContext("Mozilla/5.0"), &handlers.RedirectRequest{Slug: created.Slug})

		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, "https://example.com/cv", resp.Headers.Location)

		found, err := store.FindBySlug(context.Background(), created.Slug)
		require.NoError(t, err)
		assert.Equal(t, int64(1), found.ClickCount)
	})

	t.Run("redirects a bot without counting", func(t *testing.T) {
		store := newLinkStore(t)
		handler := newRedirectHandler(store)

		created, err := store.Create(context.Background(), "user-1", "Portfolio", "https://example.com")
		require.NoError(t, err)

		resp, err := handler.Redirect(visitorContext("Slackbot-LinkExpanding 1.0"), &handlers.RedirectRequest{Slug: created.Slug})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", resp.Headers.Location)

		found, err := store.FindBySlug(context.Background(), created.Slug)
		require.NoError(t, err)
		assert.Zero(t, found.ClickCount)
	})

	t.Run("unknown slug yields 404", func(t *testing.T) {
		handler := newRedirectHandler(newLinkStore(t))

		_, err := handler.Redirect(visitorContext("Mozilla/5.0"), &handlers.RedirectRequest{Slug: "zzzzzz"})

		assert.Error(t, err)
	})

	t.Run("publishes a visit event for human visitors", func(t *testing.T) {
		store := newLinkStore(t)
		resolver := link.NewResolver(store, visit.Classify, zap.NewNop())

		var events []*analytics.LinkVisitedEvent

		handler := handlers.NewRedirectHandler(resolver, capturePublish(&events), zap.NewNop())

		created, err := store.Create(context.Background(), "user-1", "Portfolio", "https://example.com")
		require.NoError(t, err)

		_, err = handler.Redirect(visitorContext("Mozilla/5.0"), &handlers.RedirectRequest{Slug: created.Slug})

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, created.Slug, events[0].Slug)
		assert.Equal(t, "https://news.example.org", events[0].Referrer)
	})

	t.Run("no visit event for bots", func(t *testing.T) {
		store := newLinkStore(t)
		resolver := link.NewResolver(store, visit.Classify, zap.NewNop())

		var events []*analytics.LinkVisitedEvent

		handler := handlers.NewRedirectHandler(resolver, capturePublish(&events), zap.NewNop())

		created, err := store.Create(context.Background(), "user-1", "Portfolio", "https://example.com")
		require.NoError(t, err)

		_, err = handler.Redirect(visitorContext("Googlebot/2.1"), &handlers.RedirectRequest{Slug: created.Slug})

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("publish failure does not break the redirect", func(t *testing.T) {
		store := newLinkStore(t)
		resolver := link.NewResolver(store, visit.Classify, zap.NewNop())
		handler := handlers.NewRedirectHandler(
			resolver,
			errorPublish[analytics.LinkVisitedEvent](errors.New("broker down")),
			zap.NewNop(),
		)

		created, err := store.Create(context.Background(), "user-1", "Portfolio", "https://example.com")
		require.NoError(t, err)

		resp, err := handler.Redirect(visitorContext("Mozilla/5.0"), &handlers.RedirectRequest{Slug: created.Slug})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", resp.Headers.Location)
	})
}
