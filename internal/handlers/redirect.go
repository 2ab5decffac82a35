package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lromero/smartlink/internal/analytics"
	"github.com/lromero/smartlink/internal/link"
	"github.com/lromero/smartlink/internal/messaging"
	"go.uber.org/zap"
)

// RedirectHandler serves the hot redirect path for short links.
type RedirectHandler struct {
	resolver           *link.Resolver
	publishLinkVisited messaging.Publish[analytics.LinkVisitedEvent]
	logger             *zap.Logger
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(
	resolver *link.Resolver,
	publishLinkVisited messaging.Publish[analytics.LinkVisitedEvent],
	logger *zap.Logger,
) *RedirectHandler {
	return &RedirectHandler{
		resolver:           resolver,
		publishLinkVisited: publishLinkVisited,
		logger:             logger,
	}
}

// Redirect resolves a slug and redirects the visitor. Attribution failures
// never reach the visitor; only an unresolvable slug or an unavailable store
// produce an error response.
func (h *RedirectHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	meta := RequestMetaFromContext(ctx)

	outcome, err := h.resolver.Resolve(ctx, req.Slug, meta.UserAgent)
	if err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("short link not found")
		}

		h.logger.Error("slug lookup failed",
			zap.String("slug", req.Slug),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to resolve link")
	}

	if outcome.Counted {
		event := &analytics.LinkVisitedEvent{
			LinkID:    outcome.Link.ID,
			Slug:      outcome.Link.Slug,
			VisitedAt: time.Now().UTC(),
			ClientIP:  meta.ClientIP,
			UserAgent: meta.UserAgent,
			Referrer:  meta.Referrer,
		}

		if err := h.publishLinkVisited(event); err != nil {
			h.logger.Error("failed to publish visit event",
				zap.String("slug", outcome.Link.Slug),
				zap.Error(err),
			)
		}
	}

	// Temporary redirect: a permanent one would let browsers cache the hop
	// and stop engagement from ever reaching the server again.
	resp := &RedirectResponse{
		Status: http.StatusFound,
	}
	resp.Headers.Location = outcome.Destination

	return resp, nil
}
