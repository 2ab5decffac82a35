package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lromero/smartlink/internal/analytics"
	"github.com/lromero/smartlink/internal/link"
	"github.com/lromero/smartlink/internal/messaging"
	"go.uber.org/zap"
)

// LinkHandler handles smart link management and the dashboard summary.
type LinkHandler struct {
	store              link.Repository
	baseURL            string
	publishLinkCreated messaging.Publish[analytics.LinkCreatedEvent]
	now                func() time.Time
	logger             *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	store link.Repository,
	baseURL string,
	publishLinkCreated messaging.Publish[analytics.LinkCreatedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		store:              store,
		baseURL:            baseURL,
		publishLinkCreated: publishLinkCreated,
		now:                time.Now,
		logger:             logger,
	}
}

// CreateLink creates a smart link owned by the calling user.
func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	l, err := h.store.Create(ctx, meta.UserID, req.Body.Name, req.Body.DestinationURL)
	if err != nil {
		h.logger.Error("failed to create link",
			zap.String("ownerId", meta.UserID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to create link")
	}

	event := &analytics.LinkCreatedEvent{
		LinkID:         l.ID,
		Slug:           l.Slug,
		OwnerID:        l.OwnerID,
		Name:           l.Name,
		DestinationURL: l.DestinationURL,
		CreatedAt:      l.CreatedAt,
		ClientIP:       meta.ClientIP,
	}

	if err := h.publishLinkCreated(event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("slug", l.Slug),
			zap.Error(err),
		)
	}

	resp := &CreateLinkResponse{Body: h.linkBody(l)}
	resp.Headers.Location = resp.Body.ShortURL

	return resp, nil
}

// ListLinks returns the caller's links, newest first.
func (h *LinkHandler) ListLinks(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	links, err := h.store.ListByOwner(ctx, meta.UserID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list links")
	}

	resp := &ListLinksResponse{}
	resp.Body.Links = make([]LinkBody, 0, len(links))

	for _, l := range links {
		resp.Body.Links = append(resp.Body.Links, h.linkBody(l))
	}

	return resp, nil
}

// DeleteLink hard-removes one of the caller's links.
func (h *LinkHandler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*struct{}, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	if err := h.store.Delete(ctx, meta.UserID, req.ID); err != nil {
		if errors.Is(err, link.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		return nil, huma.Error500InternalServerError("failed to delete link")
	}

	return nil, nil
}

// Dashboard computes the engagement summary over the caller's links.
func (h *LinkHandler) Dashboard(ctx context.Context, _ *struct{}) (*DashboardResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	links, err := h.store.ListByOwner(ctx, meta.UserID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load links")
	}

	return &DashboardResponse{Body: analytics.Aggregate(links, h.now())}, nil
}

func (h *LinkHandler) linkBody(l *link.Link) LinkBody {
	return LinkBody{
		ID:             l.ID,
		Slug:           l.Slug,
		ShortURL:       fmt.Sprintf("%s/%s", h.baseURL, l.Slug),
		Name:           l.Name,
		DestinationURL: l.DestinationURL,
		ClickCount:     l.ClickCount,
		LastClickedAt:  l.LastClickedAt,
		CreatedAt:      l.CreatedAt,
	}
}
