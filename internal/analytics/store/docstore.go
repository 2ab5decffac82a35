package store

import (
	"context"

	"github.com/lromero/smartlink/internal/analytics"
	"github.com/lromero/smartlink/internal/docstore"
)

const (
	visitsCollection  = "visits"
	createdCollection = "link_events"
)

// DocStore persists analytics events as immutable documents. Unlike the
// mutable per-link counter, this forms a true per-event click log.
type DocStore struct {
	docs docstore.Store
}

// NewDocStore creates a document-store-backed analytics store.
func NewDocStore(docs docstore.Store) *DocStore {
	return &DocStore{docs: docs}
}

func (s *DocStore) SaveLinkCreated(ctx context.Context, event *analytics.LinkCreatedEvent) error {
	_, err := s.docs.Insert(ctx, createdCollection, docstore.Document{
		"linkId":         event.LinkID,
		"slug":           event.Slug,
		"ownerId":        event.OwnerID,
		"name":           event.Name,
		"destinationUrl": event.DestinationURL,
		"createdAt":      event.CreatedAt,
		"clientIp":       event.ClientIP,
	})

	return err
}

func (s *DocStore) SaveLinkVisited(ctx context.Context, event *analytics.LinkVisitedEvent) error {
	_, err := s.docs.Insert(ctx, visitsCollection, docstore.Document{
		"linkId":    event.LinkID,
		"slug":      event.Slug,
		"visitedAt": event.VisitedAt,
		"clientIp":  event.ClientIP,
		"userAgent": event.UserAgent,
		"referrer":  event.Referrer,
	})

	return err
}

// Compile-time check.
var _ analytics.Store = (*DocStore)(nil)
