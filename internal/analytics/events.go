package analytics

import "time"

const (
	// TopicLinkCreated carries events emitted when a smart link is created.
	TopicLinkCreated = "link.created"
	// TopicLinkVisited carries one event per human visit, forming an
	// immutable click log alongside the mutable counters.
	TopicLinkVisited = "link.visited"
)

// LinkCreatedEvent is emitted when a smart link is created.
type LinkCreatedEvent struct {
	LinkID         string    `json:"linkId"`
	Slug           string    `json:"slug"`
	OwnerID        string    `json:"ownerId"`
	Name           string    `json:"name"`
	DestinationURL string    `json:"destinationUrl"`
	CreatedAt      time.Time `json:"createdAt"`
	ClientIP       string    `json:"clientIp"`
}

// LinkVisitedEvent is emitted for every visit classified as human.
type LinkVisitedEvent struct {
	LinkID    string    `json:"linkId"`
	Slug      string    `json:"slug"`
	VisitedAt time.Time `json:"visitedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer,omitempty"`
}
