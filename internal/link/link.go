package link

import (
	"context"
	"errors"
	"time"
)

// Collection is the document store collection holding link records.
const Collection = "projects"

var (
	// ErrNotFound is returned when no link matches a slug or id.
	ErrNotFound = errors.New("link not found")

	// ErrSlugExhausted is returned when slug generation keeps colliding
	// with existing links.
	ErrSlugExhausted = errors.New("slug generation exhausted")
)

// Link is a named destination URL with engagement counters, owned by one user.
type Link struct {
	ID             string
	Slug           string
	OwnerID        string
	Name           string
	DestinationURL string
	ClickCount     int64
	LastClickedAt  *time.Time // nil until the first human visit
	CreatedAt      time.Time
}

// Repository defines persistence for links.
type Repository interface {
	// Create stores a new link with a freshly generated slug and zeroed
	// counters.
	Create(ctx context.Context, ownerID, name, destinationURL string) (*Link, error)

	// FindBySlug returns the link for a slug, or ErrNotFound.
	FindBySlug(ctx context.Context, slug string) (*Link, error)

	// RecordHumanVisit atomically increments the click counter and stamps
	// the last-clicked time. ErrNotFound if the link no longer exists.
	RecordHumanVisit(ctx context.Context, linkID string) error

	// Delete hard-removes one of the owner's links. ErrNotFound if the id
	// does not exist or belongs to another owner.
	Delete(ctx context.Context, ownerID, linkID string) error

	// ListByOwner returns the owner's links, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*Link, error)
}
