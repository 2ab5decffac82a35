package link

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lromero/smartlink/internal/docstore"
)

const (
	fieldSlug          = "slug"
	fieldOwnerID       = "ownerId"
	fieldName          = "name"
	fieldDestination   = "destinationUrl"
	fieldClickCount    = "clickCount"
	fieldLastClickedAt = "lastClickedAt"
	fieldCreatedAt     = "createdAt"
)

// maxSlugAttempts bounds the uniqueness retry loop in Create.
const maxSlugAttempts = 5

// Store is a document-store-backed Repository.
type Store struct {
	docs         docstore.Store
	generateSlug SlugGenerator
}

// NewStore creates a link store over a generic document store.
func NewStore(docs docstore.Store, generator SlugGenerator) *Store {
	return &Store{
		docs:         docs,
		generateSlug: generator,
	}
}

func (s *Store) Create(ctx context.Context, ownerID, name, destinationURL string) (*Link, error) {
	slug, err := s.uniqueSlug(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	doc := docstore.Document{
		fieldSlug:          slug,
		fieldOwnerID:       ownerID,
		fieldName:          name,
		fieldDestination:   destinationURL,
		fieldClickCount:    0,
		fieldLastClickedAt: nil,
		fieldCreatedAt:     now,
	}

	id, err := s.docs.Insert(ctx, Collection, doc)
	if err != nil {
		return nil, fmt.Errorf("insert link: %w", err)
	}

	return &Link{
		ID:             id,
		Slug:           slug,
		OwnerID:        ownerID,
		Name:           name,
		DestinationURL: destinationURL,
		ClickCount:     0,
		LastClickedAt:  nil,
		CreatedAt:      now,
	}, nil
}

// uniqueSlug generates a slug that does not collide with an existing link,
// retrying a bounded number of times before giving up.
func (s *Store) uniqueSlug(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug := s.generateSlug()

		_, err := s.FindBySlug(ctx, slug)
		if errors.Is(err, ErrNotFound) {
			return slug, nil
		}

		if err != nil {
			return "", err
		}
	}

	return "", ErrSlugExhausted
}

func (s *Store) FindBySlug(ctx context.Context, slug string) (*Link, error) {
	records, err := s.docs.QueryEquals(ctx, Collection, fieldSlug, slug)
	if err != nil {
		return nil, fmt.Errorf("query link by slug: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrNotFound
	}

	// Uniqueness is enforced at creation; take the first record if the
	// store somehow holds duplicates.
	return fromRecord(records[0])
}

func (s *Store) RecordHumanVisit(ctx context.Context, linkID string) error {
	err := s.docs.AtomicIncrementAndTimestamp(ctx, Collection, linkID, fieldClickCount, fieldLastClickedAt)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}

	return err
}

func (s *Store) Delete(ctx context.Context, ownerID, linkID string) error {
	record, err := s.docs.Get(ctx, Collection, linkID)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("get link: %w", err)
	}

	// Another owner's id gets the same answer as a missing one.
	if stringField(record.Data, fieldOwnerID) != ownerID {
		return ErrNotFound
	}

	return s.docs.Delete(ctx, Collection, linkID)
}

func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]*Link, error) {
	records, err := s.docs.QueryEquals(ctx, Collection, fieldOwnerID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query links by owner: %w", err)
	}

	links := make([]*Link, 0, len(records))

	for _, record := range records {
		l, err := fromRecord(record)
		if err != nil {
			return nil, err
		}

		links = append(links, l)
	}

	sort.SliceStable(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})

	return links, nil
}

func fromRecord(record docstore.Record) (*Link, error) {
	data := record.Data

	l := &Link{
		ID:             record.ID,
		Slug:           stringField(data, fieldSlug),
		OwnerID:        stringField(data, fieldOwnerID),
		Name:           stringField(data, fieldName),
		DestinationURL: stringField(data, fieldDestination),
	}

	if count, ok := data[fieldClickCount].(float64); ok {
		l.ClickCount = int64(count)
	}

	createdAt, err := timeField(data, fieldCreatedAt)
	if err != nil {
		return nil, fmt.Errorf("link %s: %w", record.ID, err)
	}

	if createdAt != nil {
		l.CreatedAt = *createdAt
	}

	lastClicked, err := timeField(data, fieldLastClickedAt)
	if err != nil {
		return nil, fmt.Errorf("link %s: %w", record.ID, err)
	}

	l.LastClickedAt = lastClicked

	return l, nil
}

func stringField(data docstore.Document, field string) string {
	s, _ := data[field].(string)

	return s
}

func timeField(data docstore.Document, field string) (*time.Time, error) {
	raw, ok := data[field].(string)
	if !ok || raw == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", field, err)
	}

	return &t, nil
}

// Compile-time check.
var _ Repository = (*Store)(nil)
