package tracker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lromero/smartlink/internal/docstore"
)

const (
	fieldUserID    = "userId"
	fieldCompany   = "company"
	fieldRole      = "role"
	fieldPlatform  = "platform"
	fieldStatus    = "status"
	fieldAppliedAt = "appliedAt"
)

// Store persists application records in a document store.
type Store struct {
	docs docstore.Store
}

// NewStore creates an application tracker store.
func NewStore(docs docstore.Store) *Store {
	return &Store{docs: docs}
}

// Add creates a new application record with status Applied. An empty
// platform defaults to PlatformDirect.
func (s *Store) Add(ctx context.Context, userID, company, role, platform string) (*Application, error) {
	if platform == "" {
		platform = PlatformDirect
	}

	now := time.Now().UTC()

	id, err := s.docs.Insert(ctx, Collection, docstore.Document{
		fieldUserID:    userID,
		fieldCompany:   company,
		fieldRole:      role,
		fieldPlatform:  platform,
		fieldStatus:    StatusApplied,
		fieldAppliedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}

	return &Application{
		ID:        id,
		UserID:    userID,
		Company:   company,
		Role:      role,
		Platform:  platform,
		Status:    StatusApplied,
		AppliedAt: now,
	}, nil
}

// UpdateStatus moves one of the user's applications to a new pipeline status.
// ErrNotFound if the id does not exist or belongs to another user.
func (s *Store) UpdateStatus(ctx context.Context, userID, appID, status string) error {
	if err := s.ownedBy(ctx, userID, appID); err != nil {
		return err
	}

	err := s.docs.Update(ctx, Collection, appID, docstore.Document{fieldStatus: status})
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}

	return err
}

// Delete hard-removes one of the user's application records. ErrNotFound if
// the id does not exist or belongs to another user.
func (s *Store) Delete(ctx context.Context, userID, appID string) error {
	if err := s.ownedBy(ctx, userID, appID); err != nil {
		return err
	}

	return s.docs.Delete(ctx, Collection, appID)
}

// ownedBy reports ErrNotFound for both a missing id and another user's id, so
// callers cannot probe for records they do not own.
func (s *Store) ownedBy(ctx context.Context, userID, appID string) error {
	record, err := s.docs.Get(ctx, Collection, appID)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("get application: %w", err)
	}

	if stringField(record.Data, fieldUserID) != userID {
		return ErrNotFound
	}

	return nil
}

// ListByUser returns the user's applications, most recently applied first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]*Application, error) {
	records, err := s.docs.QueryEquals(ctx, Collection, fieldUserID, userID)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}

	apps := make([]*Application, 0, len(records))

	for _, record := range records {
		app, err := fromRecord(record)
		if err != nil {
			return nil, err
		}

		apps = append(apps, app)
	}

	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].AppliedAt.After(apps[j].AppliedAt)
	})

	return apps, nil
}

// Search filters the user's applications by a case-insensitive substring
// match on company or role.
func (s *Store) Search(ctx context.Context, userID, term string) ([]*Application, error) {
	apps, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if term == "" {
		return apps, nil
	}

	lowered := strings.ToLower(term)
	matched := make([]*Application, 0, len(apps))

	for _, app := range apps {
		if strings.Contains(strings.ToLower(app.Company), lowered) ||
			strings.Contains(strings.ToLower(app.Role), lowered) {
			matched = append(matched, app)
		}
	}

	return matched, nil
}

func fromRecord(record docstore.Record) (*Application, error) {
	data := record.Data

	app := &Application{
		ID:       record.ID,
		UserID:   stringField(data, fieldUserID),
		Company:  stringField(data, fieldCompany),
		Role:     stringField(data, fieldRole),
		Platform: stringField(data, fieldPlatform),
		Status:   stringField(data, fieldStatus),
	}

	if raw, ok := data[fieldAppliedAt].(string); ok && raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("application %s: parse appliedAt: %w", record.ID, err)
		}

		app.AppliedAt = t
	}

	return app, nil
}

func stringField(data docstore.Document, field string) string {
	s, _ := data[field].(string)

	return s
}
