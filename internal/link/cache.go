package link

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedRepository wraps a Repository with Redis caching for slug lookups on
// the redirect hot path. Counter fields in cached entries may lag behind the
// store by up to the TTL; the redirect path only reads the destination.
type CachedRepository struct {
	store   Repository
	client  *redis.Client
	prefix  string // "link:" for slug -> link fields (hash per slug)
	slugKey string // "link_slugs" for id -> slug (hash map, for invalidation)
	ttl     time.Duration
}

// NewCachedRepository creates a Redis-cached repository decorator.
func NewCachedRepository(store Repository, client *redis.Client, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		store:   store,
		client:  client,
		prefix:  "link:",
		slugKey: "link_slugs",
		ttl:     ttl,
	}
}

func (c *CachedRepository) Create(ctx context.Context, ownerID, name, destinationURL string) (*Link, error) {
	l, err := c.store.Create(ctx, ownerID, name, destinationURL)
	if err != nil {
		return nil, err
	}

	// Write-through: warm the cache after a successful create
	c.cacheLink(ctx, l)

	return l, nil
}

func (c *CachedRepository) FindBySlug(ctx context.Context, slug string) (*Link, error) {
	if l, err := c.getFromCache(ctx, slug); err == nil {
		return l, nil
	}

	l, err := c.store.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	c.cacheLink(ctx, l)

	return l, nil
}

func (c *CachedRepository) RecordHumanVisit(ctx context.Context, linkID string) error {
	return c.store.RecordHumanVisit(ctx, linkID)
}

func (c *CachedRepository) Delete(ctx context.Context, ownerID, linkID string) error {
	if err := c.store.Delete(ctx, ownerID, linkID); err != nil {
		return err
	}

	// Drop the cached slug entry so the freed slug resolves to nothing.
	if slug, err := c.client.HGet(ctx, c.slugKey, linkID).Result(); err == nil {
		pipe := c.client.Pipeline()
		pipe.Del(ctx, c.prefix+slug)
		pipe.HDel(ctx, c.slugKey, linkID)
		_, _ = pipe.Exec(ctx)
	}

	return nil
}

func (c *CachedRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Link, error) {
	return c.store.ListByOwner(ctx, ownerID)
}

func (c *CachedRepository) getFromCache(ctx context.Context, slug string) (*Link, error) {
	result, err := c.client.HGetAll(ctx, c.prefix+slug).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	l := &Link{
		ID:             result["id"],
		Slug:           result["slug"],
		OwnerID:        result["owner_id"],
		Name:           result["name"],
		DestinationURL: result["destination_url"],
	}

	if count, err := strconv.ParseInt(result["click_count"], 10, 64); err == nil {
		l.ClickCount = count
	}

	if nanos, err := strconv.ParseInt(result["created_at"], 10, 64); err == nil {
		l.CreatedAt = time.Unix(0, nanos).UTC()
	}

	if raw, ok := result["last_clicked_at"]; ok && raw != "" {
		if nanos, err := strconv.ParseInt(raw, 10, 64); err == nil {
			t := time.Unix(0, nanos).UTC()
			l.LastClickedAt = &t
		}
	}

	return l, nil
}

func (c *CachedRepository) cacheLink(ctx context.Context, l *Link) {
	pipe := c.client.Pipeline()
	key := c.prefix + l.Slug

	fields := map[string]interface{}{
		"id":              l.ID,
		"slug":            l.Slug,
		"owner_id":        l.OwnerID,
		"name":            l.Name,
		"destination_url": l.DestinationURL,
		"click_count":     strconv.FormatInt(l.ClickCount, 10),
		"created_at":      l.CreatedAt.UnixNano(),
	}
	if l.LastClickedAt != nil {
		fields["last_clicked_at"] = l.LastClickedAt.UnixNano()
	}

	pipe.HSet(ctx, key, fields)

	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}

	pipe.HSet(ctx, c.slugKey, l.ID, l.Slug)

	_, _ = pipe.Exec(ctx)
}

// Compile-time check.
var _ Repository = (*CachedRepository)(nil)
