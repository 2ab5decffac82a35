package link

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lromero/smartlink/internal/visit"
	"go.uber.org/zap"
)

// ErrStoreUnavailable is returned when the backing store cannot answer a slug
// lookup. Distinct from ErrNotFound: the caller should surface it as a
// transient server error, not a terminal 404.
var ErrStoreUnavailable = errors.New("link store unavailable")

// Both suspension points on the redirect path are bounded so a slow store
// never stalls a redirect indefinitely.
const (
	// lookupTimeout bounds the slug lookup.
	lookupTimeout = 3 * time.Second
	// attributionTimeout bounds the human-visit counter write.
	attributionTimeout = 3 * time.Second
)

// Classifier renders a bot/human verdict for a User-Agent string.
type Classifier func(userAgent string) visit.Verdict

// Outcome is the result of resolving a slug to a redirect target.
type Outcome struct {
	// Destination is the normalized URL to redirect to.
	Destination string
	// Link is the resolved link record.
	Link *Link
	// Counted reports whether the visit was recorded as human engagement.
	Counted bool
}

// Resolver orchestrates slug lookup, visitor classification, attribution, and
// destination normalization. Stateless per call; safe for concurrent use.
type Resolver struct {
	store    Repository
	classify Classifier
	logger   *zap.Logger
}

// NewResolver creates a redirect resolver.
func NewResolver(store Repository, classify Classifier, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:    store,
		classify: classify,
		logger:   logger,
	}
}

// Resolve maps a slug and User-Agent to a redirect outcome. Human visits are
// recorded best-effort: an attribution failure is logged and swallowed, never
// surfaced to the visitor. Returns ErrNotFound for unknown slugs and empty
// destinations, ErrStoreUnavailable when the lookup itself fails.
func (r *Resolver) Resolve(ctx context.Context, slug, userAgent string) (*Outcome, error) {
	if slug == "" {
		return nil, ErrNotFound
	}

	lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	l, err := r.store.FindBySlug(lookupCtx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	// A link with no destination must not redirect anywhere.
	if l.DestinationURL == "" {
		return nil, ErrNotFound
	}

	outcome := &Outcome{
		Destination: NormalizeDestination(l.DestinationURL),
		Link:        l,
	}

	if r.classify(userAgent) == visit.Bot {
		r.logger.Debug("bot visit skipped",
			zap.String("slug", slug),
			zap.String("userAgent", userAgent),
		)

		return outcome, nil
	}

	outcome.Counted = r.recordVisit(ctx, l)

	return outcome, nil
}

// recordVisit performs the attribution write on a detached context: if the
// caller cancels mid-flight the write may still complete, losing an
// attribution is acceptable, double-counting is not.
func (r *Resolver) recordVisit(ctx context.Context, l *Link) bool {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), attributionTimeout)
	defer cancel()

	if err := r.store.RecordHumanVisit(writeCtx, l.ID); err != nil {
		r.logger.Warn("attribution write failed",
			zap.String("linkId", l.ID),
			zap.String("slug", l.Slug),
			zap.Error(err),
		)

		return false
	}

	return true
}

// NormalizeDestination ensures a destination has a scheme: URLs already
// carrying http:// or https:// pass through, everything else gets https://.
func NormalizeDestination(destination string) string {
	if strings.HasPrefix(destination, "http://") || strings.HasPrefix(destination, "https://") {
		return destination
	}

	return "https://" + destination
}
