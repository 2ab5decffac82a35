package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lromero/smartlink/internal/analytics"
	analyticsstore "github.com/lromero/smartlink/internal/analytics/store"
	"github.com/lromero/smartlink/internal/docstore"
	"github.com/lromero/smartlink/internal/handlers"
	"github.com/lromero/smartlink/internal/health"
	"github.com/lromero/smartlink/internal/link"
	"github.com/lromero/smartlink/internal/messaging"
	"github.com/lromero/smartlink/internal/middleware"
	"github.com/lromero/smartlink/internal/tracker"
	"github.com/lromero/smartlink/internal/visit"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// LoggerPackage provides the zap logger, encoder chosen by LogFormat.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the pgx pool when PostgresURL is configured; the
// pool is nil otherwise and DocstorePackage falls back to the memory store.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		if options.PostgresURL == "" {
			return nil, nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return pgxpool.New(ctx, options.PostgresURL)
	})
}

// DocstorePackage provides the generic document store backing links,
// applications, and the visit event log.
func DocstorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (docstore.Store, error) {
		pool := do.MustInvoke[*pgxpool.Pool](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if pool == nil {
			logger.Warn("no postgres configured, using in-memory document store")

			return docstore.NewMemoryStore(), nil
		}

		return docstore.NewPostgresStore(pool), nil
	})
}

// RepositoryPackage provides the link repository (optionally Redis-cached),
// the redirect resolver, and the tracker store.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (link.Repository, error) {
		options := do.MustInvoke[*Options](i)
		docs := do.MustInvoke[docstore.Store](i)

		generator, err := link.NewSlugGenerator()
		if err != nil {
			return nil, fmt.Errorf("slug generator: %w", err)
		}

		var repo link.Repository = link.NewStore(docs, generator)

		if options.CacheTTL > 0 {
			client := do.MustInvoke[*redis.Client](i)
			repo = link.NewCachedRepository(repo, client, time.Duration(options.CacheTTL)*time.Second)
		}

		return repo, nil
	})

	do.Provide(injector, func(i *do.Injector) (*link.Resolver, error) {
		repo := do.MustInvoke[link.Repository](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return link.NewResolver(repo, visit.Classify, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*tracker.Store, error) {
		docs := do.MustInvoke[docstore.Store](i)

		return tracker.NewStore(docs), nil
	})
}

// PublisherGroupPackage provides the watermill publisher over Redis streams
// and the typed publish functions for analytics events.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: client,
		}, watermill.NopLogger{})
		if err != nil {
			return nil, fmt.Errorf("redis stream publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinkCreatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return analytics.NewLinkCreatedPublisher(group.Publisher()), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinkVisitedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return analytics.NewLinkVisitedPublisher(group.Publisher()), nil
	})
}

// ConsumerGroupPackage provides the analytics consumer group: visit and
// creation events are appended to the document store as an immutable event
// log, or just logged when running without Postgres.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		options := do.MustInvoke[*Options](i)
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client,
			ConsumerGroup: "analytics",
		}, watermill.NopLogger{})
		if err != nil {
			return nil, fmt.Errorf("redis stream subscriber: %w", err)
		}

		var eventStore analytics.Store
		if options.PostgresURL == "" {
			eventStore = analyticsstore.NewNoop(logger)
		} else {
			eventStore = analyticsstore.NewDocStore(do.MustInvoke[docstore.Store](i))
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(analytics.NewConsumer(subscriber, eventStore, logger))

		return group, nil
	})
}

// HTTPPackage provides the chi router and the huma API with all routes and
// middleware registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		repo := do.MustInvoke[link.Repository](i)
		resolver := do.MustInvoke[*link.Resolver](i)
		trackerStore := do.MustInvoke[*tracker.Store](i)
		publishCreated := do.MustInvoke[messaging.Publish[analytics.LinkCreatedEvent]](i)
		publishVisited := do.MustInvoke[messaging.Publish[analytics.LinkVisitedEvent]](i)

		api := humachi.New(router, huma.DefaultConfig("Smart Link Service", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))

		baseURL := options.BaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", options.Port)
		}

		linkHandler := handlers.NewLinkHandler(repo, baseURL, publishCreated, logger)
		redirectHandler := handlers.NewRedirectHandler(resolver, publishVisited, logger)
		trackerHandler := handlers.NewTrackerHandler(trackerStore, logger)

		var postgresChecker health.Checker
		if pool := do.MustInvoke[*pgxpool.Pool](i); pool != nil {
			postgresChecker = health.NewPostgresChecker(pool)
		}

		healthHandler := health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			postgresChecker,
		)

		health.RegisterRoutes(api, healthHandler)
		handlers.RegisterRoutes(api, linkHandler, redirectHandler, trackerHandler)

		return api, nil
	})
}
