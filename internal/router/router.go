package router

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/newsline-radio/backend/internal/articles"
	"github.com/anonto42/newsline-radio/backend/internal/articleurl"
	"github.com/anonto42/newsline-radio/backend/internal/fanout"
	"github.com/anonto42/newsline-radio/backend/internal/handlers"
	"github.com/anonto42/newsline-radio/backend/internal/logging"
	"github.com/anonto42/newsline-radio/backend/internal/middleware"
	"github.com/anonto42/newsline-radio/backend/internal/models"
	"github.com/anonto42/newsline-radio/backend/internal/push"
	"github.com/anonto42/newsline-radio/backend/internal/repositories"
	"github.com/anonto42/newsline-radio/backend/internal/storage"
	"github.com/anonto42/newsline-radio/backend/internal/subscribers"
	"github.com/anonto42/newsline-radio/backend/pkg/config"
	"github.com/anonto42/newsline-radio/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

// Dependencies are the connections the routes are built on
type Dependencies struct {
	Config    *config.Config
	Firebase  *firebase.App
	DB        *config.DB
	JWTSecret []byte
}

type stores struct {
	articles    repositories.ArticleRepository
	subscribers repositories.SubscriberRepository
	contacts    repositories.ContactRepository
	stats       repositories.StatsRepository
}

// newStores picks the repositories for the configured store driver
func newStores(ctx context.Context, deps Dependencies) (*stores, error) {
	fs := deps.Firebase.Firestore
	s := &stores{stats: repositories.NewFirestoreStatsRepository(fs)}

	if deps.Config.StoreDriver != config.StoreHybrid {
		s.articles = repositories.NewFirestoreArticleRepository(fs)
		s.subscribers = repositories.NewFirestoreSubscriberRepository(fs)
		s.contacts = repositories.NewFirestoreContactRepository(fs)
		logging.Info().Msg("Using Firestore for all repositories.")
		return s, nil
	}

	// AutoMigrate PostgreSQL models
	if err := deps.DB.Postgres.AutoMigrate(&models.Subscriber{}, &models.ContactMessage{}); err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}
	logging.Info().Msg("PostgreSQL auto-migrations completed.")

	mongoArticles := repositories.NewMongoArticleRepository(deps.DB.Mongo.Database(deps.Config.MongoDatabase))
	if err := mongoArticles.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	s.articles = mongoArticles
	s.subscribers = repositories.NewPostgresSubscriberRepository(deps.DB.Postgres)
	s.contacts = repositories.NewPostgresContactRepository(deps.DB.Postgres)
	logging.Info().Msg("Using MongoDB for articles and PostgreSQL for subscribers and contacts.")
	return s, nil
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := deps.Config
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	st, err := newStores(ctx, deps)
	if err != nil {
		return err
	}

	// --- Services ---
	dates := articleurl.NewPartitioner(nil, loc)
	articleService := articles.NewService(st.articles, dates, logging.Logger())
	registry := subscribers.NewRegistry(st.subscribers, nil, logging.Logger())

	pushCfg := push.DefaultConfig()
	pushCfg.Link = cfg.SiteURL
	pushCfg.Icon = cfg.PushIcon
	pushCfg.Badge = cfg.PushIcon
	dispatcher := fanout.NewDispatcher(push.NewFCMGateway(deps.Firebase.Messaging, pushCfg, logging.Logger()), logging.Logger())

	var uploader handlers.ImageUploader
	if deps.Firebase.Bucket != nil {
		uploader = storage.NewImageUploader(storage.NewBucketImageStore(deps.Firebase.Bucket, deps.Firebase.StorageBucket), nil)
	} else {
		logging.Warn().Msg("FIREBASE_STORAGE_BUCKET not set, image uploads disabled.")
	}

	// Legacy /article/{id} links are rewritten before routing
	e.Pre(middleware.LegacyArticleRewrite())

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Public routes ---
	api := e.Group("/api/v1")
	limited := e.Group("/api/v1", config.PublicRateLimiter(cfg.PublicRateLimit))

	feedHandler := handlers.NewFeedHandler(articleService)
	feedHandler.RegisterFeedRoutes(e, api)

	statsHandler := handlers.NewStatsHandler(st.stats)
	statsHandler.RegisterStatsRoutes(api)
	statsHandler.RegisterListenerRoutes(limited)

	subscriberHandler := handlers.NewSubscriberHandler(registry)
	subscriberHandler.RegisterPublicRoutes(limited)

	contactHandler := handlers.NewContactHandler(st.contacts, loc)
	contactHandler.RegisterPublicRoutes(limited)
	logging.Info().Msg("Public routes configured.")

	// --- Unprotected routes for authentication ---
	authHandler, err := handlers.NewAuthHandler(handlers.AuthConfig{
		Username:     cfg.AdminUsername,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
		AdminEmails:  cfg.AdminEmails,
		JWTSecret:    deps.JWTSecret,
	}, deps.Firebase.AuthClient)
	if err != nil {
		return err
	}
	authHandler.RegisterAuthRoutes(e.Group("/api/v1/auth", config.PublicRateLimiter(cfg.PublicRateLimit)))
	logging.Info().Msg("Auth routes configured.")

	// --- Protected routes (require admin JWT) ---
	admin := e.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(deps.JWTSecret))

	handlers.NewArticleHandler(articleService, uploader).RegisterArticleRoutes(admin)
	subscriberHandler.RegisterAdminRoutes(admin)
	contactHandler.RegisterAdminRoutes(admin)
	handlers.NewNotificationHandler(registry, dispatcher).RegisterNotificationRoutes(admin)
	logging.Info().Msg("Admin routes configured.")

	return nil
}
