package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/fathima-sithara/clips-service/internal/auth"
	"github.com/fathima-sithara/clips-service/internal/catalog"
	"github.com/fathima-sithara/clips-service/internal/config"
	"github.com/fathima-sithara/clips-service/internal/database"
	"github.com/fathima-sithara/clips-service/internal/events"
	"github.com/fathima-sithara/clips-service/internal/handlers"
	"github.com/fathima-sithara/clips-service/internal/metrics"
	"github.com/fathima-sithara/clips-service/internal/middleware"
	"github.com/fathima-sithara/clips-service/internal/repository"
	"github.com/fathima-sithara/clips-service/internal/routes"
	"github.com/fathima-sithara/clips-service/internal/seed"
	"github.com/fathima-sithara/clips-service/internal/server"
	"github.com/fathima-sithara/clips-service/internal/services"
	"github.com/fathima-sithara/clips-service/internal/storage"
	"github.com/fathima-sithara/clips-service/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type AppContext struct {
	Config *config.Config
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger
	Mongo  *mongo.Client
	Redis  *redis.Client
	Events events.Publisher
	Seeder *seed.Seeder
	App    *fiber.App
}

type CleanupFn func(context.Context)

// Init loads the configuration and wires every dependency. The returned
// cleanup releases whatever was opened, also after a partial failure.
func Init(ctx context.Context, configPath string) (*AppContext, CleanupFn, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := utils.NewLogger(cfg.App.Env, cfg.Log.Level)
	sugar := logger.Sugar()
	a := &AppContext{Config: cfg, Logger: logger, Sugar: sugar, Events: events.Noop{}}
	sugar.Infof("Starting %s in %s environment", cfg.App.Name, cfg.App.Env)

	var closers []func(context.Context)
	cleanup := func(ctx context.Context) {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i](ctx)
		}
		if cerr := logger.Sync(); cerr != nil {
			log.Printf("Logger sync error: %v", cerr)
		}
	}
	fail := func(err error) (*AppContext, CleanupFn, error) {
		cleanup(context.Background())
		return nil, nil, err
	}

	checks := map[string]handlers.Check{}

	var repos *repository.Repos
	switch cfg.Store.Driver {
	case "memory":
		sugar.Warn("Using the in-memory store, data is lost on restart")
		repos = repository.NewMemoryRepos()
	default:
		db, client, err := database.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, sugar)
		if err != nil {
			return fail(err)
		}
		a.Mongo = client
		closers = append(closers, func(ctx context.Context) {
			if cerr := client.Disconnect(ctx); cerr != nil {
				sugar.Errorf("MongoDB disconnect error: %v", cerr)
			}
		})
		checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		repos = repository.NewMongoRepos(db)
	}

	if cfg.Redis.Enabled {
		rdb, err := database.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, sugar)
		if err != nil {
			return fail(err)
		}
		a.Redis = rdb
		closers = append(closers, func(context.Context) {
			if cerr := rdb.Close(); cerr != nil {
				sugar.Errorf("Redis client close error: %v", cerr)
			}
		})
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	if cfg.Kafka.Enabled {
		a.Events = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		closers = append(closers, func(context.Context) {
			if cerr := a.Events.Close(); cerr != nil {
				sugar.Errorf("Kafka writer close error: %v", cerr)
			}
		})
		sugar.Infof("Publishing events to %s", cfg.Kafka.Topic)
	}

	files, err := newFileStore(ctx, cfg)
	if err != nil {
		return fail(err)
	}

	jwtMgr, err := auth.NewJWTManager(cfg.JWT.Secret, cfg.TokenTTL)
	if err != nil {
		return fail(err)
	}

	engine := catalog.NewEngine(repos.Videos, repos.Categories, repos.Users, catalog.Options{
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		MaxPageSize:     cfg.Catalog.MaxPageSize,
		TrendingLimit:   cfg.Catalog.TrendingLimit,
		RecentLimit:     cfg.Catalog.RecentLimit,
		TopCategories:   cfg.Catalog.TopCategories,
	})
	m := metrics.New()

	authSvc := services.NewAuthService(repos.Users, jwtMgr, logger)
	videoSvc := services.NewVideoService(services.VideoDeps{
		Engine:   engine,
		Store:    repos.Videos,
		Registry: repos.Categories,
		Files:    files,
		Events:   a.Events,
		Metrics:  m,
		Log:      logger,
	})
	categorySvc := services.NewCategoryService(repos.Categories, engine)
	a.Seeder = seed.NewSeeder(repos.Videos, repos.Categories, logger)

	d := routes.Deps{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks, logger),
		Auth:        handlers.NewAuthHandler(authSvc),
		Videos:      handlers.NewVideoHandler(videoSvc),
		Categories:  handlers.NewCategoryHandler(categorySvc, a.Seeder),
		RequireAuth: middleware.JWTMiddleware(authSvc, logger),
	}
	if cfg.RateLimit.Enabled {
		if a.Redis != nil {
			d.RateLimit = middleware.NewRedisRateLimiter(a.Redis, "clips:rl", cfg.RateLimit.Requests, cfg.RateWindow, logger).Handler()
		} else {
			l := middleware.NewIPRateLimiter(cfg.RateLimit.Requests, cfg.RateWindow, logger)
			closers = append(closers, func(context.Context) { l.Close() })
			d.RateLimit = l.Handler()
		}
	}

	a.App = server.New(cfg, d, m, logger)
	return a, cleanup, nil
}

func newFileStore(ctx context.Context, cfg *config.Config) (storage.FileStore, error) {
	switch cfg.Uploads.Driver {
	case "s3":
		s, err := storage.NewS3Store(ctx, storage.S3Options{
			Region:     cfg.AWS.Region,
			Bucket:     cfg.AWS.Bucket,
			Endpoint:   cfg.AWS.Endpoint,
			Prefix:     "videos",
			PublicRead: cfg.S3.PublicRead,
			PresignTTL: cfg.PresignTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("init s3 store: %w", err)
		}
		return s, nil
	default:
		return storage.NewDiskStore(cfg.Uploads.Dir, cfg.Uploads.PublicPath)
	}
}
