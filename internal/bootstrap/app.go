package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"harbor-backend/internal/alerts"
	googleauth "harbor-backend/internal/auth"
	"harbor-backend/internal/checkins"
	"harbor-backend/internal/scoring"
	"harbor-backend/internal/services/health"
	"harbor-backend/internal/shared/cache"
	"harbor-backend/internal/shared/config"
	"harbor-backend/internal/shared/server"
	"harbor-backend/internal/shared/storage/db"
	mongostore "harbor-backend/internal/shared/storage/mongo"
	"harbor-backend/internal/shared/telemetry"
	"harbor-backend/internal/users"
)

const cacheNamespace = "harbor"

// App holds shared dependencies and the HTTP router built from them.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Mongo           *mongo.Client
	MongoDB         *mongo.Database
	Redis           *redis.Client
	Cache           cache.JSONCache
	Alerts          alerts.Publisher
	CheckInsRepo    checkins.Repo
	UsersRepo       users.Repo
	CheckInsService *checkins.Service
	UsersService    *users.Service
	CheckInHandler  *checkins.Handler
	UsersHandler    *users.Handler
	GoogleAuth      *googleauth.GoogleService
	Health          *health.Service

	closers []func(context.Context) error
}

// Build connects the configured backends and wires services and routes.
// Postgres is preferred over MongoDB; with neither, dev-like environments use
// in-memory repositories.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()
	app := &App{Config: cfg, Health: health.NewService(cfg.Env)}

	if err := app.buildStores(ctx); err != nil {
		app.Close(ctx)
		return nil, err
	}
	if err := app.buildCache(ctx); err != nil {
		app.Close(ctx)
		return nil, err
	}
	if err := app.buildAlerts(ctx); err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.buildServices()

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		CheckInHandler: app.CheckInHandler,
		UserHandler:    app.UsersHandler,
		GoogleAuth:     app.GoogleAuth,
		Health:         app.Health,
	})
	return app, nil
}

// Close releases connections opened by Build, in reverse order.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

func (a *App) buildStores(ctx context.Context) error {
	cfg := a.Config
	switch {
	case strings.TrimSpace(cfg.DatabaseURL) != "":
		sqlDB, err := connectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			if isDevLike(cfg.Env) {
				telemetry.Warn("bootstrap.db_fallback", map[string]any{"error": err.Error()})
				break
			}
			return err
		}
		a.DB = sqlDB
		if !db.IsLambdaRuntime() {
			a.onClose(func(context.Context) error { return sqlDB.Close() })
		}
		a.Health.Register("postgres", sqlDB.PingContext)
		a.CheckInsRepo = &checkins.PGRepo{DB: sqlDB}
		a.UsersRepo = &users.PGRepo{DB: sqlDB}
		return nil

	case strings.TrimSpace(cfg.MongoURI) != "":
		client, database, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			if isDevLike(cfg.Env) {
				telemetry.Warn("bootstrap.mongo_fallback", map[string]any{"error": err.Error()})
				break
			}
			return err
		}
		a.Mongo = client
		a.MongoDB = database
		a.onClose(client.Disconnect)
		a.Health.Register("mongo", func(ctx context.Context) error { return client.Ping(ctx, nil) })

		checkInRepo := checkins.NewMongoRepo(database)
		userRepo := users.NewMongoRepo(database)
		if err := checkInRepo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure checkin indexes: %w", err)
		}
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure user indexes: %w", err)
		}
		a.CheckInsRepo = checkInRepo
		a.UsersRepo = userRepo
		return nil

	default:
		if !isDevLike(cfg.Env) {
			return errors.New("DATABASE_URL or MONGO_URI is required")
		}
	}

	telemetry.Info("bootstrap.memory_store", map[string]any{"env": cfg.Env})
	a.CheckInsRepo = checkins.NewMemoryRepo()
	a.UsersRepo = users.NewMemoryRepo()
	return nil
}

func connectPostgres(ctx context.Context, databaseURL string) (*sql.DB, error) {
	if db.IsLambdaRuntime() {
		return db.GetSingleton(ctx, databaseURL, db.OptionsFromEnv(db.DefaultLambdaOptions()))
	}
	return db.Connect(ctx, databaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
}

func (a *App) buildCache(ctx context.Context) error {
	if strings.TrimSpace(a.Config.RedisAddr) == "" {
		a.Cache = cache.NewMemory()
		return nil
	}
	client, err := cache.NewRedisClient(ctx, a.Config.RedisAddr)
	if err != nil {
		if isDevLike(a.Config.Env) {
			telemetry.Warn("bootstrap.redis_fallback", map[string]any{"error": err.Error()})
			a.Cache = cache.NewMemory()
			return nil
		}
		return err
	}
	a.Redis = client
	a.Cache = cache.NewRedis(client, cacheNamespace)
	a.onClose(func(context.Context) error { return client.Close() })
	a.Health.Register("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
	return nil
}

func (a *App) buildAlerts(ctx context.Context) error {
	cfg := a.Config
	var (
		publisher alerts.Publisher
		err       error
	)
	switch cfg.AlertSink {
	case alerts.SinkSQS:
		publisher, err = alerts.NewSQSPublisher(ctx, cfg.AWSRegion, cfg.AlertQueueURL)
	case alerts.SinkKafka:
		var kp *alerts.KafkaPublisher
		kp, err = alerts.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaAlertTopic)
		if err == nil {
			a.onClose(func(context.Context) error { return kp.Close() })
			publisher = kp
		}
	default:
		publisher = alerts.LogPublisher{}
	}
	if err != nil {
		if !isDevLike(cfg.Env) {
			return fmt.Errorf("alert sink %s: %w", cfg.AlertSink, err)
		}
		telemetry.Warn("bootstrap.alerts_fallback", map[string]any{"sink": cfg.AlertSink, "error": err.Error()})
		publisher = alerts.LogPublisher{}
	}
	a.Alerts = publisher
	return nil
}

func (a *App) buildServices() {
	engine := scoring.Engine{Strict: a.Config.ScoringStrict}
	a.CheckInsService = checkins.NewService(a.CheckInsRepo, engine, a.Alerts, a.Cache)
	a.UsersService = users.NewService(a.UsersRepo)

	a.CheckInHandler = checkins.NewHandler(a.CheckInsService, a.UsersService)
	a.UsersHandler = users.NewHandler(a.UsersService)
	a.GoogleAuth = googleauth.NewGoogleService(
		a.Config.GoogleClientID,
		a.Config.GoogleClientSecret,
		a.Config.GoogleRedirectURL,
		a.Config.UIRedirectURL,
		a.UsersService,
	)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
