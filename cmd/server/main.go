package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/room-designer/internal/api"
	"github.com/Rrens/room-designer/internal/catalog"
	"github.com/Rrens/room-designer/internal/config"
	"github.com/Rrens/room-designer/internal/domain"
	"github.com/Rrens/room-designer/internal/events"
	"github.com/Rrens/room-designer/internal/imagegen"
	"github.com/Rrens/room-designer/internal/logger"
	"github.com/Rrens/room-designer/internal/repository/memory"
	"github.com/Rrens/room-designer/internal/repository/mongo"
	"github.com/Rrens/room-designer/internal/repository/postgres"
	"github.com/Rrens/room-designer/internal/repository/redis"
	"github.com/Rrens/room-designer/internal/repository/sqlstore"
	"github.com/Rrens/room-designer/internal/search"
	"github.com/Rrens/room-designer/internal/security"
	"github.com/Rrens/room-designer/internal/service"
	"github.com/Rrens/room-designer/internal/storage"
	"github.com/Rrens/room-designer/internal/worker"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	envLoaded := false
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			envLoaded = true
			break
		}
	}
	if !envLoaded {
		fmt.Println("Warning: .env file not found in any standard location")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logCloser, err := logger.Setup(cfg.Logging, os.Getenv("ENV"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("store", cfg.Store.Driver).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting Room Designer API server")

	ctx := context.Background()
	var closers []io.Closer

	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load furniture catalog")
	}

	// Initialize Redis
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		closers = append(closers, redisClient)
	}

	// Initialize session store
	repo, closer, err := openSessionStore(ctx, cfg, redisClient)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open session store")
	}
	if closer != nil {
		closers = append(closers, closer)
	}

	var locker domain.Locker = memory.NewKeyedLocker()
	if redisClient != nil {
		locker = redis.NewLocker(redisClient, cfg.Server.RequestTimeout)
	}

	// Initialize object storage
	keys, err := storage.NewKeyGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create key generator")
	}

	var (
		objectStore service.ObjectStorage
		files       http.Handler
	)
	if cfg.Storage.Driver == config.StorageS3 {
		objectStore, err = storage.NewS3Storage(ctx, cfg.Storage.S3, keys, cfg.Storage.DownloadTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
	} else {
		local, err := storage.NewLocalStorage(cfg.Storage.Local.Dir, cfg.Server.PublicURL+"/files", keys, cfg.Storage.DownloadTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize local storage")
		}
		objectStore, files = local, local.Handler()
	}

	// Furniture search, cached in Redis when available
	var searcher search.Searcher = search.NewScraper(cat, search.Options{
		MaxResults:     cfg.Search.MaxResults,
		MaxPerType:     cfg.Search.MaxPerType,
		RequestTimeout: cfg.Search.RequestTimeout,
		PoliteDelay:    cfg.Search.PoliteDelay,
		UserAgent:      cfg.Search.UserAgent,
		MockFallback:   cfg.Search.MockFallback,
	})
	var searchCache *redis.SearchCache
	if redisClient != nil {
		searchCache = redis.NewSearchCache(redisClient, cfg.Search.CacheTTL)
		searcher = search.NewCachedSearcher(searcher, searchCache)
	}

	// Image generation
	replicate := imagegen.NewReplicateClient(cfg.Generation)
	if !replicate.IsConfigured() {
		log.Warn().Msg("Replicate token is empty, image generation will fail until REPLICATE_API_TOKEN is set")
	}
	genOpts := []imagegen.Option{imagegen.WithMaxFurniture(cfg.Generation.MaxFurniture)}
	if enhancer := imagegen.NewGeminiEnhancer(cfg.Gemini); enhancer.IsConfigured() {
		log.Info().Str("model", enhancer.Model()).Msg("Registering Gemini prompt enhancer")
		genOpts = append(genOpts, imagegen.WithEnhancer(enhancer))
	}
	generator := imagegen.NewGenerator(replicate.Strategies(), genOpts...)

	// Workflow events
	publisher := events.NewPublisher(cfg.Kafka)
	closers = append(closers, publisher)

	opts := []service.Option{
		service.WithMaxPercentage(cfg.Capacity.MaxPercentage),
		service.WithMaxUploadBytes(cfg.Upload.MaxImageMB << 20),
		service.WithLockTimeout(cfg.Store.LockTimeout),
	}
	if searchCache != nil {
		opts = append(opts, service.WithSearchCache(searchCache))
	}

	var queueClient *worker.Client
	if cfg.Worker.Enabled {
		queueClient = worker.NewClient(worker.RedisOpt(cfg.Redis), cfg.Worker.Queue)
		closers = append(closers, queueClient)
		opts = append(opts, service.WithTaskQueue(queueClient))
	}

	designService := service.NewDesignService(repo, locker, cat, objectStore, searcher, generator, publisher, opts...)

	// Background worker
	var workerServer *worker.Server
	if cfg.Worker.Enabled {
		workerServer, err = worker.NewServer(worker.RedisOpt(cfg.Redis), cfg.Worker, designService)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create background worker")
		}
		if err := workerServer.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start background worker")
		}
	}

	// Admin auth
	deps := api.Deps{Design: designService, Files: files}
	if cfg.Auth.AdminEnabled() {
		jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
		deps.JWT = jwtManager
		deps.Auth = service.NewAuthService(cfg.Auth, jwtManager)
	}
	if redisClient != nil {
		deps.RateLimiter = redis.NewRateLimiter(redisClient, cfg.Security.RateLimit)
	}

	// Initialize router
	router := api.NewRouter(cfg, deps)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if workerServer != nil {
		workerServer.Shutdown()
	}
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close resource")
		}
	}

	log.Info().Msg("Server stopped")
}

func loadCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.Path == "" {
		return catalog.Default()
	}
	return catalog.Load(cfg.Path)
}

type closeFunc func() error

func (f closeFunc) Close() error { return f() }

// openSessionStore returns the configured session repository and an optional closer
func openSessionStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (domain.SessionRepository, io.Closer, error) {
	ttl := cfg.Store.SessionTTL

	switch cfg.Store.Driver {
	case config.StoreRedis:
		return redis.NewSessionStore(redisClient, ttl), nil, nil

	case config.StorePostgres:
		if cfg.Database.Migrations != "" {
			if err := postgres.RunMigrations(cfg.Database.DSN(), cfg.Database.Migrations); err != nil {
				return nil, nil, err
			}
		}
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewSessionStore(db.Pool, ttl), closeFunc(func() error { db.Close(); return nil }), nil

	case config.StoreSQLite:
		store, err := sqlstore.OpenSQLite(ctx, cfg.SQLite.Path, ttl)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case config.StoreMySQL:
		store, err := sqlstore.OpenMySQL(ctx, cfg.MySQL.DSN(), ttl)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	case config.StoreMongo:
		store, err := mongo.NewSessionStore(ctx, cfg.Mongo, ttl)
		if err != nil {
			return nil, nil, err
		}
		return store, closeFunc(func() error { return store.Close(context.Background()) }), nil

	default:
		return memory.NewSessionStore(ttl), nil, nil
	}
}
