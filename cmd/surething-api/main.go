package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"surething-api/internal/config"
	"surething-api/internal/database"
	"surething-api/internal/domain"
	httpapi "surething-api/internal/http"
	"surething-api/internal/logger"
	"surething-api/internal/notify"
	"surething-api/internal/repository"
	"surething-api/internal/service"
	"surething-api/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "surething-api")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Optional DB. When unavailable the API falls back to in-memory repos so
	// local development works without Postgres.
	var db *sql.DB
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			if err := database.ApplySchema(db, database.Schema); err != nil {
				log.Fatal("failed to apply schema", zap.Error(err))
			}
			log.Info("DB enabled for surething-api")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory repos", zap.Error(err))
		}
	}

	var (
		requestsRepo   repository.RequestsRepository
		accountsRepo   repository.AccountsRepository
		categoriesRepo repository.CategoriesRepository
		referenceRepo  repository.ReferenceRepository
	)
	if db != nil {
		requestsRepo = repository.NewPostgresRequestsRepository(db)
		accountsRepo = repository.NewPostgresAccountsRepository(db)
		categoriesRepo = repository.NewPostgresCategoriesRepository(db)
		referenceRepo = repository.NewPostgresReferenceRepository(db)
	} else {
		memRequests := repository.NewMemoryRequestsRepo()
		memReference := repository.NewMemoryReferenceRepo()
		seedMemoryReference(memRequests, memReference)
		requestsRepo = memRequests
		accountsRepo = repository.NewMemoryAccountsRepo()
		categoriesRepo = repository.NewMemoryCategoriesRepo()
		referenceRepo = memReference
	}

	// Optional redis-backed cache for reference data.
	var redisClient *redis.Client
	var kv store.KV
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		kv = store.NewRedisKV(redisClient)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}
	cacheTTL := time.Duration(cfg.Redis.CacheTTL) * time.Second

	// Optional webhook notifier for request lifecycle events.
	var notifier notify.Notifier = notify.NoopNotifier{}
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(
			cfg.Notify.WebhookURL,
			time.Duration(cfg.Notify.TimeoutSec)*time.Second,
			log,
		)
		log.Info("webhook notifier enabled")
	}

	requests := service.NewRequestService(requestsRepo, notifier, log)
	export := service.NewExportService(requestsRepo)
	accounts := service.NewAccountService(accountsRepo, log)
	categories := service.NewCategoryService(categoriesRepo, kv, cacheTTL, log)
	reference := service.NewReferenceService(referenceRepo, kv, cacheTTL, log)

	router := httpapi.NewRouter(log)
	router.RegisterRequestRoutes(httpapi.NewRequestsHandler(requests, export, log))
	router.RegisterAccountRoutes(httpapi.NewAccountsHandler(accounts, log))
	router.RegisterCategoryRoutes(httpapi.NewCategoriesHandler(categories, log))
	router.RegisterReferenceRoutes(httpapi.NewReferenceHandler(reference, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case <-errCh:
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}

// seedMemoryReference gives the memory-backed mode a minimal set of reference
// rows so search joins and the reference endpoints answer something useful.
func seedMemoryReference(requests *repository.MemoryRequestsRepo, reference *repository.MemoryReferenceRepo) {
	regions := []domain.Region{
		{ID: 1, Name: "North"},
		{ID: 2, Name: "South"},
	}
	districts := []domain.District{
		{ID: 1, RegionID: 1, Name: "Hillside"},
		{ID: 2, RegionID: 2, Name: "Riverside"},
	}
	for _, r := range regions {
		reference.AddRegion(r)
		requests.SetRegion(r.ID, r.Name)
	}
	for _, d := range districts {
		reference.AddDistrict(d)
		requests.SetDistrict(d.ID, d.RegionID, d.Name)
	}
	requests.SetCategory(1, "General")
}
