package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/eshop-tech/store-backend/internal/cfg"
	v1Http "github.com/eshop-tech/store-backend/internal/delivery/v1/http"
	"github.com/eshop-tech/store-backend/internal/i18n"
	s3Repo "github.com/eshop-tech/store-backend/internal/repository/minio"
	"github.com/eshop-tech/store-backend/internal/repository/pgdb"
	pgdbConv "github.com/eshop-tech/store-backend/internal/repository/pgdb/converter"
	redisRepo "github.com/eshop-tech/store-backend/internal/repository/redis"
	redisConv "github.com/eshop-tech/store-backend/internal/repository/redis/converter"
	"github.com/eshop-tech/store-backend/internal/usecase"
	"github.com/eshop-tech/store-backend/pkg/clients"
	"github.com/eshop-tech/store-backend/pkg/closer"
	"github.com/eshop-tech/store-backend/pkg/e"
	"github.com/eshop-tech/store-backend/pkg/logger"
	"github.com/eshop-tech/store-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

func Run() {
	logger := logger.NewSlogLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	cl := closer.NewCloser(2 * time.Second)

	db, err := initPGDB(logger, cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize database")
		os.Exit(1)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	userConv := pgdbConv.NewUserConverter()
	prConv := pgdbConv.NewProductConverter()
	cacheConv := redisConv.NewProductConverter()

	userRepo := pgdb.NewUserRepo(db.Pool, userConv)
	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	cartRepo := pgdb.NewCartRepo(db.Pool)
	orderRepo := pgdb.NewOrderRepo(db.Pool)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(redisCtx); err != nil {
		redisCancel()
		logger.Errorf(err, "failed to connect to redis")
		os.Exit(1)
	}
	redisCancel()
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	cacheRepo := redisRepo.NewCacheRepo(redisClient, cacheConv, cfg.Redis, logger)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		os.Exit(1)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		logger.Errorf(err, "failed to initialize MinIO bucket")
		os.Exit(1)
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)

	bundle, err := i18n.NewBundle(cfg.Locale.Default)
	if err != nil {
		logger.Errorf(err, "failed to load locales")
		os.Exit(1)
	}

	authUC := usecase.NewAuthUC(userRepo, cfg.Auth, logger)
	productUC := usecase.NewProductUC(productRepo, cacheRepo, imageRepo, cfg.Minio, logger)
	cartUC := usecase.NewCartUC(cartRepo, productRepo, logger)
	orderUC := usecase.NewOrderUC(orderRepo, cartRepo, productRepo, cacheRepo, db.Pool, logger)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := seed(seedCtx, cfg.Seed, userRepo, productRepo, logger); err != nil {
		seedCancel()
		logger.Errorf(err, "failed to seed initial data")
		os.Exit(1)
	}
	seedCancel()

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, bundle, logger)
	router.Init(cfg.Cors, authUC, productUC, cartUC, orderUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Stop(shutdownCtx); err != nil {
		logger.Errorf(err, "HTTP server shutdown error")
	} else {
		logger.Infof("HTTP server stopped")
	}

	if err := cl.Close(shutdownCtx); err != nil {
		logger.Warnf("resource shutdown error: %v", err)
	}

	logger.Infof("Application shutdown complete")
	if appErr != nil {
		os.Exit(1)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
