package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"jobportal/internal/accounts"
	"jobportal/internal/api"
	"jobportal/internal/api/middleware"
	"jobportal/internal/applications"
	"jobportal/internal/auth"
	"jobportal/internal/config"
	"jobportal/internal/database"
	"jobportal/internal/jobs"
	"jobportal/internal/metrics"
	"jobportal/internal/policy"
	"jobportal/internal/store"
	"jobportal/internal/tasks"
)

func main() {
	// 本地开发时从 .env 读取环境变量，文件不存在时忽略
	_ = godotenv.Load()

	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	log.Printf("api bootstrapped with db host=%s port=%d db=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Printf("database connection ready")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("database migrated")

	redisAddr := cfg.Redis.Addr()
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		// 登录保护与推送在 Redis 不可用时降级，不阻止启动
		logger.Warn("redis unavailable, login guard fails open", slog.String("redis_addr", redisAddr), slog.Any("error", err))
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		log.Fatalf("init token service: %v", err)
	}

	users := store.NewUserStore(db)
	jobStore := store.NewJobStore(db)
	appStore := store.NewApplicationStore(db)
	resolver := auth.NewResolver(tokens, users)

	policy.SetObserver(metrics.AuthzDenied)

	accountService := accounts.NewService(users, auth.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, logger)
	jobService := jobs.NewService(jobStore, logger)
	appService := applications.NewService(appStore, jobStore, logger,
		applications.WithNotifier(tasks.NewNotifier(asynqClient)),
		applications.WithObservers(metrics.ApplicationSubmitted, metrics.ApplicationStatusChanged),
	)

	guard := api.NewLoginGuard(redisClient, cfg.Auth.LoginRateLimitPerHour, cfg.Auth.LoginLockThreshold, cfg.Auth.LoginLockTTL)

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, api.Handlers{
		Auth:         api.NewAuthHandler(accountService, guard, metrics.AuthFailure),
		Jobs:         api.NewJobHandler(jobService),
		Applications: api.NewApplicationHandler(appService),
		Ws:           api.NewWsHandler(redisClient, resolver, logger, nil),
	}, middleware.Authenticate(resolver, metrics.AuthFailure))

	address := fmt.Sprintf(":%d", cfg.API.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("api listening on %s", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start api server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", slog.Any("error", err))
	}
	logger.Info("api stopped")
}
