package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apexeduai/vault-backend/internal/api"
	"github.com/apexeduai/vault-backend/internal/api/handlers"
	"github.com/apexeduai/vault-backend/internal/auth"
	"github.com/apexeduai/vault-backend/internal/cache"
	"github.com/apexeduai/vault-backend/internal/config"
	"github.com/apexeduai/vault-backend/internal/db"
	"github.com/apexeduai/vault-backend/internal/extractor"
	"github.com/apexeduai/vault-backend/internal/generator"
	"github.com/apexeduai/vault-backend/internal/logger"
	"github.com/apexeduai/vault-backend/internal/media"
	"github.com/apexeduai/vault-backend/internal/metrics"
	"github.com/apexeduai/vault-backend/internal/middleware"
	"github.com/apexeduai/vault-backend/internal/repository/postgres"
	"github.com/apexeduai/vault-backend/internal/services"
	"github.com/apexeduai/vault-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	c := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	if c != nil {
		if err := c.Ping(ctx); err != nil {
			log.Warn("redis unreachable, continuing without cache", "err", err)
			c = nil
		} else {
			defer c.Close()
		}
	}

	var store media.Store
	var static http.Handler
	if cfg.MediaDriver == "s3" {
		s3store, err := media.NewS3Store(ctx, media.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
		if err != nil {
			log.Error("s3 store", "err", err)
			os.Exit(1)
		}
		store = s3store
	} else {
		disk := media.NewDiskStore(cfg.MediaDir, cfg.MediaBaseURL)
		store = disk
		static = http.StripPrefix("/static/", http.FileServer(http.Dir(disk.Dir())))
	}

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	admin := auth.NewStaticAdmin(cfg.AdminPhone, cfg.AdminPassword)
	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD not set, admin surface rejects all requests")
	}
	if !cfg.Redemption.Strict {
		log.Warn("redemption bypass enabled, references are not checked against the ledger")
	}

	gen := generator.NewHTTPGenerator(cfg.GenEndpoint, cfg.GenTimeout)

	userSvc := services.NewUserService(repos.Users, repos.GameLogs, store)
	redeemSvc := services.NewRedemptionService(repos.Users, repos.Transactions, cfg.Redemption)
	paySvc := services.NewPaymentService(repos.Payments, repos.Transactions, store)
	examSvc := services.NewExamService(repos.Exams, gen, extractor.PlainText{}, c, wp,
		cfg.GenQuestions, cfg.GenCacheTTL)

	sweeper := services.NewSweeper(repos.Users, cfg.SweepInterval)
	go sweeper.Run(ctx)

	metrics.Init()
	r := api.NewRouter(api.Deps{
		Cfg: cfg,
		Auth: handlers.NewAuthHandler(redeemSvc, userSvc, tm, c,
			cfg.AccessTTL, cfg.LoginAttempts, cfg.LoginWindow),
		Exams:    handlers.NewExamHandler(examSvc, cfg.GenEndpoint),
		Payments: handlers.NewPaymentHandler(paySvc),
		Admin:    handlers.NewAdminHandler(userSvc),
		AuthMW:   middleware.NewAuthMiddleware(tm, userSvc),
		AdminMW:  middleware.RequireAdmin(admin),
		Static:   static,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
