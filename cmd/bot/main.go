package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/painnoll/painnoll-bot/internal/admin"
	"github.com/painnoll/painnoll-bot/internal/bot"
	"github.com/painnoll/painnoll-bot/internal/database"
	"github.com/painnoll/painnoll-bot/internal/i18n"
	"github.com/painnoll/painnoll-bot/internal/progress"
	"github.com/painnoll/painnoll-bot/internal/repository"
	"github.com/painnoll/painnoll-bot/internal/scheduler"
	"github.com/painnoll/painnoll-bot/internal/state"
	"github.com/painnoll/painnoll-bot/internal/user"
	"github.com/painnoll/painnoll-bot/pkg/config"
	"github.com/painnoll/painnoll-bot/pkg/graceful"
	"github.com/painnoll/painnoll-bot/pkg/logger"
	"github.com/painnoll/painnoll-bot/pkg/redis"

	_ "github.com/lib/pq"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log := logger.New(*cfg)
	config.Watch(v, log)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			log.Error("failed to initialize sentry", "error", err)
		}
	}

	log.Info("starting painnoll bot", "env", cfg.AppEnv, "mode", cfg.Bot.Mode)

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error("error closing database", "error", cerr)
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	migrator := database.NewMigrator(db, log)
	if err := migrator.ApplyDir(ctx, "migrations"); err != nil {
		log.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			log.Error("error closing redis", "error", cerr)
		}
	}()

	fsm := state.NewStateMachine(state.NewRedisStorage(redisClient, log), log, redisClient)

	userRepo := repository.NewUserRepository(db, log)
	progressRepo := repository.NewProgressRepository(db, log)

	userService := user.NewService(userRepo, user.NewCache(redisClient), log)
	progressService := progress.NewService(progressRepo, log)
	adminService := admin.NewService(cfg.Bot, userService, progressService, log)

	translations, err := i18n.Load("uz")
	if err != nil {
		log.Error("failed to load translations", "error", err)
		os.Exit(1)
	}

	sched := scheduler.New(userRepo, log, cfg.Scheduler.TimezoneOffset, cfg.Scheduler.DeferDelay)

	b, err := bot.New(*cfg, log, fsm, userService, progressService, adminService, sched, translations)
	if err != nil {
		log.Error("failed to initialize bot", "error", err)
		os.Exit(1)
	}

	sched.SetSender(b)
	if err := sched.InstallAll(ctx); err != nil {
		log.Error("failed to install reminder schedules", "error", err)
		os.Exit(1)
	}
	sched.Start()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := graceful.NewServer(log, &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: mux,
	}, cfg.Server.ShutdownTimeout)

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil {
			log.Error("http server stopped with error", "error", err)
		}
	}()

	go b.Start()

	<-ctx.Done()

	log.Info("shutting down painnoll bot")
	b.Stop()
	sched.Stop()
}
