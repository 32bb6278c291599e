package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/keerthi-manne/EL-management-System/internal/application/notify"
	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/application/project"
	"github.com/keerthi-manne/EL-management-System/internal/application/team"
	"github.com/keerthi-manne/EL-management-System/internal/config"
	infraauth "github.com/keerthi-manne/EL-management-System/internal/infrastructure/auth"
	httprouter "github.com/keerthi-manne/EL-management-System/internal/infrastructure/http"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/http/handlers"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/http/middleware"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/persistence/memory"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/persistence/postgres"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/queue"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/webhook"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx := context.Background()

	var store ports.Store
	var pool *pgxpool.Pool
	if cfg.Database.URL != "" {
		pool, err = pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to database")
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("ping database")
		}
		store = postgres.NewStore(pool)
	} else {
		log.Warn().Msg("DATABASE_URL not set; using in-memory store")
		store = memory.NewStore()
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	var emitter ports.WebhookEmitter = webhook.NewNoopEmitter()
	if cfg.Webhook.URL != "" {
		emitter = webhook.NewHTTPEmitter(cfg.Webhook.URL)
	}

	var taskEnqueuer ports.TaskEnqueuer
	var asynqWorker *queue.Worker
	if redisClient != nil {
		redisOpt, _ := redis.ParseURL(cfg.Redis.URL)
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
		asynqEnq, err := queue.NewAsynqEnqueuer(asynqOpt, log)
		if err != nil {
			log.Fatal().Err(err).Msg("create asynq enqueuer")
		}
		defer asynqEnq.Close()
		taskEnqueuer = asynqEnq
		asynqWorker = queue.NewWorker(asynqOpt, emitter, log)
		go func() {
			if err := asynqWorker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		taskEnqueuer = queue.NewNoopEnqueuer()
	}

	dispatcher := notify.NewDispatcher(store.Notifications(), taskEnqueuer, log)
	feed := notify.NewFeed(store.Notifications(), notify.FeedConfig{
		PollInterval: cfg.Feed.PollInterval,
		BatchSize:    cfg.Feed.BatchSize,
	}, log)

	formTeamUC := team.NewFormTeam(store, dispatcher)
	respondUC := team.NewRespondInvitation(store, dispatcher)
	createProjectUC := project.NewCreateProject(store, cfg.Projects.ThemeCap)
	moderateUC := project.NewModerate(store)

	verifier := infraauth.NewTokenVerifier(cfg.JWT.Secret)
	requireJWT := middleware.NewAuthValidator(verifier).Handler

	ipLimit, err := middleware.NewIPRateLimiter(cfg.Rate.PerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	userLimit, err := middleware.NewUserRateLimiter(cfg.Rate.PerUser)
	if err != nil {
		log.Fatal().Err(err).Msg("create user rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Server.IsDevelopment))
	corsMiddleware := middleware.CORS(cfg.CORS.AllowedOrigins,
		[]string{http.MethodGet, http.MethodPost, http.MethodOptions},
		[]string{"Authorization", "Content-Type"})

	notificationsHandler := handlers.NewNotificationsHandler(dispatcher, store.Notifications(), respondUC, feed, log)
	projectsHandler := handlers.NewProjectsHandler(formTeamUC, createProjectUC, moderateUC, store.Projects(), store.Memberships(), log)
	healthHandler := handlers.NewHealthHandler(pool, redisClient)

	router := httprouter.NewRouter(httprouter.RouterConfig{
		NotificationsHandler: notificationsHandler,
		ProjectsHandler:      projectsHandler,
		HealthHandler:        healthHandler,
		RequireJWT:           requireJWT,
		CORS:                 corsMiddleware,
		Secure:               secureMiddleware,
		IPRateLimit:          ipLimit,
		UserRateLimit:        userLimit,
		Log:                  log,
		Metrics:              true,
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: the SSE feed holds its response open.
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
	log.Info().Msg("server stopped")
}
