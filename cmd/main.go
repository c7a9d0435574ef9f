package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/nonthaphat-dev/lendwatch/internal/clock"
	"github.com/nonthaphat-dev/lendwatch/internal/config"
	"github.com/nonthaphat-dev/lendwatch/internal/handler"
	"github.com/nonthaphat-dev/lendwatch/internal/health"
	"github.com/nonthaphat-dev/lendwatch/internal/infra/passrecorder"
	"github.com/nonthaphat-dev/lendwatch/internal/infra/postgres"
	"github.com/nonthaphat-dev/lendwatch/internal/infra/schedlock"
	"github.com/nonthaphat-dev/lendwatch/internal/observability/logging"
	"github.com/nonthaphat-dev/lendwatch/internal/observability/metrics"
	"github.com/nonthaphat-dev/lendwatch/internal/observability/middleware"
	"github.com/nonthaphat-dev/lendwatch/internal/scheduler"
	"github.com/nonthaphat-dev/lendwatch/internal/service/escalation"
	"github.com/nonthaphat-dev/lendwatch/internal/service/inbox"
	"github.com/nonthaphat-dev/lendwatch/internal/service/renewal"
	"github.com/nonthaphat-dev/lendwatch/internal/service/tier"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	logging.Setup(cfg.LogLevel)

	clk, err := clock.NewSystem()
	if err != nil {
		slog.Error("failed to initialize service clock", slog.String("error", err.Error()))
		return 1
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect postgres", slog.String("error", err.Error()))
		return 1
	}
	defer pool.Close()

	slog.Info("postgres connected")

	escalationMetrics, err := metrics.NewEscalationMetrics()
	if err != nil {
		slog.Error("failed to initialize escalation metrics", slog.String("error", err.Error()))
		return 1
	}

	recorderCfg := passrecorder.LoadConfig()
	recorder, err := passrecorder.NewRecorder(ctx, recorderCfg)
	if err != nil {
		slog.Error("failed to initialize pass recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close pass recorder", slog.String("error", err.Error()))
		}
	}()

	// The Redis client exists only when the scheduler runs behind the
	// cross-process lease; a single-replica deployment needs neither.
	var redisClient *redis.Client
	var lease scheduler.Lease
	if cfg.Scheduler.UseRedisLease {
		if err := cfg.Redis.Validate(); err != nil {
			slog.Error("redis configuration error", slog.String("error", err.Error()))
			return 1
		}

		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			slog.Error("failed to instrument redis tracing", slog.String("error", err.Error()))
			return 1
		}
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			slog.Error("failed to instrument redis metrics", slog.String("error", err.Error()))
			return 1
		}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Error("failed to connect redis",
				slog.String("addr", cfg.Redis.Addr),
				slog.String("error", err.Error()),
			)
			return 1
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}()

		lease = schedlock.NewRedisLease(redisClient, cfg.Scheduler.LeaseTTL)
		slog.Info("redis connected", slog.String("addr", cfg.Redis.Addr))
	}

	uow := postgres.NewUnitOfWork(pool, clk.Location())
	stores := postgres.NewStores(pool, clk.Location())

	escalationService := escalation.NewService(uow, clk, tier.NewClassifier(), escalationMetrics, recorder)
	renewalService := renewal.NewService(uow, clk)
	inboxService := inbox.NewService(stores.Notifications)

	schedOpts := []scheduler.Option{scheduler.WithInterval(cfg.Scheduler.Interval)}
	if lease != nil {
		schedOpts = append(schedOpts, scheduler.WithLease(lease))
	}
	sched := scheduler.New(scheduler.PassRunnerFunc(func(ctx context.Context) error {
		_, err := escalationService.RunPass(ctx)
		return err
	}), schedOpts...)

	sched.Start(ctx)
	defer sched.Stop()

	escalationHandler := handler.NewEscalationHandler(escalationService)
	notificationHandler := handler.NewNotificationHandler(inboxService)
	renewalHandler := handler.NewRenewalHandler(renewalService)

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths: []string{"/health", "/health/live", "/health/ready"},
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(pool, redisClient, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/escalation/run", escalationHandler.HandleRunPass)
		v1.GET("/notifications", notificationHandler.HandleList)
		v1.POST("/notifications/:id/dismiss", notificationHandler.HandleDismiss)
		v1.POST("/renewals", renewalHandler.HandleCreate)
		v1.POST("/renewals/:id/decide", renewalHandler.HandleDecide)
		v1.GET("/renewals/pending", renewalHandler.HandlePending)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Duration("scheduler_interval", cfg.Scheduler.Interval),
			slog.Bool("scheduler_leased", lease != nil),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
