package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	accountingapp "github.com/fabworks/backend/internal/application/accounting"
	billingapp "github.com/fabworks/backend/internal/application/billing"
	identityapp "github.com/fabworks/backend/internal/application/identity"
	jobapp "github.com/fabworks/backend/internal/application/job"
	partnerapp "github.com/fabworks/backend/internal/application/partner"
	purchasingapp "github.com/fabworks/backend/internal/application/purchasing"
	workforceapp "github.com/fabworks/backend/internal/application/workforce"
	"github.com/fabworks/backend/internal/infrastructure/auth"
	"github.com/fabworks/backend/internal/infrastructure/config"
	"github.com/fabworks/backend/internal/infrastructure/event"
	"github.com/fabworks/backend/internal/infrastructure/logger"
	"github.com/fabworks/backend/internal/infrastructure/persistence"
	"github.com/fabworks/backend/internal/infrastructure/scheduler"
	"github.com/fabworks/backend/internal/infrastructure/telemetry"
	"github.com/fabworks/backend/internal/interfaces/http/handler"
	"github.com/fabworks/backend/internal/interfaces/http/middleware"
	"github.com/fabworks/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting fabworks backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database, with GORM logging routed through zap
	gormLog := logger.NewGormLogger(log, 200*time.Millisecond)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	if err := persistence.AutoMigrate(db.DB); err != nil {
		log.Fatal("failed to migrate schema", zap.Error(err))
	}

	// Redis backs the token blacklist. An outage degrades to fail-open
	// revocation checks rather than blocking startup.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		_ = redisClient.Close()
	}()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, token revocation checks will fail open", zap.Error(err))
	}
	cancelPing()

	// Telemetry
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.ExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("error shutting down meter provider", zap.Error(err))
		}
	}()
	metrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("fabworks"), log)
	if err != nil {
		log.Fatal("failed to create business metrics", zap.Error(err))
	}

	// Repositories
	jobRepo := persistence.NewGormJobRepository(db.DB)
	costSetRepo := persistence.NewGormCostSetRepository(db.DB)
	rejectionRepo := persistence.NewGormDeltaRejectionRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	staffRepo := persistence.NewGormStaffRepository(db.DB)
	timeEntryRepo := persistence.NewGormTimeEntryRepository(db.DB)
	appErrorRepo := persistence.NewGormAppErrorRepository(db.DB)
	numbers := persistence.NewNumberGenerator(db.DB)

	// Event bus with cross-context handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewRedisTokenBlacklist(redisClient)
	identityService := identityapp.NewService(staffRepo, jwtService, blacklist, log)
	jobService := jobapp.NewService(jobRepo, rejectionRepo, clientRepo, numbers, eventBus, metrics, log)
	costingService := jobapp.NewCostingService(jobRepo, costSetRepo, log)
	partnerService := partnerapp.NewService(clientRepo, eventBus, log)
	billingService := billingapp.NewService(
		quoteRepo, invoiceRepo, jobRepo, costSetRepo, numbers, nil,
		eventBus, metrics, decimal.NewFromFloat(cfg.Billing.TaxRate), log,
	)
	purchasingService := purchasingapp.NewService(purchaseOrderRepo, numbers, eventBus, metrics, log)
	workforceService := workforceapp.NewService(staffRepo, timeEntryRepo, eventBus, metrics, log)
	errorLogService := accountingapp.NewErrorLogService(appErrorRepo, log)

	// Quote acceptance flips the job, logged time and received goods feed
	// actual costs, client merges re-point jobs.
	eventBus.Subscribe(jobapp.NewQuoteAcceptedHandler(jobRepo, eventBus, log))
	eventBus.Subscribe(jobapp.NewTimeLoggedHandler(costingService, log))
	eventBus.Subscribe(jobapp.NewGoodsReceivedHandler(costingService, log))
	eventBus.Subscribe(jobapp.NewClientMergedHandler(jobRepo, log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("error stopping event bus", zap.Error(err))
		}
	}()

	// Nightly maintenance
	if cfg.Scheduler.Enabled {
		executor := accountingapp.NewNightlyExecutor(
			billingService, jobService, rejectionRepo, appErrorRepo,
			errorLogService, cfg.Retention, log,
		)
		nightly := scheduler.NewScheduler(scheduler.Config{
			Enabled:           cfg.Scheduler.Enabled,
			DailyRunAt:        cfg.Scheduler.DailyRunAt,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, executor, log)
		if err := nightly.Start(context.Background()); err != nil {
			log.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := nightly.Stop(context.Background()); err != nil {
				log.Error("error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("nightly scheduler started", zap.String("daily_run_at", cfg.Scheduler.DailyRunAt))
	}

	// HTTP engine and middleware stack
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(
			cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
		log.Info("rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	engine.Use(middleware.JWTAuth(middleware.JWTConfig{
		JWTService: jwtService,
		Blacklist:  blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/health",
		},
		Logger: log,
	}))

	// Routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewAuthHandler(identityService, workforceService)).
		Register(handler.NewJobHandler(jobService)).
		Register(handler.NewCostingHandler(costingService)).
		Register(handler.NewClientHandler(partnerService)).
		Register(handler.NewBillingHandler(billingService)).
		Register(handler.NewPurchasingHandler(purchasingService)).
		Register(handler.NewWorkforceHandler(workforceService)).
		Register(handler.NewSystemHandler(db.DB, errorLogService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
