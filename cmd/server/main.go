package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seu-repo/ateleslie-api/internal/adapter/cache"
	"github.com/seu-repo/ateleslie-api/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/ateleslie-api/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/ateleslie-api/internal/adapter/imagestore"
	"github.com/seu-repo/ateleslie-api/internal/adapter/queue"
	"github.com/seu-repo/ateleslie-api/internal/adapter/storage/mongodb"
	"github.com/seu-repo/ateleslie-api/internal/adapter/storage/postgres"
	"github.com/seu-repo/ateleslie-api/internal/adapter/vault"
	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/observability/telemetry"
	"github.com/seu-repo/ateleslie-api/internal/ports"
	"github.com/seu-repo/ateleslie-api/internal/service/admin"
	"github.com/seu-repo/ateleslie-api/internal/service/auth"
	"github.com/seu-repo/ateleslie-api/internal/service/contact"
	"github.com/seu-repo/ateleslie-api/internal/service/email"
	"github.com/seu-repo/ateleslie-api/internal/service/event"
	"github.com/seu-repo/ateleslie-api/internal/service/health"
	"github.com/seu-repo/ateleslie-api/internal/service/image"
	"github.com/seu-repo/ateleslie-api/internal/service/newsletter"
	"github.com/seu-repo/ateleslie-api/pkg/config"
)

const serviceName = "ateleslie-api"

// repositories is the storage surface chosen by database.driver.
type repositories struct {
	users       ports.UserRepository
	events      ports.EventRepository
	contacts    ports.ContactRepository
	newsletters ports.NewsletterRepository
	ping        health.PingFunc
	close       func() error
}

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg.Logging, cfg.App.IsProduction())
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	logger.Info("Starting Ateleslie API",
		zap.String("service", serviceName),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Overlay secrets from Vault
	if cfg.Vault.Enabled {
		secrets, err := vault.NewSecretManager(cfg.Vault, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Vault client", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = secrets.Apply(ctx, cfg)
		cancel()
		if err != nil {
			logger.Fatal("Failed to read secrets from Vault", zap.Error(err))
		}
	}

	// 4. Initialize OpenTelemetry
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(cfg.OpenTelemetry, cfg.App.Version)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize Database
	repos, err := openRepositories(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer repos.close()

	// 6. Initialize Cache (Redis, falling back to memory)
	var appCache ports.Cache
	if cfg.Redis.Enabled {
		appCache, err = cache.NewRedisCache(cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
		}
	}
	if appCache == nil {
		appCache = cache.NewLocalCache(time.Minute, logger)
	}
	defer appCache.Close()

	// 7. Initialize Message Queue
	messageQueue, err := openQueue(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer messageQueue.Close()

	// 8. Initialize Image Storage
	store, err := openImageStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	// 9. Initialize Services
	mailer, err := email.NewService(email.ConfigFrom(cfg), logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service", zap.Error(err))
	}

	perms := domain.DefaultPermissionTable()
	tokens := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiresIn, appCache, logger)
	rbacService := auth.NewRBACService(perms, logger)

	newsletterService := newsletter.NewService(repos.newsletters, repos.users, mailer, newsletter.Options{
		BatchSize:   cfg.Email.MaxPerBatch,
		Concurrency: cfg.Email.Concurrency,
	}, logger)
	authService := auth.NewService(repos.users, tokens, perms, mailer, messageQueue, newsletterService, cfg.Auth.ResetTokenTTL, logger)
	imageService := image.NewService(store, cfg.Upload, logger)
	eventService := event.NewService(repos.events, imageService, logger)
	contactService := contact.NewService(repos.contacts, messageQueue, logger)
	adminService := admin.NewService(repos.users, perms, logger)

	// 10. Start Background Consumers
	if err := contact.NewNotifier(repos.contacts, mailer, cfg.Contact.AdminEmail, logger).Start(messageQueue); err != nil {
		logger.Fatal("Failed to subscribe contact notifier", zap.Error(err))
	}
	if err := auth.SubscribeWelcomeMailer(messageQueue, mailer, logger); err != nil {
		logger.Fatal("Failed to subscribe welcome mailer", zap.Error(err))
	}

	var scheduler *newsletter.Scheduler
	if cfg.Newsletter.SchedulerEnabled {
		scheduler = newsletter.NewScheduler(repos.newsletters, newsletterService, logger)
		if err := scheduler.Start(cfg.Newsletter.Schedule); err != nil {
			logger.Fatal("Failed to start newsletter scheduler", zap.Error(err))
		}
	}

	// 11. Health Checks
	healthService := health.NewService(cfg.App.Version, logger)
	healthService.RegisterCheck("database", repos.ping)
	healthService.RegisterCheck("cache", func(ctx context.Context) error {
		return appCache.Ping()
	})
	if pinger, ok := messageQueue.(queue.Pinger); ok {
		healthService.RegisterCheck("queue", func(ctx context.Context) error {
			return pinger.Ping()
		})
	}

	// 12. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		BodyLimit:             cfg.HTTP.BodyLimit,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS, cfg.App.ClientURL))
	}
	app.Use(middleware.Metrics())
	app.Use(middleware.CircuitBreaker(cfg.CircuitBreaker, logger))

	health.NewHandler(healthService).RegisterRoutes(app)

	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	if cfg.Upload.Storage != "minio" {
		app.Static(cfg.Upload.PublicPath, cfg.Upload.Dir)
	}

	// 13. API Routes
	api := app.Group("/api")
	requireAuth := middleware.AuthRequired(authService, cfg.Auth.CookieName)
	optionalAuth := middleware.OptionalAuth(authService, cfg.Auth.CookieName)
	limited := middleware.RateLimit(cfg.RateLimiting)
	can := func(resource, action string) fiber.Handler {
		return middleware.RequirePermission(rbacService, resource, action)
	}

	authHandler := handlers.NewAuthHandler(authService, handlers.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.App.IsProduction(),
	}, logger)
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", limited, authHandler.Register)
	authRoutes.Post("/login", limited, authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Post("/password/forgot", limited, authHandler.ForgotPassword)
	authRoutes.Put("/password/reset/:token", limited, authHandler.ResetPassword)
	authRoutes.Put("/password/change", requireAuth, limited, authHandler.ChangePassword)
	authRoutes.Get("/profile", requireAuth, authHandler.Profile)
	authRoutes.Put("/profile", requireAuth, authHandler.UpdateProfile)

	uploads := middleware.UploadGate(cfg.Upload)
	eventHandler := handlers.NewEventHandler(eventService, logger)
	api.Get("/events", eventHandler.List)
	api.Get("/events/:id", eventHandler.Get)
	api.Post("/events", requireAuth, can(domain.ResourceEvent, domain.ActionCreate), uploads, eventHandler.Create)
	api.Put("/events/:id", requireAuth, can(domain.ResourceEvent, domain.ActionUpdate), uploads, eventHandler.Update)
	api.Delete("/events/:id", requireAuth, can(domain.ResourceEvent, domain.ActionDelete), eventHandler.Delete)

	contactHandler := handlers.NewContactHandler(contactService, logger)
	api.Post("/contact", optionalAuth, contactHandler.Create)
	api.Get("/contact", requireAuth, can(domain.ResourceContact, domain.ActionRead), contactHandler.List)
	api.Put("/contact/:id/status", requireAuth, can(domain.ResourceContact, domain.ActionManage), contactHandler.UpdateStatus)

	newsletterHandler := handlers.NewNewsletterHandler(newsletterService, logger)
	sender := []fiber.Handler{requireAuth, can(domain.ResourceNewsletter, domain.ActionSend)}
	api.Post("/newsletter/subscribe", newsletterHandler.Subscribe)
	api.Post("/newsletter/unsubscribe", newsletterHandler.Unsubscribe)
	api.Put("/newsletter/subscription", requireAuth, newsletterHandler.ToggleSubscription)
	api.Post("/newsletter/send", append(sender, newsletterHandler.Send)...)
	api.Post("/newsletter/:id/schedule", append(sender, newsletterHandler.Schedule)...)
	api.Post("/newsletter", append(sender, newsletterHandler.Create)...)
	api.Get("/newsletter", append(sender, newsletterHandler.List)...)

	users := api.Group("/users", requireAuth, can(domain.ResourceUser, domain.ActionManage))
	admin.NewHandler(adminService).RegisterRoutes(users)

	// 14. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 15. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Stop(ctx)
	}

	logger.Info("Server exited gracefully")
}

func newLogger(cfg config.LoggingConfig, production bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if !production && cfg.Format != "json" {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zcfg.Build()
}

func openRepositories(cfg *config.Config, logger *zap.Logger) (*repositories, error) {
	switch cfg.Database.Driver {
	case "mongodb":
		db, err := mongodb.NewConnection(cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := db.EnsureIndexes(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return &repositories{
			users:       mongodb.NewUserRepository(db, logger),
			events:      mongodb.NewEventRepository(db, logger),
			contacts:    mongodb.NewContactRepository(db, logger),
			newsletters: mongodb.NewNewsletterRepository(db, logger),
			ping:        db.Ping,
			close:       db.Close,
		}, nil

	case "postgres", "":
		db, err := postgres.NewConnection(cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := postgres.RunMigrations(db); err != nil {
				postgres.Close(db)
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return &repositories{
			users:       postgres.NewUserRepository(db, logger),
			events:      postgres.NewEventRepository(db, logger),
			contacts:    postgres.NewContactRepository(db, logger),
			newsletters: postgres.NewNewsletterRepository(db, logger),
			ping: func(ctx context.Context) error {
				return postgres.Ping(db)
			},
			close: func() error {
				return postgres.Close(db)
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}

func openQueue(cfg *config.Config, logger *zap.Logger) (queue.MessageQueue, error) {
	switch cfg.Queue.Driver {
	case "nats":
		return queue.NewNATSQueue(cfg.NATS, logger)
	case "rabbitmq":
		return queue.NewRabbitMQQueue(cfg.RabbitMQ, logger)
	case "inprocess", "":
		return queue.NewInProcessQueue(logger), nil
	}
	return nil, fmt.Errorf("unknown queue driver %q", cfg.Queue.Driver)
}

func openImageStore(cfg *config.Config, logger *zap.Logger) (ports.ImageStore, error) {
	if cfg.Upload.Storage == "minio" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return imagestore.NewMinIO(ctx, cfg.MinIO, logger)
	}
	return imagestore.NewLocal(cfg.Upload.Dir, logger)
}
