package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hearthub/db"
	_ "hearthub/docs"
	"hearthub/internal/caching"
	"hearthub/internal/config"
	"hearthub/internal/handlers"
	"hearthub/internal/jobs/background"
	"hearthub/internal/metrics"
	"hearthub/internal/middleware"
	"hearthub/internal/repositories"
	"hearthub/internal/search"
	"hearthub/internal/services"
	"hearthub/pkg/database"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func serve(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	pool, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.ApplySchema {
		if err := database.ApplySchema(ctx, pool, db.Schema); err != nil {
			return err
		}
		log.Info("database schema applied")
	}

	// Repositories
	propertyRepo := repositories.NewPropertyRepository(pool)
	applicationRepo := repositories.NewApplicationRepository(pool)
	leaseRepo := repositories.NewLeaseRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	messageRepo := repositories.NewMessageRepository(pool)

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)

	var index search.PropertyIndex
	if cfg.Search.Host != "" {
		index = search.NewPropertyIndex(cfg.Search.Host, cfg.Search.APIKey)
		if err := index.EnsureIndex(); err != nil {
			log.WithError(err).Warn("search index unavailable, falling back to SQL search")
		}
	}

	var storage services.StorageService
	if cfg.Storage.Endpoint != "" {
		storage, err = services.NewMinioStorage(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL)
		if err != nil {
			return fmt.Errorf("initialize object storage: %w", err)
		}
		if err := storage.EnsureBucket(ctx); err != nil {
			log.WithError(err).WithField("bucket", cfg.Storage.Bucket).Warn("could not verify image bucket")
		}
	}

	mailer := services.NewLogMailer(log)
	if cfg.Email.APIKey != "" {
		mailer = services.NewHTTPMailer(cfg.Email.BaseURL, cfg.Email.APIKey, cfg.Email.From)
	}

	// Services
	propertySvc := services.NewPropertyService(propertyRepo, cacheSvc, index, storage, log)
	applicationSvc := services.NewApplicationService(applicationRepo, propertyRepo, leaseRepo, mailer, log)
	leaseSvc := services.NewLeaseService(leaseRepo)
	userSvc := services.NewUserService(userRepo)
	messageSvc := services.NewMessageService(messageRepo, cacheSvc, log)
	paymentProvider := services.NewPaymentIntentProvider(cfg.Payments.BaseURL, cfg.Payments.SecretKey, cfg.Payments.WebhookSecret)
	paymentSvc := services.NewPaymentService(paymentRepo, leaseRepo, paymentProvider, cfg.Payments.Currency, log)
	reconcileSvc := services.NewReconcileService(applicationRepo, log)

	authenticator, err := middleware.NewAuthenticator(middleware.AuthConfig{
		Secret:   cfg.Auth.JWTSecret,
		JWKSURL:  cfg.Auth.JWKSURL,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
	}, log)
	if err != nil {
		return err
	}
	defer authenticator.Close()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)

	var reindexer background.Reindexer
	if index != nil {
		reindexer = propertySvc
	}
	scheduler, err := background.NewJobScheduler(reconcileSvc, reindexer, limiter, background.Settings{
		ReconcileInterval: cfg.Jobs.ReconcileInterval,
		ReconcileGrace:    cfg.Jobs.ReconcileGrace,
		ReindexInterval:   cfg.Jobs.ReindexInterval,
		CleanupInterval:   10 * time.Minute,
	}, log)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.WithError(err).Warn("scheduler did not stop cleanly")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMiddleware.Recover())
	e.Use(metrics.Middleware())
	if len(cfg.Server.CORSOrigins) > 0 {
		e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{AllowOrigins: cfg.Server.CORSOrigins}))
	} else {
		e.Use(echoMiddleware.CORS())
	}
	e.Use(echoMiddleware.RemoveTrailingSlash())

	versionMiddleware := middleware.NewVersionMiddleware()
	e.Use(versionMiddleware.APIVersionResolver())

	registerRoutes(e, routeDeps{
		health:       handlers.NewHealthHandlers(pool, cacheSvc, index, version),
		properties:   handlers.NewPropertyHandlers(propertySvc, log),
		applications: handlers.NewApplicationHandlers(applicationSvc, log),
		leases:       handlers.NewLeaseHandlers(leaseSvc, log),
		payments:     handlers.NewPaymentHandlers(paymentSvc, log),
		messages:     handlers.NewMessageHandlers(messageSvc, log),
		users:        handlers.NewUserHandlers(userSvc, log),
		auth:         authenticator.Middleware(),
		rateLimit:    limiter.Middleware(),
		version:      versionMiddleware,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		log.WithField("addr", addr).Info("starting HTTP server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

type routeDeps struct {
	health       *handlers.HealthHandlers
	properties   *handlers.PropertyHandlers
	applications *handlers.ApplicationHandlers
	leases       *handlers.LeaseHandlers
	payments     *handlers.PaymentHandlers
	messages     *handlers.MessageHandlers
	users        *handlers.UserHandlers
	auth         echo.MiddlewareFunc
	rateLimit    echo.MiddlewareFunc
	version      *middleware.VersionMiddleware
}

func registerRoutes(e *echo.Echo, d routeDeps) {
	// Health and monitoring (no auth required)
	e.GET("/health", d.health.HealthCheck)
	e.GET("/health/ready", d.health.ReadinessCheck)
	e.GET("/health/live", d.health.LivenessCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1", d.version.VersionHeader("v1"))

	// Public browsing and the provider webhook
	public := v1.Group("", d.rateLimit)
	public.GET("/properties", d.properties.ListAvailableProperties)
	public.GET("/properties/search", d.properties.SearchProperties)
	public.GET("/properties/:id", d.properties.GetProperty)
	public.POST("/webhooks/payments", d.payments.PaymentWebhook)

	// Authenticated routes; the limiter runs after auth so it keys on the user
	protected := v1.Group("", d.auth, d.rateLimit)

	protected.GET("/me", d.users.GetMe)
	protected.PUT("/me", d.users.UpdateMe)
	protected.GET("/me/properties", d.properties.ListMyProperties)
	protected.GET("/me/applications", d.applications.ListMyApplications)
	protected.GET("/me/leases", d.leases.ListMyLeases)
	protected.GET("/me/payments", d.payments.ListMyPayments)

	protected.POST("/properties", d.properties.CreateProperty)
	protected.PUT("/properties/:id", d.properties.UpdateProperty)
	protected.DELETE("/properties/:id", d.properties.DeleteProperty)
	protected.POST("/properties/:id/images", d.properties.UploadPropertyImage)
	protected.POST("/properties/:id/applications", d.applications.SubmitApplication)

	protected.GET("/landlord/applications", d.applications.ListIncomingApplications)
	protected.GET("/landlord/leases", d.leases.ListLandlordLeases)

	protected.GET("/applications/:id", d.applications.GetApplication)
	protected.GET("/applications/:id/lease-draft", d.applications.GetLeaseDraft)
	protected.POST("/applications/:id/approve", d.applications.ApproveApplication)
	protected.POST("/applications/:id/reject", d.applications.RejectApplication)

	protected.GET("/leases/:id", d.leases.GetLease)
	protected.POST("/leases/:id/checkout", d.payments.Checkout)

	protected.GET("/messages", d.messages.ListMessages)
	protected.POST("/messages", d.messages.SendMessage)
	protected.POST("/messages/:id/read", d.messages.MarkMessageRead)
}
