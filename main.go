package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"

	"outreachpilot/internal/ai"
	"outreachpilot/internal/config"
	"outreachpilot/internal/gmail"
	"outreachpilot/internal/handler"
	"outreachpilot/internal/logger"
	"outreachpilot/internal/ratelimit"
	"outreachpilot/internal/repository"
	"outreachpilot/internal/repository/memory"
	"outreachpilot/internal/repository/postgres"
	"outreachpilot/internal/router"
	"outreachpilot/internal/service"
	"outreachpilot/internal/sse"
	"outreachpilot/internal/tracking"
	"outreachpilot/internal/vault"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("Config validation failed:", err)
	}

	appLogger := logger.New()

	// Initialize repositories (conditionally use postgres or in-memory based on DATABASE_URL)
	var userRepo repository.UserRepository
	var recipientRepo repository.RecipientRepository
	var draftRepo repository.DraftRepository
	var documentRepo repository.DocumentRepository
	var connRepo repository.ConnectionRepository
	var eventRepo repository.EventRepository
	var usageRepo repository.UsageRepository

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		if err := postgres.InitializeDatabase(db); err != nil {
			log.Fatal("Failed to initialize database:", err)
		}

		userRepo = postgres.NewPostgresUserRepository(db)
		recipientRepo = postgres.NewPostgresRecipientRepository(db)
		draftRepo = postgres.NewPostgresDraftRepository(db)
		documentRepo = postgres.NewPostgresDocumentRepository(db)
		connRepo = postgres.NewPostgresConnectionRepository(db)
		eventRepo = postgres.NewPostgresEventRepository(db)
		usageRepo = postgres.NewPostgresUsageRepository(db)

		appLogger.Info("Using PostgreSQL repositories")
	} else {
		userRepo = memory.NewInMemoryUserRepository()
		recipientRepo = memory.NewInMemoryRecipientRepository()
		draftRepo = memory.NewInMemoryDraftRepository()
		documentRepo = memory.NewInMemoryDocumentRepository()
		connRepo = memory.NewInMemoryConnectionRepository()
		eventRepo = memory.NewInMemoryEventRepository()
		usageRepo = memory.NewInMemoryUsageRepository()

		appLogger.Info("Using in-memory repositories")
	}

	// Credential vault for mailbox tokens
	credVault, err := vault.New(cfg.VaultKey)
	if err != nil {
		log.Fatal("Failed to initialize credential vault:", err)
	}

	// Generation quota: a burst of 20 drafts, refilling 20 per hour
	limiter, err := ratelimit.NewBucket(ratelimit.NewMemoryStore(), ratelimit.Config{
		Capacity:       20,
		RefillRate:     20,
		RefillInterval: time.Hour,
	})
	if err != nil {
		log.Fatal("Failed to initialize rate limiter:", err)
	}

	// AI provider factory
	clientFactory := func(provider string) (ai.Client, error) {
		return ai.NewClient(provider, cfg, appLogger)
	}

	// Mailbox plumbing
	exchanger := gmail.NewOAuthExchanger(cfg)
	mailboxFactory := func(accessToken string) (service.MailboxClient, error) {
		return gmail.NewClient(accessToken, appLogger)
	}
	instrumenter := tracking.NewInstrumenter(cfg.BaseURL)

	// SSE manager for real-time engagement updates
	sseManager := sse.NewManager(appLogger)
	defer sseManager.Close()

	// Initialize services
	authService := service.NewAuthService(userRepo, appLogger)
	recipientService := service.NewRecipientService(recipientRepo, appLogger)
	documentService := service.NewDocumentService(documentRepo, appLogger)
	composerService := service.NewComposerService(
		draftRepo,
		recipientRepo,
		userRepo,
		documentRepo,
		usageRepo,
		clientFactory,
		limiter,
		appLogger,
	)
	mailboxService := service.NewMailboxService(
		connRepo,
		credVault,
		exchanger,
		mailboxFactory,
		appLogger,
	)
	dispatchService := service.NewDispatchService(
		draftRepo,
		recipientRepo,
		documentRepo,
		mailboxService,
		mailboxFactory,
		instrumenter,
		appLogger,
	)
	threadService := service.NewThreadService(draftRepo, mailboxService, mailboxFactory, appLogger)
	analyticsService := service.NewAnalyticsService(draftRepo, eventRepo, userRepo, sseManager, appLogger)

	// Initialize handlers
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	authHandler := handler.NewAuthHandler(authService, cfg, e.Logger)
	recipientHandler := handler.NewRecipientHandler(recipientService, authHandler, e.Logger)
	draftHandler := handler.NewDraftHandler(
		composerService,
		dispatchService,
		threadService,
		analyticsService,
		authHandler,
		sseManager,
		e.Logger,
	)
	mailboxHandler := handler.NewMailboxHandler(mailboxService, exchanger, authHandler, e.Logger)
	documentHandler := handler.NewDocumentHandler(documentService, authHandler, e.Logger)
	trackingHandler := handler.NewTrackingHandler(analyticsService, e.Logger)

	router.SetupRoutes(e, authHandler, recipientHandler, draftHandler, mailboxHandler, documentHandler, trackingHandler)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "outreachpilot",
			"status":  "ok",
		})
	})

	// Start server
	appLogger.Info("Starting server on port", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		appLogger.Error("Failed to start server:", err)
	}
}
