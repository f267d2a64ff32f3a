package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/site-scout/backend/internal/ai"
	"github.com/site-scout/backend/internal/analytics"
	"github.com/site-scout/backend/internal/api/handlers"
	rediscache "github.com/site-scout/backend/internal/cache/redis"
	"github.com/site-scout/backend/internal/chat"
	"github.com/site-scout/backend/internal/crawler"
	"github.com/site-scout/backend/internal/metrics"
	"github.com/site-scout/backend/internal/middleware/ratelimit"
	"github.com/site-scout/backend/internal/middleware/security"
	"github.com/site-scout/backend/internal/middleware/validation"
	"github.com/site-scout/backend/internal/storage/sqlite"
	"github.com/site-scout/backend/pkg/config"
	appLogger "github.com/site-scout/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting SiteScout API server")

	db, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var cache *rediscache.Client
	if cfg.Redis.Enabled {
		cache, err = rediscache.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.AnswerTTLSec)*time.Second,
		)
		if err != nil {
			appLogger.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer cache.Close()
	}

	// The generator variant is fixed here: real client with an API
	// key, mock without one.
	var generator ai.Generator
	if cfg.LLM.APIKey != "" {
		generator = ai.NewOpenAI(cfg.LLM)
	} else {
		appLogger.Warn("LLM API key not configured - using mock responses")
		generator = ai.NewMock()
	}

	webCrawler := crawler.New(db, cfg.Crawler)
	chatService := chat.NewService(db, webCrawler, generator, cache, cfg.LLM.ContextChars)
	aggregator := analytics.NewAggregator(db)

	limiter := ratelimit.New(cfg.RateLimit.RequestsPerMinute)
	defer limiter.Stop()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.Headers())
	app.Use(limiter.Middleware())
	app.Use(validation.Middleware())

	crawlerHandler := handlers.NewCrawlerHandler(webCrawler, db)
	chatHandler := handlers.NewChatHandler(chatService, db)
	analyticsHandler := handlers.NewAnalyticsHandler(aggregator)
	usersHandler := handlers.NewUsersHandler(db)
	wsHandler := handlers.NewWebSocketHandler(chatService)

	app.Post("/crawler/crawl", crawlerHandler.CrawlWebsite)
	app.Get("/crawler/websites", crawlerHandler.ListWebsites)
	app.Get("/crawler/health", crawlerHandler.Health)

	app.Post("/chat/ask", chatHandler.AskQuestion)
	app.Post("/chat/history", chatHandler.ChatHistory)
	app.Get("/chat/recent", chatHandler.RecentMessages)

	app.Use("/chat/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/chat/ws", websocket.New(wsHandler.HandleConnection))

	app.Get("/analytics/user/:userId/visited-websites-count", analyticsHandler.VisitedWebsitesCount)
	app.Get("/analytics/user/:userId/website-visits", analyticsHandler.WebsiteVisits)
	app.Get("/analytics/user/:userId/chat-stats", analyticsHandler.ChatStats)
	app.Get("/analytics/user/:userId/summary", analyticsHandler.Summary)

	app.Post("/users/register", usersHandler.Register)
	app.Get("/users", usersHandler.ListUsers)
	app.Get("/users/email/:email", usersHandler.GetUserByEmail)
	app.Get("/users/:id", usersHandler.GetUserByID)

	app.Get("/ai/health", chatHandler.AIHealth)
	app.Get("/metrics", metrics.MetricsHandler())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
