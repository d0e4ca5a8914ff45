package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"branch-chat-service/internal/auth"
	"branch-chat-service/internal/config"
	"branch-chat-service/internal/db"
	"branch-chat-service/internal/engine"
	"branch-chat-service/internal/handlers"
	"branch-chat-service/internal/llm"
	"branch-chat-service/internal/middleware"
	"branch-chat-service/internal/mutators"
	"branch-chat-service/internal/observability"
	"branch-chat-service/internal/push"
	"branch-chat-service/internal/rabbitmq"
	"branch-chat-service/internal/storage"
	"branch-chat-service/internal/sweeper"
	"branch-chat-service/internal/telemetry"
	"branch-chat-service/internal/websearch"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, "branch-chat-service", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	database, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	eng := engine.NewSQLEngine(database)
	registry := mutators.NewRegistry()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AuditExchange)
	defer publisher.Close()
	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditRoutingKey, "branch-chat-service", cfg.Environment)

	processor := push.NewProcessor(eng, registry, audit)
	verifier := auth.NewVerifier([]byte(cfg.AuthSecret))

	store, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to init file store: %v", err)
	}

	llmClient := llm.NewClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.SiteURL)
	searchChain := websearch.NewChain(
		&websearch.Bing{Key: cfg.BingSearchKey},
		&websearch.Brave{Key: cfg.BraveSearchKey},
		&websearch.SerpAPI{Key: cfg.SerpAPIKey},
		&websearch.DuckDuckGo{},
	)

	syncHandler := handlers.NewSyncHandler(processor)
	completionHandler := handlers.NewCompletionHandler(llmClient)
	searchHandler := handlers.NewSearchHandler(searchChain)
	uploadHandler := handlers.NewUploadHandler(store, cfg.SiteURL, cfg.MaxUploadBytes, cfg.AllowedTypes)
	shareHandler := handlers.NewShareHandler(eng, registry, cfg.SiteURL)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("branch-chat-service"))
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.BearerIdentity(verifier))

	api := router.Group("/api")
	api.POST("/push", syncHandler.Push)
	api.POST("/llm", completionHandler.Chat)
	api.POST("/llm/stream", completionHandler.ChatStream)
	api.POST("/image/generate", completionHandler.GenerateImage)
	api.POST("/search", searchHandler.Search)
	api.POST("/upload", uploadHandler.Upload)
	api.POST("/share", shareHandler.Create)
	api.GET("/share/:shareID", shareHandler.Resolve)
	api.GET("/models", handlers.Models)
	api.GET("/models/image", handlers.ImageModels)
	api.GET("/health", handlers.Health)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static("/uploads", cfg.UploadDir)

	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	go sweeper.New(eng, cfg.SweepIntervalDuration(), cfg.StaleGenerationDuration()).Run(sweepCtx)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
