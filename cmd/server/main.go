package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hfscout/hfscout/internal/handlers"
	"github.com/hfscout/hfscout/internal/middleware"
	"github.com/hfscout/hfscout/internal/repositories"
	"github.com/hfscout/hfscout/internal/services"
	"github.com/hfscout/hfscout/pkg/browseruse"
	"github.com/hfscout/hfscout/pkg/config"
	"github.com/hfscout/hfscout/pkg/database"
)

func main() {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig

	// Initialize database
	if err := database.Init(cfg.Database.Path); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// One bounded-timeout client for all external calls
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.Search.HTTPTimeoutSeconds) * time.Second,
	}

	// Initialize dependencies
	repositoryRepo := repositories.NewRepositoryRepository(database.DB)
	contributorRepo := repositories.NewContributorRepository(database.DB)
	persistService := services.NewPersistService(repositoryRepo, contributorRepo)

	validationService := services.NewEmailValidationService(cfg.Search.PlaceholderDomains)
	rankingService := services.NewEmailRankingService(validationService)

	runner := services.NewExecRunner()
	cloneService := services.NewCloneService(runner)
	gitLogService := services.NewGitLogService(runner, validationService)

	scraperService := services.NewHubScraperService(cfg.Hub.BaseURL, cfg.Hub.UserAgent, httpClient)
	extractService := services.NewContributorExtractService("https://export.arxiv.org/api/query", cfg.Hub.UserAgent, httpClient)

	browser := browseruse.NewClient(cfg.Search.BrowserUseBaseURL, cfg.Search.BrowserUseAPIKey, httpClient)
	searchService := services.NewEmailSearchService(validationService, browser, httpClient, services.EmailSearchOptions{
		UserAgent: cfg.Hub.UserAgent,
	})

	extractionService := services.NewExtractionService(
		scraperService, cloneService, gitLogService, extractService,
		searchService, rankingService, validationService, persistService,
		time.Duration(cfg.Search.StatusTTLMinutes)*time.Minute,
	)
	extractionService.StartJanitor()
	defer extractionService.StopJanitor()

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	setupRoutes(router, extractionService)

	// Setup server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	log.Println("Server stopped")
}

func setupRoutes(router *gin.Engine, extractionService *services.ExtractionService) {
	// Initialize handlers
	extractionHandler := handlers.NewExtractionHandler(extractionService)
	exportHandler := handlers.NewExportHandler(extractionService)
	healthHandler := handlers.NewHealthHandler()
	notFoundHandler := handlers.NewNotFoundHandler()

	router.NoRoute(notFoundHandler.NotFound)

	router.GET("/", healthHandler.Index)
	router.GET("/health", healthHandler.HealthCheck)

	router.POST("/extract", extractionHandler.Extract)
	router.GET("/status/:owner/:name", extractionHandler.Status)
	router.GET("/export/:owner/:name", exportHandler.Export)
}
