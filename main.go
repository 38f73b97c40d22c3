package main

import (
	"context"
	"log"
	"time"

	"github.com/convocatorias/convocatorias-backend/src/config"
	"github.com/convocatorias/convocatorias-backend/src/db"
	"github.com/convocatorias/convocatorias-backend/src/middleware"
	"github.com/convocatorias/convocatorias-backend/src/routes"
	"github.com/convocatorias/convocatorias-backend/src/seed"
	"github.com/convocatorias/convocatorias-backend/src/services"
	"github.com/convocatorias/convocatorias-backend/src/storage"
	"github.com/convocatorias/convocatorias-backend/src/utils"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	middleware.SetSecretKey(cfg.JWTSecret)

	// Database connection
	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Error connecting to database: %v\n", err)
	}

	// Auto-migrate models
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Error during auto-migration: %v\n", err)
	}

	if cfg.Seed {
		seed.Seed(database)
	}

	// Catalog cache: redis when configured, in-process otherwise
	var cache services.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cache = services.NewRedisCache(client, "convocatorias")
		log.Printf("[CACHE] using redis at %s\n", cfg.RedisAddr)
	} else {
		memory := services.NewMemoryCache()
		memory.StartCleanup(context.Background(), time.Minute)
		cache = memory
	}

	store := storage.NewLocalStore(cfg.StorageRoot)
	drive := utils.NewDriveClient(cfg.GoogleDriveCredentialsPath, cfg.GoogleDriveCredentialsJSON)

	// Gin router setup
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadBytes
	router.Use(middleware.SetupCORS(cfg.CORSOrigins))
	router.Use(middleware.Metrics())

	// Services setup
	userService := services.NewUserService(database)
	catalogService := services.NewCatalogService(database, cache, cfg.CatalogCacheTTL)
	applicantService := services.NewApplicantService(database, store)
	dossierService := services.NewDossierService(database, store)
	documentService := services.NewDocumentService(database, store)
	applicationService := services.NewApplicationService(database, catalogService)
	submissionService := services.NewSubmissionService(database, store, applicantService, dossierService, documentService, applicationService)
	reportService := services.NewReportService(database)

	// Drop catalog snapshots that predate the seed
	if cfg.Seed {
		catalogService.InvalidateCatalog(context.Background())
	}

	// Routes setup
	routes.SetupUserRoutes(router, userService)
	routes.SetupCatalogRoutes(router, catalogService)
	routes.SetupApplicantRoutes(router, applicantService, dossierService, applicationService, cfg.MaxUploadBytes)
	routes.SetupSubmissionRoutes(router, submissionService, cfg.MaxUploadBytes)
	routes.SetupApplicationRoutes(router, applicationService)
	routes.SetupReportRoutes(router, reportService)
	routes.SetupDownloadRoutes(router, store, drive)
	routes.SetupMetricsRoutes(router)

	router.GET("/", func(c *gin.Context) {
		c.String(200, "Convocatorias API")
	})

	// Server run
	log.Printf("Server is running on %s\n", cfg.ServerHost)
	if err := router.Run(cfg.ServerHost); err != nil {
		log.Fatalf("Error starting server on %s: %v\n", cfg.ServerHost, err)
	}
}
