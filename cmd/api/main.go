package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/divyanshmehta355/NexaVid-Backend/internal/config"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/database"
	handlers "github.com/divyanshmehta355/NexaVid-Backend/internal/http/handler"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/http/middleware"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/otel"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/service"
	"github.com/divyanshmehta355/NexaVid-Backend/internal/streamtape"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Initialize tracing; outbound provider calls are spanned via otelhttp
	shutdownTracing, err := otel.Init(context.Background())
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// The datastore only backs the health probe; run without it if unset
	var db *sql.DB
	if cfg.Database.Enabled() {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()
	} else {
		log.Println("datastore disabled: no DB_HOST configured")
	}

	// Provider client and the upload relay service on top of it
	provider := streamtape.NewClient(cfg.Streamtape)
	videoSvc := service.NewVideoService(provider, cfg.Streamtape.EmbedBase, cfg.Upload)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Uploads are relayed straight off the request body; without
		// streaming the whole file would be buffered in memory first.
		StreamRequestBody: true,
		BodyLimit:         cfg.Upload.MaxUploadBytes,
	})

	// Register global middleware. Recover isolates a panicking request
	// instead of taking the whole process down.
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowedOrigin}))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, videoSvc, cfg.Upload)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
