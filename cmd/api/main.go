package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"campaign-recommendation/internal/campaign"
	"campaign-recommendation/internal/content"
	campaignMemory "campaign-recommendation/internal/platform/memory"
	campaignPostgres "campaign-recommendation/internal/platform/postgres"
	campaignRedis "campaign-recommendation/internal/platform/redis"
	"campaign-recommendation/internal/profile"

	_ "campaign-recommendation/docs" // Import generated docs
)

// @title           Campaign Recommendation API
// @version         1.0
// @description     Marketing-widget campaign service: creative generation, campaign storage and visitor matching.
// @host            localhost:8080
// @BasePath        /
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	logger := initLogger()

	metrics := NewMetrics()

	// Campaign store: in-memory by default, PostgreSQL when configured.
	var store campaign.Store = campaignMemory.NewStore()
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			log.Fatalf("Could not open SQL connection: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatalf("Could not connect to PostgreSQL: %v", err)
		}
		store = campaignPostgres.NewStore(db)
		logger.Info("campaign store: postgres")
	} else {
		logger.Info("campaign store: in-memory")
	}

	// Optional Redis hot path for the recommendation read side.
	var repo campaign.Repository
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb, err := campaignRedis.NewClient(campaignRedis.Config{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err != nil {
			log.Fatalf("Could not initialize Redis: %v", err)
		}
		defer rdb.Close()
		repo = campaignRedis.NewRepository(rdb, metrics.CacheHits, metrics.CacheMisses)
		logger.Info("hot path: redis", "addr", addr)
	}

	profiles := profile.NewStore(envOr("PROFILE_CATALOG", "./data/personas.json"), logger)
	catalog := content.NewFileCatalog(envOr("PRODUCT_CATALOG", "./data/products.json"), logger)
	generator := content.NewOpenAIGenerator(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_MODEL"), logger)

	svc := campaign.NewService(campaign.Deps{
		Store:    store,
		Repo:     repo,
		Gen:      generator,
		Catalog:  catalog,
		Profiles: profiles,
		Logger:   logger,
	})
	handler := NewHandler(svc, logger, metrics.ErrorCounter)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)

	// Back office (marketers)
	mux.HandleFunc("POST /backoffice/generate", handler.Generate)
	mux.HandleFunc("POST /backoffice/campaigns", handler.SaveCampaign)
	mux.HandleFunc("GET /backoffice/campaigns", handler.ListCampaigns)
	mux.HandleFunc("GET /backoffice/campaigns/detail", handler.GetCampaign)
	mux.HandleFunc("PUT /backoffice/campaigns", handler.UpdateCampaign)
	mux.HandleFunc("DELETE /backoffice/campaigns", handler.DeleteCampaign)
	mux.HandleFunc("DELETE /backoffice/campaigns/all", handler.ClearCampaigns)

	// Frontend + embed clients
	mux.HandleFunc("POST /frontend/recommendation", handler.GetRecommendation)
	mux.HandleFunc("GET /client/recommendation", handler.ClientRecommendation)

	// Admin
	mux.HandleFunc("POST /admin/sync", handler.Sync)

	// Observability + docs
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	port := envOr("PORT", "8080")
	logger.Info("campaign recommendation service listening", "port", port)
	if err := http.ListenAndServe(":"+port, corsMiddleware(metricsMiddleware(metrics, mux))); err != nil {
		log.Fatal(err)
	}
}

func initLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var logger *slog.Logger
	if strings.EqualFold(os.Getenv("LOG_TYPE"), "json") {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	slog.SetDefault(logger)
	return logger
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
