package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"measure-filter/config"
	"measure-filter/i18n"
	"measure-filter/models"
	"measure-filter/services"
	"measure-filter/storage"
)

var (
	listDisplaysCounter prometheus.Counter
	metricCatalogGauge  prometheus.Gauge
)

func init() {
	listDisplaysCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "measure_filter_list_displays_total",
			Help: "Total number of measure filter list displays built.",
		},
	)
	metricCatalogGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "measure_filter_metric_catalog_size",
			Help: "Number of metrics currently held in the metric catalog.",
		},
	)
	prometheus.MustRegister(listDisplaysCounter, metricCatalogGauge)
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Successfully connected to database.")

	logging.Info("Running database auto-migration...")
	if err := db.AutoMigrate(&models.Metric{}, &models.Project{}, &models.ResourceIndex{}); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}
	services.SeedDefaultMetrics(db, logging)

	// Setup Services
	catalog := services.NewMetricCatalog(db, logging)
	refreshCatalog := func() {
		n, err := catalog.Refresh(context.Background())
		if err == nil {
			metricCatalogGauge.Set(float64(n))
		}
	}
	refreshCatalog()

	messages, err := loadMessages(context.Background(), cfg, logging)
	if err != nil {
		logging.Fatal("Loading messages failed", zap.Error(err))
	}
	search := services.NewResourceIndexSearch(db, logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupMeasureRoutes(router, catalog, messages, cfg, logging)
	setupMetricRoutes(router, catalog)
	setupResourceIndexRoutes(router, search, logging)

	// Setup Cron
	cronScheduler := cron.New()
	if _, err := cronScheduler.AddFunc(cfg.MetricRefreshSchedule, func() {
		logging.Debug("Running scheduled metric catalog refresh...")
		refreshCatalog()
	}); err != nil {
		logging.Fatal("Invalid metric refresh schedule", zap.String("schedule", cfg.MetricRefreshSchedule), zap.Error(err))
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// loadMessages layers the built-in bundle, a local directory and an S3
// bucket, in that order.
func loadMessages(ctx context.Context, cfg *config.Config, log *zap.Logger) (*i18n.Bundle, error) {
	bundle, err := i18n.Default(cfg.MessagesLocale)
	if err != nil {
		log.Warn("No built-in messages for locale", zap.String("locale", cfg.MessagesLocale))
		bundle = i18n.New(cfg.MessagesLocale)
	}
	if cfg.MessagesDir != "" {
		local, err := i18n.LoadDir(cfg.MessagesDir, cfg.MessagesLocale)
		if err != nil {
			return nil, err
		}
		bundle.Merge(local)
	}
	if s3cfg, ok := cfg.MessagesS3(); ok {
		client, err := storage.NewS3Client(ctx, s3cfg)
		if err != nil {
			return nil, err
		}
		remote, err := i18n.LoadObject(ctx, client, cfg.MessagesS3Prefix, cfg.MessagesLocale)
		if err != nil {
			return nil, err
		}
		bundle.Merge(remote)
	}
	log.Info("Messages loaded", zap.String("locale", bundle.Locale), zap.Int("messages", bundle.Len()))
	return bundle, nil
}
