package services

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"measure-filter/models"
)

// MetricCatalog holds the enabled metrics in memory. Lookups never hit the
// database; Refresh reloads the whole table.
type MetricCatalog struct {
	Logger *zap.Logger

	load func(ctx context.Context) ([]models.Metric, error)

	mu    sync.RWMutex
	byKey map[string]*models.Metric
}

// NewMetricCatalog returns a catalog loaded from the metrics table.
func NewMetricCatalog(db *gorm.DB, logger *zap.Logger) *MetricCatalog {
	return newMetricCatalog(func(ctx context.Context) ([]models.Metric, error) {
		var metrics []models.Metric
		err := db.WithContext(ctx).Where("enabled = ?", true).Order("name").Find(&metrics).Error
		return metrics, err
	}, logger)
}

func newMetricCatalog(load func(ctx context.Context) ([]models.Metric, error), logger *zap.Logger) *MetricCatalog {
	return &MetricCatalog{
		Logger: logger,
		load:   load,
		byKey:  map[string]*models.Metric{},
	}
}

// Refresh reloads the catalog and returns the number of metrics. On error
// the previous content is kept.
func (c *MetricCatalog) Refresh(ctx context.Context) (int, error) {
	metrics, err := c.load(ctx)
	if err != nil {
		c.Logger.Error("Loading metrics failed", zap.Error(err))
		return 0, errors.Wrap(err, "load metrics")
	}
	byKey := make(map[string]*models.Metric, len(metrics))
	for i := range metrics {
		byKey[metrics[i].Key] = &metrics[i]
	}

	c.mu.Lock()
	c.byKey = byKey
	c.mu.Unlock()

	c.Logger.Info("Metric catalog refreshed", zap.Int("metrics", len(byKey)))
	return len(byKey), nil
}

// ByKey returns the metric with the given key.
func (c *MetricCatalog) ByKey(key string) (*models.Metric, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.byKey[key]
	return m, ok
}

// All returns the metrics sorted by key.
func (c *MetricCatalog) All() []models.Metric {
	c.mu.RLock()
	out := make([]models.Metric, 0, len(c.byKey))
	for _, m := range c.byKey {
		out = append(out, *m)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// SeedDefaultMetrics creates the default metrics that are missing.
func SeedDefaultMetrics(db *gorm.DB, logger *zap.Logger) {
	defaults := []models.Metric{
		{Key: "alert_status", ShortName: "Alert", Description: "Alert", Domain: "General", ValType: models.ValueTypeLevel, Enabled: true},
		{Key: "ncloc", ShortName: "Lines of code", Description: "Non Commenting Lines of Code", Domain: "Size", ValType: models.ValueTypeInt, Enabled: true},
		{Key: "lines", ShortName: "Lines", Description: "Lines", Domain: "Size", ValType: models.ValueTypeInt, Enabled: true},
		{Key: "violations", ShortName: "Violations", Description: "Violations", Domain: "Rules", ValType: models.ValueTypeInt, Enabled: true},
		{Key: "coverage", ShortName: "Coverage", Description: "Coverage by unit tests", Domain: "Tests", ValType: models.ValueTypePercent, Enabled: true},
		{Key: "duplicated_lines_density", ShortName: "Duplicated lines (%)", Description: "Duplicated lines balanced by statements", Domain: "Duplication", ValType: models.ValueTypePercent, Enabled: true},
	}
	for _, m := range defaults {
		res := db.Where(models.Metric{Key: m.Key}).FirstOrCreate(&m)
		if res.Error != nil {
			logger.Error("Seeding metric failed", zap.String("metric", m.Key), zap.Error(res.Error))
			continue
		}
		if res.RowsAffected > 0 {
			logger.Info("Seeded metric", zap.String("metric", m.Key))
		}
	}
}
