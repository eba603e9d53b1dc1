package services

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"measure-filter/models"
)

func TestMetricCatalogRefresh(t *testing.T) {
	calls := 0
	catalog := newMetricCatalog(func(context.Context) ([]models.Metric, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("connection refused")
		}
		return []models.Metric{
			{Key: "ncloc", ValType: models.ValueTypeInt},
			{Key: "alert_status", ValType: models.ValueTypeLevel},
		}, nil
	}, zap.NewNop())

	_, ok := catalog.ByKey("ncloc")
	require.False(t, ok)

	n, err := catalog.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)

	m, ok := catalog.ByKey("ncloc")
	require.True(t, ok)
	require.True(t, m.IsNumeric())
	_, ok = catalog.ByKey("unknown")
	require.False(t, ok)

	_, err = catalog.Refresh(context.Background())
	require.Error(t, err)
	_, ok = catalog.ByKey("alert_status")
	require.True(t, ok, "failed refresh keeps previous content")
}

func TestMetricCatalogAllSorted(t *testing.T) {
	catalog := newMetricCatalog(func(context.Context) ([]models.Metric, error) {
		return []models.Metric{{Key: "violations"}, {Key: "coverage"}, {Key: "ncloc"}}, nil
	}, zap.NewNop())
	_, err := catalog.Refresh(context.Background())
	require.NoError(t, err)

	var keys []string
	for _, m := range catalog.All() {
		keys = append(keys, m.Key)
	}
	require.Equal(t, []string{"coverage", "ncloc", "violations"}, keys)
}
