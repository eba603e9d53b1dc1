package measurefilter

import (
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewListDisplayDefaults(t *testing.T) {
	criteria := Criteria{}
	d, err := NewListDisplay(criteria, testMetrics(), fakeMessages{}, Options{})
	require.NoError(t, err)

	require.Equal(t, []string{"metric:alert_status", "name", "date", "metric:ncloc", "metric:violations", "links"}, d.Criteria.List(KeyCols))
	require.Equal(t, "name", d.Criteria.Get(KeySort))
	require.Equal(t, "true", d.Criteria.Get(KeyAsc))
	require.Equal(t, "30", d.Criteria.Get(KeyPageSize))
	require.Equal(t, Pagination{Page: 1, PerPage: 30}, d.Pagination)

	require.Len(t, d.Columns, 6)
	for i, col := range d.Columns[:5] {
		require.True(t, col.Sortable, i)
	}
	require.Equal(t, "links", d.Columns[5].Key)
	require.False(t, d.Columns[5].Sortable)
	require.True(t, d.RequireLinks)
	require.Equal(t, []string{"alert_status", "ncloc", "violations"}, d.MetricKeys())

	require.Empty(t, criteria, "input criteria must not be mutated")
}

func TestNewListDisplayKeepsGivenCriteria(t *testing.T) {
	criteria := Criteria{
		KeyCols:     {"name", "metric:coverage"},
		KeySort:     {"metric:coverage"},
		KeyAsc:      {"false"},
		KeyPageSize: {"50"},
		KeyPage:     {"3"},
	}
	d, err := NewListDisplay(criteria, testMetrics(), fakeMessages{}, Options{})
	require.NoError(t, err)

	require.Equal(t, []string{"name", "metric:coverage"}, d.Criteria.List(KeyCols))
	require.Equal(t, "metric:coverage", d.Criteria.Get(KeySort))
	require.Equal(t, "false", d.Criteria.Get(KeyAsc))
	require.Equal(t, Pagination{Page: 3, PerPage: 50}, d.Pagination)
	require.Equal(t, 100, d.Pagination.Offset())
	require.False(t, d.RequireLinks)
	require.Equal(t, []string{"coverage"}, d.MetricKeys())
}

func TestNewListDisplayColumnOrder(t *testing.T) {
	cols := []string{"links", "metric:ncloc", "description", "metric:unknown", "date"}
	d, err := NewListDisplay(Criteria{KeyCols: cols}, testMetrics(), fakeMessages{}, Options{})
	require.NoError(t, err)
	require.Len(t, d.Columns, len(cols))
	for i, key := range cols {
		require.Equal(t, key, d.Columns[i].Key)
	}
}

func TestNewListDisplayDistinctMetrics(t *testing.T) {
	cols := []string{"metric:ncloc", "metric:coverage", "metric:ncloc:1", "metric:unknown"}
	d, err := NewListDisplay(Criteria{KeyCols: cols}, testMetrics(), fakeMessages{}, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"ncloc", "coverage"}, d.MetricKeys())
}

func TestNewListDisplayClampsPageSize(t *testing.T) {
	tests := []struct {
		requested string
		max       int
		want      int
	}{
		{"10", 0, 10},
		{"200", 0, 200},
		{"201", 0, 200},
		{"100000", 0, 200},
		{"80", 50, 50},
	}
	for _, tt := range tests {
		d, err := NewListDisplay(Criteria{KeyPageSize: {tt.requested}}, testMetrics(), fakeMessages{}, Options{MaxPageSize: tt.max})
		require.NoError(t, err)
		require.Equal(t, tt.want, d.Pagination.PerPage, tt.requested)
		require.Equal(t, tt.requested, d.Criteria.Get(KeyPageSize))
	}
}

func TestNewListDisplayParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		field    string
	}{
		{"page size", Criteria{KeyPageSize: {"many"}}, KeyPageSize},
		{"empty page size", Criteria{KeyPageSize: {""}}, KeyPageSize},
		{"page", Criteria{KeyPage: {"two"}}, KeyPage},
		{"period", Criteria{KeyCols: {"name", "metric:ncloc:x"}}, "period"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewListDisplay(tt.criteria, testMetrics(), fakeMessages{}, Options{})
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			require.Equal(t, tt.field, perr.Field)
		})
	}
}

func TestNewListDisplayEmptyPageDefaultsToFirst(t *testing.T) {
	d, err := NewListDisplay(Criteria{KeyPage: {""}}, testMetrics(), fakeMessages{}, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, d.Pagination.Page)
}

func TestURLParamsAllowList(t *testing.T) {
	criteria := Criteria{
		KeyCols:        {"name", "metric:ncloc"},
		KeyPage:        {"4"},
		"qualifiers":   {"TRK"},
		"onFavourites": {"true"},
	}
	d, err := NewListDisplay(criteria, testMetrics(), fakeMessages{}, Options{})
	require.NoError(t, err)

	params := d.URLParams()
	require.Equal(t, url.Values{
		KeyCols:     {"name", "metric:ncloc"},
		KeySort:     {"name"},
		KeyAsc:      {"true"},
		KeyPageSize: {"30"},
	}, params)
	require.Equal(t, "/measures/list?asc=true&cols=name&cols=metric%3Ancloc&pageSize=30&sort=name", d.URL("/measures/list"))
}

func TestURLParamsOnlyPresentKeys(t *testing.T) {
	d := &ListDisplay{Criteria: Criteria{KeySort: {"date"}, "extra": {"x"}}}
	require.Equal(t, url.Values{KeySort: {"date"}}, d.URLParams())

	empty := &ListDisplay{Criteria: Criteria{"extra": {"x"}}}
	require.Equal(t, "/list", empty.URL("/list"))
}

func TestCriteriaSetDefault(t *testing.T) {
	c := Criteria{KeySort: {""}}
	require.False(t, c.SetDefault(KeySort, "name"))
	require.Equal(t, "", c.Get(KeySort))
	require.True(t, c.SetDefault(KeyAsc, "true"))
	require.Equal(t, "true", c.Get(KeyAsc))
}
