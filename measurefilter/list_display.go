package measurefilter

import (
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"measure-filter/models"
)

// DisplayKey identifies the list display among the filter displays.
const DisplayKey = "list"

// Criteria keys read by the list display.
const (
	KeyCols     = "cols"
	KeySort     = "sort"
	KeyAsc      = "asc"
	KeyPageSize = "pageSize"
	KeyPage     = "page"
)

const (
	DefaultPageSize = 30
	MaxPageSize     = 200
)

// DefaultColumns are shown when the filter does not ask for columns.
var DefaultColumns = []string{
	"metric:alert_status",
	"name",
	"date",
	"metric:ncloc",
	"metric:violations",
	LinksKey,
}

// propertyKeys are the criteria that make up a shareable list URL.
var propertyKeys = [...]string{KeyCols, KeySort, KeyAsc, KeyPageSize}

// Options tunes a list display.
type Options struct {
	// MaxPageSize caps the page size. Zero means MaxPageSize.
	MaxPageSize int
}

// Pagination is the page window requested from the result set.
type Pagination struct {
	Page    int
	PerPage int
}

// Offset returns the index of the first row of the page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// ListDisplay is the table layout of a measure filter result.
type ListDisplay struct {
	// Criteria are the filter criteria with defaults applied.
	Criteria   Criteria
	Columns    []Column
	Pagination Pagination
	// Metrics are the distinct metrics the result rows must carry,
	// in the order the columns first reference them.
	Metrics []*models.Metric
	// RequireLinks is set when a links column is displayed.
	RequireLinks bool
}

// NewListDisplay applies the list defaults to a copy of criteria and builds
// one column per requested column key. The given criteria are left untouched.
func NewListDisplay(criteria Criteria, metrics MetricFinder, messages MessageResolver, opts Options) (*ListDisplay, error) {
	c := criteria.Clone()
	c.SetDefault(KeyCols, DefaultColumns...)
	c.SetDefault(KeySort, "name")
	c.SetDefault(KeyAsc, "true")
	c.SetDefault(KeyPageSize, strconv.Itoa(DefaultPageSize))

	maxSize := opts.MaxPageSize
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	pageSize, err := atoi(KeyPageSize, c.Get(KeyPageSize))
	if err != nil {
		return nil, err
	}
	page := 1
	if v := c.Get(KeyPage); v != "" {
		if page, err = atoi(KeyPage, v); err != nil {
			return nil, err
		}
	}

	d := &ListDisplay{
		Criteria:   c,
		Pagination: Pagination{Page: page, PerPage: min(pageSize, maxSize)},
	}
	seen := map[string]bool{}
	for _, key := range c.List(KeyCols) {
		col, err := NewColumn(key, metrics, messages)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", key)
		}
		d.Columns = append(d.Columns, col)
		if col.Metric != nil && !seen[col.Metric.Key] {
			seen[col.Metric.Key] = true
			d.Metrics = append(d.Metrics, col.Metric)
		}
		if col.Links {
			d.RequireLinks = true
		}
	}
	return d, nil
}

// MetricKeys returns the keys of the required metrics.
func (d *ListDisplay) MetricKeys() []string {
	keys := make([]string, 0, len(d.Metrics))
	for _, m := range d.Metrics {
		keys = append(keys, m.Key)
	}
	return keys
}

// URLParams returns the criteria needed to rebuild the display from a link:
// cols, sort, asc and pageSize, when present. Nothing else is exposed.
func (d *ListDisplay) URLParams() url.Values {
	return d.Criteria.Select(propertyKeys[:]...)
}

// URL appends the URL params to a base path.
func (d *ListDisplay) URL(base string) string {
	params := d.URLParams()
	if len(params) == 0 {
		return base
	}
	return base + "?" + params.Encode()
}

func atoi(field, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &ParseError{Field: field, Value: v, Err: err}
	}
	return n, nil
}
