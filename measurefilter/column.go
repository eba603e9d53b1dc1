package measurefilter

import (
	"strconv"
	"strings"

	"measure-filter/models"
)

// Column keys with a fixed meaning.
const (
	LinksKey     = "links"
	metricPrefix = "metric"
)

// CSS hints used by the list template.
const (
	AlignRight = "right"
	CSSThin    = "thin"
	CSSNoWrap  = "nowrap"
)

// Table cells are left-aligned by default; only these columns keep it.
var leftAligned = map[string]bool{
	"name":        true,
	"short_name":  true,
	"description": true,
}

// MetricFinder resolves a metric by its key.
type MetricFinder interface {
	ByKey(key string) (*models.Metric, bool)
}

// MessageResolver resolves a localized message, falling back to def.
type MessageResolver interface {
	Message(key, def string) string
}

// Column is the display metadata of one column of a list display.
type Column struct {
	Key    string
	Metric *models.Metric
	Period *int

	TitleLabel string
	Tooltip    string
	Align      string
	TitleCSS   string
	RowCSS     string
	Sortable   bool
	Links      bool
}

// NewColumn parses a column key ("name", "links", "metric:ncloc",
// "metric:coverage:2") and derives its display attributes.
func NewColumn(key string, metrics MetricFinder, messages MessageResolver) (Column, error) {
	col := Column{Key: key}

	fields := splitKey(key)
	if len(fields) >= 2 && fields[0] == metricPrefix {
		if m, ok := metrics.ByKey(fields[1]); ok {
			col.Metric = m
		}
		if len(fields) >= 3 {
			period, err := strconv.Atoi(fields[2])
			if err != nil {
				return Column{}, &ParseError{Field: "period", Value: fields[2], Err: err}
			}
			col.Period = &period
		}
	}

	col.Links = key == LinksKey
	col.Sortable = !col.Links
	col.TitleLabel = col.titleLabel(messages)
	if !leftAligned[key] {
		col.Align = AlignRight
	}
	if col.Metric != nil {
		col.Tooltip = col.Metric.Description
		if col.Metric.IsLevel() {
			col.TitleCSS = CSSThin
		}
	}
	if col.Metric == nil || !col.Metric.IsNumeric() {
		col.RowCSS = CSSNoWrap
	}
	return col, nil
}

// IsMetric reports whether the column shows the measures of a known metric.
func (c Column) IsMetric() bool {
	return c.Metric != nil
}

func (c Column) titleLabel(messages MessageResolver) string {
	if c.Metric != nil {
		label := messages.Message("measure_filter.short_col.metric."+c.Metric.Key, "")
		if label == "" {
			label = messages.Message("metric."+c.Metric.Key+".name", c.Metric.ShortName)
		}
		return label
	}
	label := messages.Message("measure_filter.short_col."+c.Key, "")
	if label == "" {
		label = messages.Message("measure_filter.col."+c.Key, c.Key)
	}
	return label
}

// splitKey splits on ':' and drops trailing empty segments, so
// "metric:ncloc:" has no period.
func splitKey(key string) []string {
	fields := strings.Split(key, ":")
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}
