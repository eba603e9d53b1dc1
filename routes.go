package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"measure-filter/config"
	"measure-filter/measurefilter"
	"measure-filter/models"
	"measure-filter/services"
)

const authorizedProjectsHeader = "X-Authorized-Projects"

type metricCatalog interface {
	measurefilter.MetricFinder
	All() []models.Metric
}

type resourceSearcher interface {
	Search(ctx context.Context, term string, auth services.Authorizer) ([]models.ResourceIndex, error)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

type columnView struct {
	Key      string `json:"key"`
	Metric   string `json:"metric,omitempty"`
	Period   *int   `json:"period,omitempty"`
	Title    string `json:"title"`
	Tooltip  string `json:"tooltip,omitempty"`
	Align    string `json:"align,omitempty"`
	TitleCSS string `json:"title_css,omitempty"`
	RowCSS   string `json:"row_css,omitempty"`
	Sortable bool   `json:"sortable"`
	Links    bool   `json:"links"`
}

type listDisplayView struct {
	Display      string       `json:"display"`
	Columns      []columnView `json:"columns"`
	Sort         string       `json:"sort"`
	Asc          bool         `json:"asc"`
	Page         int          `json:"page"`
	PageSize     int          `json:"page_size"`
	Offset       int          `json:"offset"`
	Metrics      []string     `json:"metrics"`
	RequireLinks bool         `json:"require_links"`
	URLParams    string       `json:"url_params"`
}

func newListDisplayView(d *measurefilter.ListDisplay) listDisplayView {
	v := listDisplayView{
		Display:      measurefilter.DisplayKey,
		Columns:      make([]columnView, 0, len(d.Columns)),
		Sort:         d.Criteria.Get(measurefilter.KeySort),
		Asc:          d.Criteria.Get(measurefilter.KeyAsc) == "true",
		Page:         d.Pagination.Page,
		PageSize:     d.Pagination.PerPage,
		Offset:       d.Pagination.Offset(),
		Metrics:      d.MetricKeys(),
		RequireLinks: d.RequireLinks,
		URLParams:    d.URLParams().Encode(),
	}
	for _, col := range d.Columns {
		cv := columnView{
			Key:      col.Key,
			Period:   col.Period,
			Title:    col.TitleLabel,
			Tooltip:  col.Tooltip,
			Align:    col.Align,
			TitleCSS: col.TitleCSS,
			RowCSS:   col.RowCSS,
			Sortable: col.Sortable,
			Links:    col.Links,
		}
		if col.Metric != nil {
			cv.Metric = col.Metric.Key
		}
		v.Columns = append(v.Columns, cv)
	}
	return v
}

func setupMeasureRoutes(router *gin.Engine, metrics measurefilter.MetricFinder, messages measurefilter.MessageResolver, cfg *config.Config, log *zap.Logger) {
	rg := router.Group("/measures")

	rg.GET("/list", func(c *gin.Context) {
		criteria := measurefilter.CriteriaFromQuery(c.Request.URL.Query())
		display, err := measurefilter.NewListDisplay(criteria, metrics, messages, measurefilter.Options{MaxPageSize: cfg.MaxPageSize})
		if err != nil {
			var perr *measurefilter.ParseError
			if errors.As(err, &perr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			log.Error("Building list display failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		listDisplaysCounter.Inc()
		c.JSON(http.StatusOK, newListDisplayView(display))
	})
}

func setupMetricRoutes(router *gin.Engine, catalog metricCatalog) {
	router.GET("/metrics-catalog", func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog.All())
	})
	router.GET("/metrics-catalog/:key", func(c *gin.Context) {
		m, ok := catalog.ByKey(c.Param("key"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "metric not found"})
			return
		}
		c.JSON(http.StatusOK, m)
	})
}

func setupResourceIndexRoutes(router *gin.Engine, search resourceSearcher, log *zap.Logger) {
	rg := router.Group("/resource-index")

	rg.GET("/search", func(c *gin.Context) {
		auth, err := parseProjectScope(c.GetHeader(authorizedProjectsHeader))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + authorizedProjectsHeader + " header"})
			return
		}
		entries, err := search.Search(c.Request.Context(), c.Query("q"), auth)
		if err != nil {
			if errors.Is(err, services.ErrSearchTooShort) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "search term must have at least " + strconv.Itoa(models.MinSearchSize) + " characters"})
				return
			}
			log.Error("Resource index search failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if entries == nil {
			entries = []models.ResourceIndex{}
		}
		c.JSON(http.StatusOK, entries)
	})
}

// parseProjectScope reads a comma separated list of root project ids. An
// absent header grants no project.
func parseProjectScope(header string) (services.Authorizer, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return services.NewProjectScope(), nil
	}
	var ids []uint
	for _, part := range strings.Split(header, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "project id %q", part)
		}
		ids = append(ids, uint(id))
	}
	return services.NewProjectScope(ids...), nil
}
