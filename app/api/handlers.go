package api

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/news"
	"github.com/lysyi3m/news-comb/app/sources"
	"github.com/lysyi3m/news-comb/app/summary"
)

const (
	DefaultStreamHeartbeat = 15 * time.Second
	DefaultStreamInterval  = 30 * time.Second
	DefaultStreamLifetime  = 5 * time.Minute
)

func NewHandler(registry *sources.Registry, aggregator AggregatorInterface,
	summarizer SummarizerInterface, sourceRepo database.SourceRepository,
	stream StreamConfig, version string) *Handler {
	if stream.Heartbeat <= 0 {
		stream.Heartbeat = DefaultStreamHeartbeat
	}
	if stream.Interval <= 0 {
		stream.Interval = DefaultStreamInterval
	}
	if stream.Lifetime <= 0 {
		stream.Lifetime = DefaultStreamLifetime
	}

	return &Handler{
		registry:   registry,
		aggregator: aggregator,
		generator:  news.NewGenerator(version),
		summarizer: summarizer,
		sourceRepo: sourceRepo,
		stream:     stream,
		version:    version,
	}
}

func queryFromRequest(c *gin.Context) news.Query {
	return news.Query{
		Q:        c.Query("q"),
		Category: c.Query("category"),
		Region:   c.Query("state"),
	}.Normalize()
}

func (h *Handler) GetNews(c *gin.Context) {
	q := queryFromRequest(c)

	result, err := h.aggregator.Run(c.Request.Context(), q)
	if err != nil {
		slog.Error("News aggregation failed", "query", q.Q, "category", q.Category, "region", q.Region, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news"})
		return
	}

	c.Header("X-News-Articles", strconv.Itoa(len(result.Articles)))
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetNewsRSS(c *gin.Context) {
	q := queryFromRequest(c)

	result, err := h.aggregator.Run(c.Request.Context(), q)
	if err != nil {
		slog.Error("News aggregation failed", "query", q.Q, "category", q.Category, "region", q.Region, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.generator.Run(selfLink(c), q, result)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.Header("X-News-Articles", strconv.Itoa(len(result.Articles)))
	c.Header("X-Last-Updated", result.UpdatedAt.Format(time.RFC3339))

	c.String(http.StatusOK, rss)
}

// StreamNews pushes server-sent events: "ready" once, a heartbeat on every
// heartbeat tick and one random breaking article per refresh when there is
// any. The stream ends after the configured lifetime or when the client
// goes away.
func (h *Handler) StreamNews(c *gin.Context) {
	q := queryFromRequest(c)
	ctx := c.Request.Context()

	heartbeat := time.NewTicker(h.stream.Heartbeat)
	defer heartbeat.Stop()
	refresh := time.NewTicker(h.stream.Interval)
	defer refresh.Stop()
	lifetime := time.NewTimer(h.stream.Lifetime)
	defer lifetime.Stop()

	c.Header("Cache-Control", "no-cache, no-transform")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	h.sendEvent(c, StreamEvent{Type: EventReady})
	slog.Debug("Stream opened", "client", c.ClientIP(), "category", q.Category, "region", q.Region)

	for {
		select {
		case <-ctx.Done():
			slog.Debug("Stream closed by client", "client", c.ClientIP())
			return
		case <-lifetime.C:
			slog.Debug("Stream lifetime reached", "client", c.ClientIP())
			return
		case t := <-heartbeat.C:
			h.sendEvent(c, StreamEvent{Type: EventHeartbeat, TS: t.UnixMilli()})
		case <-refresh.C:
			if article := h.pickBreaking(c, q); article != nil {
				h.sendEvent(c, StreamEvent{Type: EventBreaking, Article: article})
			}
		}
	}
}

func (h *Handler) sendEvent(c *gin.Context, event StreamEvent) {
	c.SSEvent("", event)
	c.Writer.Flush()
}

func (h *Handler) pickBreaking(c *gin.Context, q news.Query) *news.Article {
	result, err := h.aggregator.Run(c.Request.Context(), q)
	if err != nil {
		slog.Warn("Breaking news lookup failed", "error", err)
		return nil
	}

	var breaking []news.Article
	for _, article := range result.Articles {
		if article.IsBreaking {
			breaking = append(breaking, article)
		}
	}
	if len(breaking) == 0 {
		return nil
	}

	article := breaking[rand.IntN(len(breaking))]
	return &article
}

func (h *Handler) PostSummary(c *gin.Context) {
	var req summary.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
		})
		return
	}

	resp, err := h.summarizer.Run(c.Request.Context(), req)
	if errors.Is(err, summary.ErrInvalidRequest) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Title and content are required",
		})
		return
	}
	if err != nil {
		slog.Error("Summary failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to generate summary",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetRegions(c *gin.Context) {
	regions := h.registry.Regions()

	result := make([]RegionInfo, 0, len(regions))
	for _, region := range regions {
		result = append(result, RegionInfo{
			Code:    region.Code,
			Name:    region.Name,
			Sources: len(region.Sources),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"regions": result,
		"total":   len(result),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"sources":   h.registry.SourceCount(),
		"regions":   len(h.registry.Regions()),
	}

	if h.sourceRepo != nil {
		if stats, err := h.sourceRepo.GetStats(); err == nil {
			health["healthy_sources"] = stats.HealthySources
			health["failing_sources"] = stats.FailingSources
		} else {
			slog.Warn("Failed to read source stats", "error", err)
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	categories := make([]string, 0)
	for _, category := range h.registry.Categories() {
		categories = append(categories, category.Name)
	}

	stats := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"registry": map[string]interface{}{
			"national_sources": len(h.registry.National()),
			"total_sources":    h.registry.SourceCount(),
			"regions":          len(h.registry.Regions()),
			"categories":       categories,
		},
	}

	if h.sourceRepo != nil {
		dbStats, err := h.sourceRepo.GetStats()
		if err != nil {
			slog.Error("Database error", "operation", "get_stats", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		stats["source_health"] = map[string]interface{}{
			"tracked":         dbStats.TotalSources,
			"healthy":         dbStats.HealthySources,
			"failing":         dbStats.FailingSources,
			"never_fetched":   dbStats.NeverFetched,
			"total_fetches":   dbStats.TotalFetches,
			"total_failures":  dbStats.TotalFailures,
			"last_fetched_at": dbStats.LastFetchedAt,
		}
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListSources(c *gin.Context) {
	if h.sourceRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Source health store is not configured"})
		return
	}

	rows, err := h.sourceRepo.ListSources()
	if err != nil {
		slog.Error("Database error", "operation", "list_sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	result := make([]SourceInfo, 0, len(rows))
	for _, row := range rows {
		result = append(result, newSourceInfo(row))
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": result,
		"total":   len(result),
	})
}

func (h *Handler) APIGetSource(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url parameter"})
		return
	}
	if h.sourceRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Source health store is not configured"})
		return
	}

	row, err := h.sourceRepo.GetSource(url)
	if err != nil {
		slog.Error("Database error", "operation", "get_source", "url", url, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if row == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	c.JSON(http.StatusOK, newSourceInfo(*row))
}

func selfLink(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}
