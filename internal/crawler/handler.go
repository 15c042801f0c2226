package crawler

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"qnotehub/internal/export"
	"qnotehub/pkg/models"
)

// Handler exposes the crawl pipeline over HTTP. DB is optional; when
// set, every successful run is persisted.
type Handler struct {
	Crawler  *Crawler
	Exporter *export.Exporter
	DB       *sql.DB
}

func NewHandler(c *Crawler, exporter *export.Exporter, db *sql.DB) *Handler {
	return &Handler{Crawler: c, Exporter: exporter, DB: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/crawl", h.crawl)               // POST /api/crawl
	rg.GET("/crawl", h.crawlGet)             // GET  /api/crawl?num_books=&num_chapters=
	rg.POST("/crawl_and_save", h.crawlSave)  // POST /api/crawl_and_save
	rg.POST("/crawl_and_export", h.crawlExport) // POST /api/crawl_and_export
}

// crawlBody uses pointers so an absent field gets the default while
// an explicit 0 stays 0.
type crawlBody struct {
	NumBooks    *int `json:"num_books"`
	NumChapters *int `json:"num_chapters"`
}

func (h *Handler) bindRequest(c *gin.Context) (models.CrawlRequest, bool) {
	var body crawlBody
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return models.CrawlRequest{}, false
		}
	}

	req := models.CrawlRequest{
		NumBooks:    h.Crawler.cfg.DefaultBooks,
		NumChapters: h.Crawler.cfg.DefaultChapters,
	}
	if body.NumBooks != nil {
		req.NumBooks = *body.NumBooks
	}
	if body.NumChapters != nil {
		req.NumChapters = *body.NumChapters
	}
	if req.NumBooks < 0 || req.NumChapters < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "num_books and num_chapters must be >= 0"})
		return models.CrawlRequest{}, false
	}
	return req, true
}

func (h *Handler) run(c *gin.Context, req models.CrawlRequest) (*models.CrawlResult, bool) {
	result, err := h.Crawler.Crawl(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrHomepageUnreachable) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch qnote homepage"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "crawl failed"})
		}
		return nil, false
	}

	if h.DB != nil {
		if err := SaveToDatabase(c.Request.Context(), h.DB, result.AllBooks()); err != nil {
			// persistence is best-effort for the API response
			log.Printf("[crawler] persist failed: %v", err)
		}
	}
	return result, true
}

func (h *Handler) crawl(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	result, ok := h.run(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// crawlGet is the read-only variant with query parameters and
// smaller defaults (2 books, 5 chapters).
func (h *Handler) crawlGet(c *gin.Context) {
	req := models.CrawlRequest{
		NumBooks:    parseInt(c.Query("num_books"), 2),
		NumChapters: parseInt(c.Query("num_chapters"), 5),
	}
	if req.NumBooks < 0 || req.NumChapters < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "num_books and num_chapters must be >= 0"})
		return
	}
	result, ok := h.run(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) crawlSave(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	result, ok := h.run(c, req)
	if !ok {
		return
	}

	path, err := h.Exporter.SaveJSON(result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": path, "count": len(result.AllBooks())})
}

func (h *Handler) crawlExport(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	result, ok := h.run(c, req)
	if !ok {
		return
	}

	dirs, err := h.Exporter.ExportBooks(result.AllBooks())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exported": dirs, "count": len(dirs)})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
