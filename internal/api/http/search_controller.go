package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/osa030/jamroom/internal/infra/youtube"
)

// Searcher defines the track search operations needed by the API.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]youtube.Result, error)
}

// SearchController handles track search endpoints.
type SearchController struct {
	search     Searcher
	maxResults int
}

// NewSearchController creates a new SearchController.
func NewSearchController(search Searcher, maxResults int) *SearchController {
	return &SearchController{search: search, maxResults: maxResults}
}

// Search handles GET /api/search.
func (sc *SearchController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	limit := sc.maxResults
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if n < limit {
			limit = n
		}
	}

	results, err := sc.search.Search(c.Request.Context(), query, limit)
	if err != nil {
		if errors.Is(err, youtube.ErrQuotaExceeded) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "search quota exceeded"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "search backend unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
