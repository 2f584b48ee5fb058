package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meateat/pos-api/pkg/pagination"
)

const dateLayout = "2006-01-02"

// parseIDParam parses the :id path parameter as a positive integer.
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// paginationFromQuery reads page/per_page query parameters.
func paginationFromQuery(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	return &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter. The second
// return value is false when the parameter was present but malformed.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
