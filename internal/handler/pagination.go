package handler

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
)

// pageResponse is the envelope returned by every paginated endpoint.
type pageResponse struct {
	Content       interface{} `json:"content"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
	TotalElements int64       `json:"total_elements"`
	TotalPages    int         `json:"total_pages"`
}

// pageParams reads the page (0-based) and size query parameters.
func pageParams(c echo.Context, defaultSize int) (page, size int) {
	page = 0
	size = defaultSize

	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			page = n
		}
	}
	if v := c.QueryParam("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			size = n
		}
	}
	return page, size
}

func newPage(content interface{}, page, size int, total int64) pageResponse {
	totalPages := 0
	if size > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(size)))
	}
	return pageResponse{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
