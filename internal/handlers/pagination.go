package handlers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginatedResponse wraps a page of results together with paging metadata.
type PaginatedResponse struct {
	Data        interface{} `json:"data"`
	TotalRows   int64       `json:"totalRows"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	PageSize    int         `json:"pageSize"`
}

func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.Query("pageSize"))
	switch {
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	case pageSize <= 0:
		pageSize = defaultPageSize
	}
	return page, pageSize
}

// paginate is a gorm scope applying offset/limit from the request's
// page/pageSize query parameters.
func paginate(c *gin.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		page, pageSize := pageParams(c)
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

func newPaginatedResponse(c *gin.Context, data interface{}, totalRows int64) PaginatedResponse {
	page, pageSize := pageParams(c)
	totalPages := 0
	if totalRows > 0 {
		totalPages = int(math.Ceil(float64(totalRows) / float64(pageSize)))
	}
	return PaginatedResponse{
		Data:        data,
		TotalRows:   totalRows,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    pageSize,
	}
}
