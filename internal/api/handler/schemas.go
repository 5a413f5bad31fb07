package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses.
type errorResponse struct {
	Error string `json:"error"`
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// listResponse is the envelope shared by all list endpoints.
type listResponse[T any] struct {
	Data       []T                `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

func newListResponse[T any](data []T, total int64, page, limit int) listResponse[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return listResponse[T]{
		Data: data,
		Pagination: paginationResponse{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}
}

// parsePage reads ?page= and ?limit=, applying defaults and the cap.
func parsePage(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
