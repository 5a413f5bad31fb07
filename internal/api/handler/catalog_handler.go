package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/criticdb/review-api/internal/api/middleware"
	"github.com/criticdb/review-api/internal/core/ports"
)

// CatalogHandler covers categories and genres: list, create, delete.
// Neither resource has a retrieve or update endpoint.
type CatalogHandler struct {
	catalogService ports.CatalogService
}

func NewCatalogHandler(catalogService ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type slugRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50"`
}

// ListCategories handles GET /v1/categories/.
//
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Param        search  query     string  false  "Name substring filter"
// @Success      200     {object}  listResponse[domain.Category]
// @Router       /v1/categories [get]
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	page, limit := parsePage(c)
	categories, total, err := h.catalogService.ListCategories(c.Request().Context(), middleware.ActorFrom(c), ports.SlugFilter{
		Search: c.QueryParam("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(categories, total, page, limit))
}

// CreateCategory handles POST /v1/categories/.
func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req slugRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.catalogService.CreateCategory(c.Request().Context(), middleware.ActorFrom(c), req.Name, req.Slug)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

// DeleteCategory handles DELETE /v1/categories/:slug/.
func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	if err := h.catalogService.DeleteCategory(c.Request().Context(), middleware.ActorFrom(c), c.Param("slug")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListGenres handles GET /v1/genres/.
func (h *CatalogHandler) ListGenres(c echo.Context) error {
	page, limit := parsePage(c)
	genres, total, err := h.catalogService.ListGenres(c.Request().Context(), middleware.ActorFrom(c), ports.SlugFilter{
		Search: c.QueryParam("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(genres, total, page, limit))
}

// CreateGenre handles POST /v1/genres/.
func (h *CatalogHandler) CreateGenre(c echo.Context) error {
	var req slugRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	genre, err := h.catalogService.CreateGenre(c.Request().Context(), middleware.ActorFrom(c), req.Name, req.Slug)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, genre)
}

// DeleteGenre handles DELETE /v1/genres/:slug/.
func (h *CatalogHandler) DeleteGenre(c echo.Context) error {
	if err := h.catalogService.DeleteGenre(c.Request().Context(), middleware.ActorFrom(c), c.Param("slug")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
