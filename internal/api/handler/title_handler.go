package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/criticdb/review-api/internal/api/middleware"
	"github.com/criticdb/review-api/internal/core/ports"
)

type TitleHandler struct {
	catalogService ports.CatalogService
}

func NewTitleHandler(catalogService ports.CatalogService) *TitleHandler {
	return &TitleHandler{catalogService: catalogService}
}

type createTitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required"`
	Genres      []string `json:"genre" validate:"required,min=1"`
}

type patchTitleRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=256"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genres      []string `json:"genre" validate:"omitempty,min=1"`
}

// List handles GET /v1/titles/. Filters are combinable.
//
// @Summary      List titles
// @Tags         catalog
// @Produce      json
// @Param        category  query     string  false  "Category slug"
// @Param        genre     query     string  false  "Genre slug"
// @Param        name      query     string  false  "Name substring filter"
// @Param        year      query     int     false  "Exact release year"
// @Success      200       {object}  listResponse[domain.Title]
// @Router       /v1/titles [get]
func (h *TitleHandler) List(c echo.Context) error {
	page, limit := parsePage(c)
	filter := ports.TitleFilter{
		Category: c.QueryParam("category"),
		Genre:    c.QueryParam("genre"),
		Name:     c.QueryParam("name"),
		Page:     page,
		Limit:    limit,
	}
	if raw := c.QueryParam("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "year must be an integer")
		}
		filter.Year = &year
	}

	titles, total, err := h.catalogService.ListTitles(c.Request().Context(), middleware.ActorFrom(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(titles, total, page, limit))
}

// Create handles POST /v1/titles/.
func (h *TitleHandler) Create(c echo.Context) error {
	var req createTitleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	title, err := h.catalogService.CreateTitle(c.Request().Context(), middleware.ActorFrom(c), ports.TitleInput{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genres,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, title)
}

// Get handles GET /v1/titles/:title_id/.
func (h *TitleHandler) Get(c echo.Context) error {
	title, err := h.catalogService.GetTitle(c.Request().Context(), middleware.ActorFrom(c), c.Param("title_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, title)
}

// Update handles PATCH /v1/titles/:title_id/.
func (h *TitleHandler) Update(c echo.Context) error {
	var req patchTitleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	title, err := h.catalogService.UpdateTitle(c.Request().Context(), middleware.ActorFrom(c), c.Param("title_id"), ports.TitlePatch{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genres,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, title)
}

// Delete handles DELETE /v1/titles/:title_id/. Reviews and their comments go
// with the title.
func (h *TitleHandler) Delete(c echo.Context) error {
	if err := h.catalogService.DeleteTitle(c.Request().Context(), middleware.ActorFrom(c), c.Param("title_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
