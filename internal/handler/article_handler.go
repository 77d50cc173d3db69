package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"portfolio/internal/auth"
	"portfolio/internal/service"
)

// ArticleHandler handles article lifecycle endpoints.
type ArticleHandler struct {
	articles service.ArticleService
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(articles service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

// CreateArticleRequest represents an article creation request.
type CreateArticleRequest struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Name     string   `json:"name" validate:"required"`
	Content  []string `json:"content" validate:"required,min=1"`
	Category string   `json:"category"`
	Status   string   `json:"status"`
	Tags     []string `json:"tags"`
	Excerpt  string   `json:"excerpt" validate:"omitempty,max=500"`
}

// UpdateArticleRequest is a partial article update; absent fields stay
// untouched.
type UpdateArticleRequest struct {
	Title    *string  `json:"title"`
	Name     *string  `json:"name"`
	Content  []string `json:"content"`
	Category *string  `json:"category"`
	Status   *string  `json:"status"`
	Tags     []string `json:"tags"`
	Excerpt  *string  `json:"excerpt"`
}

// List godoc
// @Summary List articles
// @Tags articles
// @Produce json
// @Param status query string false "Filter by status (editor/admin only)"
// @Param category query string false "Filter by category"
// @Param search query string false "Search in title, content, and category"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} ListResponse
// @Router /articles [get]
func (h *ArticleHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.articles.List(c.Request().Context(), service.ListOptions{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Page:     page,
		Limit:    limit,
	}, auth.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, ListResponse{
		Success:     true,
		Count:       len(result.Items),
		Total:       result.Total,
		Pages:       result.Pages,
		CurrentPage: result.CurrentPage,
		Data:        result.Items,
	})
}

// GetByName godoc
// @Summary Get an article by slug
// @Tags articles
// @Produce json
// @Param name path string true "Article slug"
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /articles/{name} [get]
func (h *ArticleHandler) GetByName(c echo.Context) error {
	article, err := h.articles.GetByName(c.Request().Context(), c.Param("name"), auth.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "", article)
}

// Create godoc
// @Summary Create an article
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateArticleRequest true "Article fields"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 403 {object} Response
// @Router /articles [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	var req CreateArticleRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, "Please provide title, name, and content")
	}

	article, err := h.articles.Create(c.Request().Context(), service.CreateArticleInput{
		Title:    req.Title,
		Name:     req.Name,
		Content:  req.Content,
		Category: req.Category,
		Status:   req.Status,
		Tags:     req.Tags,
		Excerpt:  req.Excerpt,
	}, auth.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusCreated, "Article created successfully", article)
}

// Update godoc
// @Summary Update an article
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param request body UpdateArticleRequest true "Fields to change"
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /articles/{id} [put]
func (h *ArticleHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid article id")
	}

	var req UpdateArticleRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}

	article, err := h.articles.Update(c.Request().Context(), uint(id), service.ArticlePatch{
		Title:    req.Title,
		Name:     req.Name,
		Content:  req.Content,
		Category: req.Category,
		Status:   req.Status,
		Tags:     req.Tags,
		Excerpt:  req.Excerpt,
	}, auth.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, "Article updated successfully", article)
}

// Delete godoc
// @Summary Delete an article
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Failure 404 {object} Response
// @Router /articles/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, "Invalid article id")
	}
	if err := h.articles.Delete(c.Request().Context(), uint(id), auth.CurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Article deleted successfully", nil)
}

// Stats godoc
// @Summary Aggregate article statistics
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 403 {object} Response
// @Router /articles/stats [get]
func (h *ArticleHandler) Stats(c echo.Context) error {
	stats, err := h.articles.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "", stats)
}
