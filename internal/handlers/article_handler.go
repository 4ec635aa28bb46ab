package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/anonto42/newsline-radio/backend/internal/logging"
	"github.com/anonto42/newsline-radio/backend/internal/middleware"
	"github.com/anonto42/newsline-radio/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// ArticleService is the article logic the handlers need
type ArticleService interface {
	Publish(ctx context.Context, req models.CreateArticleRequest) (*models.Article, error)
	Update(ctx context.Context, id string, req models.UpdateArticleRequest) (*models.Article, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	List(ctx context.Context, limit int) ([]models.ArticleSummary, error)
	URL(a *models.Article) string
}

// ImageUploader stores an uploaded image and returns its public URL
type ImageUploader interface {
	Upload(ctx context.Context, r io.Reader) (string, error)
}

// ArticleHandler handles the admin article endpoints
type ArticleHandler struct {
	articles ArticleService
	uploader ImageUploader
}

// NewArticleHandler creates a new ArticleHandler. A nil uploader disables uploads.
func NewArticleHandler(articles ArticleService, uploader ImageUploader) *ArticleHandler {
	return &ArticleHandler{articles: articles, uploader: uploader}
}

// RegisterArticleRoutes registers the admin article routes
func (h *ArticleHandler) RegisterArticleRoutes(g *echo.Group) {
	g.POST("/articles", h.CreateArticle)
	g.GET("/articles/:id", h.GetArticle)
	g.PUT("/articles/:id", h.UpdateArticle)
	g.DELETE("/articles/:id", h.DeleteArticle)
	g.POST("/uploads", h.UploadImage)
}

// CreateArticle publishes a new article
func (h *ArticleHandler) CreateArticle(c echo.Context) error {
	var req models.CreateArticleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.articles.Publish(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(c, err)
	}
	logging.Info().Str("admin", actingAdmin(c)).Str("article_id", article.ID).Msg("article published")
	return c.JSON(http.StatusCreated, echo.Map{
		"article": article,
		"url":     h.articles.URL(article),
	})
}

// GetArticle retrieves an article by ID
func (h *ArticleHandler) GetArticle(c echo.Context) error {
	article, err := h.articles.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, article)
}

// UpdateArticle edits an article; slug and publication date are kept
func (h *ArticleHandler) UpdateArticle(c echo.Context) error {
	var req models.UpdateArticleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.articles.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"article": article,
		"url":     h.articles.URL(article),
	})
}

// DeleteArticle deletes an article by ID
func (h *ArticleHandler) DeleteArticle(c echo.Context) error {
	if err := h.articles.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(c, err)
	}
	logging.Info().Str("admin", actingAdmin(c)).Str("article_id", c.Param("id")).Msg("article deleted")
	return c.NoContent(http.StatusNoContent)
}

// UploadImage stores the multipart "file" field as an article image
func (h *ArticleHandler) UploadImage(c echo.Context) error {
	if h.uploader == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Image storage is not configured")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unreadable file")
	}
	defer f.Close()

	url, err := h.uploader.Upload(c.Request().Context(), f)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}

// actingAdmin names the admin behind a request in audit log lines
func actingAdmin(c echo.Context) string {
	claims, ok := middleware.AdminFromContext(c)
	if !ok {
		return "unknown"
	}
	if claims.Email != "" {
		return claims.Email
	}
	return claims.Username
}
