package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/newsline-radio/backend/internal/articleurl"
	"github.com/anonto42/newsline-radio/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the public article endpoints
type FeedHandler struct {
	articles ArticleService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(articles ArticleService) *FeedHandler {
	return &FeedHandler{articles: articles}
}

// RegisterFeedRoutes registers the public reading routes on the root router,
// since article paths live outside /api.
func (h *FeedHandler) RegisterFeedRoutes(e *echo.Echo, api *echo.Group) {
	api.GET("/articles", h.GetFeed)
	e.GET("/article/:year/:month/:day/:slug", h.GetCanonicalArticle)
	e.GET("/article-by-id/:id", h.GetLegacyArticle)
}

// GetFeed lists the newest articles with their public URLs
func (h *FeedHandler) GetFeed(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := h.articles.List(c.Request().Context(), limit)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"articles": items})
}

// GetCanonicalArticle serves /article/YYYY/MM/DD/slug, redirecting when the
// date in the path is not the article's own.
func (h *FeedHandler) GetCanonicalArticle(c echo.Context) error {
	article, err := h.articles.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return toHTTPError(c, err)
	}
	canonical := h.articles.URL(article)
	if canonical != c.Request().URL.Path {
		return c.Redirect(http.StatusMovedPermanently, canonical)
	}
	return c.JSON(http.StatusOK, articleResponse(article, canonical))
}

// GetLegacyArticle serves a rewritten /article/{id} request. Articles with
// a slug and publication date are redirected to their canonical URL.
func (h *FeedHandler) GetLegacyArticle(c echo.Context) error {
	article, err := h.articles.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(c, err)
	}
	url := h.articles.URL(article)
	if article.HasCanonicalURL() && url != articleurl.LegacyPath(article.ID) {
		return c.Redirect(http.StatusMovedPermanently, url)
	}
	return c.JSON(http.StatusOK, articleResponse(article, url))
}

func articleResponse(a *models.Article, url string) echo.Map {
	return echo.Map{"article": a, "url": url}
}
