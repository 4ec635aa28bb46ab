package middleware

import (
	"github.com/anonto42/newsline-radio/backend/internal/articleurl"
	"github.com/labstack/echo/v4"
)

// LegacyByIDPrefix is the internal route prefix legacy article paths are
// rewritten to.
const LegacyByIDPrefix = "/article-by-id/"

// LegacyArticleRewrite rewrites /article/{id} to /article-by-id/{id} before
// routing. Paths whose single segment looks like a year are left alone.
// Register it with e.Pre.
func LegacyArticleRewrite() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if id, legacy := articleurl.ClassifyArticlePath(req.URL.Path); legacy {
				req.URL.Path = LegacyByIDPrefix + id
				req.URL.RawPath = ""
			}
			return next(c)
		}
	}
}
