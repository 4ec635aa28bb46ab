package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/newsline-radio/backend/internal/articleurl"
	"github.com/anonto42/newsline-radio/backend/internal/fanout"
	"github.com/anonto42/newsline-radio/backend/internal/logging"
	"github.com/anonto42/newsline-radio/backend/internal/repositories"
	"github.com/anonto42/newsline-radio/backend/internal/slug"
	"github.com/anonto42/newsline-radio/backend/internal/storage"
	"github.com/anonto42/newsline-radio/backend/internal/subscribers"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps domain errors to HTTP responses. Unknown errors are
// logged and reported as 500 without their details.
func toHTTPError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, repositories.ErrSlugTaken):
		return echo.NewHTTPError(http.StatusConflict, "Could not reserve a unique slug, try again")
	case errors.Is(err, slug.ErrEmptySlug),
		errors.Is(err, articleurl.ErrInvalidDate),
		errors.Is(err, subscribers.ErrMissingContact),
		errors.Is(err, fanout.ErrMissingContent),
		errors.Is(err, fanout.ErrNoRecipients),
		errors.Is(err, storage.ErrNotImage),
		errors.Is(err, storage.ErrEmptyFile):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, fanout.ErrGatewayTransport):
		logging.Error().Err(err).Str("path", c.Path()).Msg("push gateway failure")
		return echo.NewHTTPError(http.StatusBadGateway, "Failed to send notification")
	}
	logging.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}
