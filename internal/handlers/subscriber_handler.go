package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/newsline-radio/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// SubscriberRegistry is the subscriber registry the handlers need
type SubscriberRegistry interface {
	Create(ctx context.Context, email, token string, typ models.SubscriberType) (string, error)
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]models.Subscriber, error)
	List(ctx context.Context) ([]models.Subscriber, error)
	Emails(ctx context.Context) ([]string, error)
}

// SubscriberHandler handles subscription requests
type SubscriberHandler struct {
	registry SubscriberRegistry
}

// NewSubscriberHandler creates a new SubscriberHandler
func NewSubscriberHandler(registry SubscriberRegistry) *SubscriberHandler {
	return &SubscriberHandler{registry: registry}
}

// RegisterPublicRoutes registers the subscribe route
func (h *SubscriberHandler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/subscribers", h.Subscribe)
}

// RegisterAdminRoutes registers the subscriber management routes
func (h *SubscriberHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/subscribers", h.GetSubscribers)
	g.GET("/subscribers/emails", h.GetEmails)
	g.DELETE("/subscribers/:id", h.DeleteSubscriber)
}

// Subscribe registers an email or push subscriber
func (h *SubscriberHandler) Subscribe(c echo.Context) error {
	var req models.CreateSubscriberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	email := strings.TrimSpace(req.Email)
	token := strings.TrimSpace(req.FCMToken)
	if req.Type == models.SubscriberTypeNotification {
		// Push subscribers are keyed by their token.
		email = ""
	}

	id, err := h.registry.Create(c.Request().Context(), email, token, req.Type)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// GetSubscribers lists live subscribers, newest first
func (h *SubscriberHandler) GetSubscribers(c echo.Context) error {
	subs, err := h.registry.List(c.Request().Context())
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"subscribers": subs, "total": len(subs)})
}

// GetEmails returns every live email address, for copying into a mail client
func (h *SubscriberHandler) GetEmails(c echo.Context) error {
	emails, err := h.registry.Emails(c.Request().Context())
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"emails": emails, "joined": strings.Join(emails, ", ")})
}

// DeleteSubscriber soft-deletes a subscriber
func (h *SubscriberHandler) DeleteSubscriber(c echo.Context) error {
	if err := h.registry.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
