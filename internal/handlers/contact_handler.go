package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/newsline-radio/backend/internal/models"
	"github.com/anonto42/newsline-radio/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ContactHandler handles the contact form and the admin inbox
type ContactHandler struct {
	contactRepository repositories.ContactRepository
	now               func() time.Time
	location          *time.Location
}

// NewContactHandler creates a new ContactHandler. Message dates are
// recorded in location.
func NewContactHandler(contactRepo repositories.ContactRepository, location *time.Location) *ContactHandler {
	if location == nil {
		location = time.UTC
	}
	return &ContactHandler{contactRepository: contactRepo, now: time.Now, location: location}
}

// RegisterPublicRoutes registers the contact form route
func (h *ContactHandler) RegisterPublicRoutes(g *echo.Group) {
	g.POST("/contact", h.CreateContact)
}

// RegisterAdminRoutes registers the inbox routes
func (h *ContactHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/contacts", h.GetContacts)
	g.PUT("/contacts/:id/read", h.MarkAsRead)
}

// CreateContact stores a contact form message
func (h *ContactHandler) CreateContact(c echo.Context) error {
	var req models.CreateContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	now := h.now().In(h.location)
	msg := &models.ContactMessage{
		Email:     strings.TrimSpace(req.Email),
		Message:   strings.TrimSpace(req.Message),
		Date:      now.Format("2006-01-02"),
		Status:    models.ContactStatusUnread,
		Timestamp: now.UTC(),
	}
	if err := h.contactRepository.CreateContact(c.Request().Context(), msg); err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": msg.ID})
}

// GetContacts lists messages, optionally for a single ?date=YYYY-MM-DD
func (h *ContactHandler) GetContacts(c echo.Context) error {
	date := c.QueryParam("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
	}
	messages, err := h.contactRepository.ListContacts(c.Request().Context(), date)
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"contacts": messages})
}

// MarkAsRead marks a message as read
func (h *ContactHandler) MarkAsRead(c echo.Context) error {
	if err := h.contactRepository.MarkContactRead(c.Request().Context(), c.Param("id"), h.now().UTC()); err != nil {
		return toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
