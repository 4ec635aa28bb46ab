package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anonto42/newsline-radio/backend/internal/fanout"
	"github.com/anonto42/newsline-radio/backend/internal/logging"
	"github.com/anonto42/newsline-radio/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// NotificationSender fans a notification out to subscribers
type NotificationSender interface {
	Send(ctx context.Context, subs []models.Subscriber, title, message string) (*fanout.Report, error)
}

// NotificationHandler handles the admin push broadcast
type NotificationHandler struct {
	registry SubscriberRegistry
	sender   NotificationSender
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(registry SubscriberRegistry, sender NotificationSender) *NotificationHandler {
	return &NotificationHandler{registry: registry, sender: sender}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.POST("/notifications/send", h.SendNotification)
}

// SendNotification broadcasts a push notification to every push subscriber
func (h *NotificationHandler) SendNotification(c echo.Context) error {
	var req models.SendNotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	// The dispatcher does its own filtering of deleted and non-push records.
	subs, err := h.registry.All(ctx)
	if err != nil {
		return toHTTPError(c, err)
	}

	report, err := h.sender.Send(ctx, subs, req.Title, req.Message)
	if err != nil {
		return toHTTPError(c, err)
	}
	logging.Info().Str("admin", actingAdmin(c)).Str("job_id", report.JobID).Msg("notification broadcast")
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"jobId":        report.JobID,
		"requested":    report.Requested,
		"successCount": report.SuccessCount,
		"failureCount": report.FailureCount,
		"failures":     report.Failures,
		"message":      fmt.Sprintf("Sent to %d devices", report.SuccessCount),
	})
}
