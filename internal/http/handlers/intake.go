package handlers

import (
	"net/http"

	"chintai/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// IntakeHandler handles inbound contact webhooks and outbound activity logging
type IntakeHandler struct {
	intake *services.IntakeService
	unread *services.UnreadService
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(intake *services.IntakeService, unread *services.UnreadService) *IntakeHandler {
	return &IntakeHandler{intake: intake, unread: unread}
}

// InboundWebhookRequest is the payload posted by channel gateways
type InboundWebhookRequest struct {
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	LineUserID string     `json:"line_user_id"`
	RoomID     *uuid.UUID `json:"room_id"`
	Channel    string     `json:"channel" validate:"required"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	MediaType  string     `json:"media_type"`
}

// HandleInbound ingests an inbound contact from an external channel
// @Summary Inbound contact webhook
// @Description Accept a contact from a web form, portal email gateway or LINE. Creates or reuses the customer and inquiry, optionally opens a property inquiry, and appends the inbound activity.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param request body InboundWebhookRequest true "Inbound contact"
// @Success 201 {object} services.IntakeResult
// @Failure 400 {object} map[string]string
// @Router /webhooks/{tenant_id}/inbound [post]
func (h *IntakeHandler) HandleInbound(c echo.Context) error {
	tenantID, err := uuid.Parse(c.Param("tenant_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid tenant ID"})
	}

	var req InboundWebhookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result, err := h.intake.RecordInbound(tenantID, services.InboundContact{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		LineUserID: req.LineUserID,
		RoomID:     req.RoomID,
		Channel:    req.Channel,
		Subject:    req.Subject,
		Body:       req.Body,
		MediaType:  req.MediaType,
	})
	if err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID.String()).Str("channel", req.Channel).Msg("inbound contact rejected")
		return serviceError(c, err)
	}

	return c.JSON(http.StatusCreated, result)
}

// CreateActivityRequest is the body for logging an outbound contact
type CreateActivityRequest struct {
	ActivityType string `json:"activity_type" validate:"required"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
}

// CreateActivity records an outbound contact on an inquiry
// @Summary Log outbound activity
// @Description Append an outbound email, LINE message or phone call record to an inquiry's timeline. Replying marks the inquiry read for the author; other users' unread state is untouched.
// @Tags inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param request body CreateActivityRequest true "Activity data"
// @Success 201 {object} models.CustomerActivity
// @Router /inquiries/{id}/activities [post]
func (h *IntakeHandler) CreateActivity(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid inquiry ID"})
	}

	var req CreateActivityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	activity, err := h.intake.RecordOutbound(tenantID, id, req.ActivityType, req.Subject, req.Body, actorFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}

	// Replying counts as having seen the conversation. Best effort: a
	// watermark failure never fails the reply itself.
	if userID, ok := userFromContext(c); ok {
		_ = h.unread.MarkRead(tenantID, userID, id, seesAllInquiries(c))
	}

	return c.JSON(http.StatusCreated, activity)
}
