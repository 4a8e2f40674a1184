package handlers

import (
	"net/http"

	"chintai/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles unread tracking requests
type NotificationHandler struct {
	unread *services.UnreadService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(unread *services.UnreadService) *NotificationHandler {
	return &NotificationHandler{unread: unread}
}

// GetUnreadCount returns the requesting user's unread inquiry count
// @Summary Unread inquiry count
// @Description Count inquiries whose latest inbound activity is newer than the user's read watermark. Intended for badge polling.
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}
	userID, ok := userFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "user_id not found in context"})
	}

	count, err := h.unread.UnreadCount(tenantID, userID, seesAllInquiries(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to count unread inquiries"})
	}

	return c.JSON(http.StatusOK, map[string]int64{"unread_count": count})
}

// GetUnreadInquiries lists the requesting user's unread inquiries
// @Summary List unread inquiries
// @Tags notifications
// @Produce json
// @Success 200 {array} services.UnreadInquiry
// @Router /notifications/unread [get]
func (h *NotificationHandler) GetUnreadInquiries(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}
	userID, ok := userFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "user_id not found in context"})
	}

	items, err := h.unread.ListUnread(tenantID, userID, seesAllInquiries(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list unread inquiries"})
	}

	return c.JSON(http.StatusOK, items)
}

// MarkInquiryRead advances the user's read watermark on one inquiry
// @Summary Mark inquiry as read
// @Tags notifications
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /inquiries/{id}/read [post]
func (h *NotificationHandler) MarkInquiryRead(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}
	userID, ok := userFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "user_id not found in context"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid inquiry ID"})
	}

	if err := h.unread.MarkRead(tenantID, userID, id, seesAllInquiries(c)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "inquiry marked as read"})
}

// MarkAllReadRequest optionally narrows a bulk read to specific inquiries
type MarkAllReadRequest struct {
	InquiryIDs []uuid.UUID `json:"inquiry_ids"`
}

// MarkAllRead advances the user's read watermark on all visible inquiries
// @Summary Mark all inquiries as read
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body MarkAllReadRequest false "Optional inquiry subset"
// @Success 200 {object} map[string]int
// @Router /inquiries/read [post]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}
	userID, ok := userFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "user_id not found in context"})
	}

	var req MarkAllReadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	marked, err := h.unread.MarkAllRead(tenantID, userID, req.InquiryIDs, seesAllInquiries(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int{"marked": marked})
}
