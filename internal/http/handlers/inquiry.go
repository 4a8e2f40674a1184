package handlers

import (
	"net/http"

	"chintai/internal/repo"
	"chintai/internal/services"
	"chintai/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InquiryHandler handles inquiry requests
type InquiryHandler struct {
	inquiryRepo  *repo.InquiryRepository
	piRepo       *repo.PropertyInquiryRepository
	activityRepo *repo.ActivityRepository
	pipeline     *services.PipelineService
	unread       *services.UnreadService
}

// NewInquiryHandler creates a new inquiry handler
func NewInquiryHandler(inquiryRepo *repo.InquiryRepository, piRepo *repo.PropertyInquiryRepository, activityRepo *repo.ActivityRepository, pipeline *services.PipelineService, unread *services.UnreadService) *InquiryHandler {
	return &InquiryHandler{
		inquiryRepo:  inquiryRepo,
		piRepo:       piRepo,
		activityRepo: activityRepo,
		pipeline:     pipeline,
		unread:       unread,
	}
}

// markSeen advances the viewer's read watermark. Best effort: a failure
// never blocks the response the user asked for.
func (h *InquiryHandler) markSeen(c echo.Context, tenantID, inquiryID uuid.UUID) {
	if userID, ok := userFromContext(c); ok {
		_ = h.unread.MarkRead(tenantID, userID, inquiryID, seesAllInquiries(c))
	}
}

// GetInquiries lists inquiries for the tenant
// @Summary List inquiries
// @Tags inquiries
// @Produce json
// @Param status query string false "Filter by status (active, on_hold, closed)"
// @Param limit query int false "Items per page" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} models.PaginationResult[models.Inquiry]
// @Router /inquiries [get]
func (h *InquiryHandler) GetInquiries(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	status := c.QueryParam("status")
	if status != "" && !models.ValidInquiryStatus(status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
	}

	limit, offset := paginationParams(c)
	result, err := h.inquiryRepo.List(tenantID, status, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch inquiries"})
	}

	return c.JSON(http.StatusOK, result)
}

// GetInquiry fetches a single inquiry with its property inquiries
// @Summary Get inquiry by ID
// @Tags inquiries
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {object} models.Inquiry
// @Failure 404 {object} map[string]string
// @Router /inquiries/{id} [get]
func (h *InquiryHandler) GetInquiry(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid inquiry ID"})
	}

	inquiry, err := h.inquiryRepo.GetByIDAndTenant(id, tenantID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "inquiry not found"})
	}

	properties, err := h.piRepo.ListByInquiry(tenantID, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch property inquiries"})
	}

	// Opening the detail view counts as having seen the conversation
	h.markSeen(c, tenantID, id)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"inquiry":            inquiry,
		"property_inquiries": properties,
	})
}

// CreateInquiryRequest is the body for opening an inquiry manually
type CreateInquiryRequest struct {
	CustomerID     uuid.UUID  `json:"customer_id" validate:"required"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id"`
	Notes          string     `json:"notes"`
}

// CreateInquiry opens an inquiry by hand, for contacts arriving outside
// the wired channels (walk-ins, phone calls)
// @Summary Create inquiry
// @Tags inquiries
// @Accept json
// @Produce json
// @Param request body CreateInquiryRequest true "Inquiry data"
// @Success 201 {object} models.Inquiry
// @Router /inquiries [post]
func (h *InquiryHandler) CreateInquiry(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	var req CreateInquiryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.CustomerID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "customer_id is required"})
	}

	inquiry := models.Inquiry{
		CustomerID:     req.CustomerID,
		Status:         models.InquiryStatusActive,
		AssignedUserID: req.AssignedUserID,
		Notes:          req.Notes,
	}
	inquiry.TenantID = tenantID
	if err := h.inquiryRepo.Create(&inquiry); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create inquiry"})
	}

	return c.JSON(http.StatusCreated, inquiry)
}

// ChangeInquiryStatusRequest is the body for manual status changes
type ChangeInquiryStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ChangeInquiryStatus manually overrides an inquiry's status
// @Summary Change inquiry status
// @Description Put an inquiry on hold or back in play. Statuses other than on_hold are immediately re-derived from the deal pipeline.
// @Tags inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param request body ChangeInquiryStatusRequest true "New status"
// @Success 200 {object} models.Inquiry
// @Router /inquiries/{id}/status [post]
func (h *InquiryHandler) ChangeInquiryStatus(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid inquiry ID"})
	}

	var req ChangeInquiryStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	inquiry, err := h.pipeline.ChangeInquiryStatus(tenantID, id, req.Status, actorFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, inquiry)
}

// AssignInquiryRequest is the body for assignment changes
type AssignInquiryRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// AssignInquiry explicitly sets an inquiry's assignee
// @Summary Assign inquiry
// @Tags inquiries
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param request body AssignInquiryRequest true "Assignee"
// @Success 200 {object} models.Inquiry
// @Router /inquiries/{id}/assignee [put]
func (h *InquiryHandler) AssignInquiry(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid inquiry ID"})
	}

	var req AssignInquiryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.UserID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "user_id is required"})
	}

	inquiry, err := h.pipeline.SetInquiryAssignee(tenantID, id, req.UserID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, inquiry)
}

// GetInquiryActivities lists an inquiry's activity timeline
// @Summary List inquiry activities
// @Tags inquiries
// @Produce json
// @Param id path string true "Inquiry ID"
// @Success 200 {array} models.CustomerActivity
// @Router /inquiries/{id}/activities [get]
func (h *InquiryHandler) GetInquiryActivities(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid inquiry ID"})
	}

	if _, err := h.inquiryRepo.GetByIDAndTenant(id, tenantID); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "inquiry not found"})
	}

	limit, offset := paginationParams(c)
	activities, err := h.activityRepo.ListByInquiry(tenantID, id, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch activities"})
	}

	// Loading the feed counts as having seen the conversation
	h.markSeen(c, tenantID, id)

	return c.JSON(http.StatusOK, activities)
}
