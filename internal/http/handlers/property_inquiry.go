package handlers

import (
	"net/http"

	"chintai/internal/repo"
	"chintai/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PropertyInquiryHandler handles per-property deal requests
type PropertyInquiryHandler struct {
	piRepo   *repo.PropertyInquiryRepository
	pipeline *services.PipelineService
}

// NewPropertyInquiryHandler creates a new property inquiry handler
func NewPropertyInquiryHandler(piRepo *repo.PropertyInquiryRepository, pipeline *services.PipelineService) *PropertyInquiryHandler {
	return &PropertyInquiryHandler{piRepo: piRepo, pipeline: pipeline}
}

// CreatePropertyInquiryRequest is the body for adding a property to an inquiry
type CreatePropertyInquiryRequest struct {
	InquiryID  uuid.UUID  `json:"inquiry_id" validate:"required"`
	CustomerID uuid.UUID  `json:"customer_id" validate:"required"`
	RoomID     uuid.UUID  `json:"room_id" validate:"required"`
	Priority   string     `json:"priority"`
	MediaType  string     `json:"media_type"`
	OriginType string     `json:"origin_type"`
	AssignedTo *uuid.UUID `json:"assigned_user_id"`
}

// CreatePropertyInquiry adds a property interest to an existing inquiry
// @Summary Create property inquiry
// @Description Attach a new per-property deal to an inquiry. Adding one to a closed inquiry re-opens it.
// @Tags property-inquiries
// @Accept json
// @Produce json
// @Param request body CreatePropertyInquiryRequest true "Property inquiry data"
// @Success 201 {object} models.PropertyInquiry
// @Router /property-inquiries [post]
func (h *PropertyInquiryHandler) CreatePropertyInquiry(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	var req CreatePropertyInquiryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.InquiryID == uuid.Nil || req.CustomerID == uuid.Nil || req.RoomID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "inquiry_id, customer_id and room_id are required"})
	}

	pi, err := h.pipeline.CreatePropertyInquiry(tenantID, services.CreatePropertyInquiryInput{
		InquiryID:  req.InquiryID,
		CustomerID: req.CustomerID,
		RoomID:     req.RoomID,
		Priority:   req.Priority,
		MediaType:  req.MediaType,
		OriginType: req.OriginType,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusCreated, pi)
}

// GetPropertyInquiry fetches a single property inquiry
// @Summary Get property inquiry by ID
// @Tags property-inquiries
// @Produce json
// @Param id path string true "Property inquiry ID"
// @Success 200 {object} models.PropertyInquiry
// @Failure 404 {object} map[string]string
// @Router /property-inquiries/{id} [get]
func (h *PropertyInquiryHandler) GetPropertyInquiry(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid property inquiry ID"})
	}

	pi, err := h.piRepo.GetByIDAndTenant(id, tenantID)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "property inquiry not found"})
	}

	return c.JSON(http.StatusOK, pi)
}

// ChangeDealStatusRequest is the body for deal status transitions
type ChangeDealStatusRequest struct {
	DealStatus string `json:"deal_status" validate:"required"`
	Reason     string `json:"reason"`
}

// ChangeDealStatus moves a property inquiry through the deal pipeline
// @Summary Change deal status
// @Description Update a property inquiry's deal status. Every change is recorded as a customer activity, and the parent inquiry's status is reconciled in the same transaction.
// @Tags property-inquiries
// @Accept json
// @Produce json
// @Param id path string true "Property inquiry ID"
// @Param request body ChangeDealStatusRequest true "New deal status and optional reason"
// @Success 200 {object} models.PropertyInquiry
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /property-inquiries/{id}/deal-status [post]
func (h *PropertyInquiryHandler) ChangeDealStatus(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid property inquiry ID"})
	}

	var req ChangeDealStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	pi, err := h.pipeline.ChangeDealStatus(tenantID, id, req.DealStatus, req.Reason, actorFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, pi)
}

// AssignPropertyInquiry sets the assignee of a property inquiry
// @Summary Assign property inquiry
// @Description Assign a user to a property inquiry. The parent inquiry picks up the assignee only if it has none yet.
// @Tags property-inquiries
// @Accept json
// @Produce json
// @Param id path string true "Property inquiry ID"
// @Param request body AssignInquiryRequest true "Assignee"
// @Success 200 {object} models.PropertyInquiry
// @Router /property-inquiries/{id}/assignee [put]
func (h *PropertyInquiryHandler) AssignPropertyInquiry(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid property inquiry ID"})
	}

	var req AssignInquiryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.UserID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "user_id is required"})
	}

	pi, err := h.pipeline.AssignPropertyInquiry(tenantID, id, req.UserID, actorFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, pi)
}
