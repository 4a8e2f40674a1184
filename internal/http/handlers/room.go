package handlers

import (
	"net/http"

	"chintai/internal/repo"
	"chintai/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RoomHandler handles room catalog requests
type RoomHandler struct {
	roomRepo *repo.RoomRepository
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomRepo *repo.RoomRepository) *RoomHandler {
	return &RoomHandler{roomRepo: roomRepo}
}

// GetRooms lists rooms for the tenant
// @Summary List rooms
// @Tags rooms
// @Produce json
// @Param limit query int false "Items per page" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} models.PaginationResult[models.Room]
// @Router /rooms [get]
func (h *RoomHandler) GetRooms(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	limit, offset := paginationParams(c)
	result, err := h.roomRepo.List(tenantID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch rooms"})
	}

	return c.JSON(http.StatusOK, result)
}

// GetRoom fetches a single room
// @Summary Get room by ID
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} models.Room
// @Failure 404 {object} map[string]string
// @Router /rooms/{id} [get]
func (h *RoomHandler) GetRoom(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid room ID"})
	}

	room, err := h.roomRepo.GetByID(tenantID, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
	}

	return c.JSON(http.StatusOK, room)
}

// CreateRoom adds a room to the catalog
// @Summary Create room
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body models.Room true "Room data"
// @Success 201 {object} models.Room
// @Router /rooms [post]
func (h *RoomHandler) CreateRoom(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	var room models.Room
	if err := c.Bind(&room); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := c.Validate(&room); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	room.TenantID = tenantID
	room.IsActive = true
	if err := h.roomRepo.Create(&room); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create room"})
	}

	return c.JSON(http.StatusCreated, room)
}

// UpdateRoom updates room fields
// @Summary Update room
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body models.Room true "Room data"
// @Success 200 {object} models.Room
// @Router /rooms/{id} [put]
func (h *RoomHandler) UpdateRoom(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid room ID"})
	}

	room, err := h.roomRepo.GetByID(tenantID, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
	}

	var req models.Room
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if req.Name != "" {
		room.Name = req.Name
	}
	if req.BuildingName != "" {
		room.BuildingName = req.BuildingName
	}
	if req.RoomNumber != "" {
		room.RoomNumber = req.RoomNumber
	}
	if req.Address != "" {
		room.Address = req.Address
	}
	if req.Rent > 0 {
		room.Rent = req.Rent
	}
	if req.Layout != "" {
		room.Layout = req.Layout
	}
	if req.FloorArea != "" {
		room.FloorArea = req.FloorArea
	}

	if err := h.roomRepo.Update(room); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update room"})
	}

	return c.JSON(http.StatusOK, room)
}

// DeleteRoom removes a room from the catalog
// @Summary Delete room
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /rooms/{id} [delete]
func (h *RoomHandler) DeleteRoom(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid room ID"})
	}

	if err := h.roomRepo.Delete(id, tenantID); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "room not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "room deleted"})
}
