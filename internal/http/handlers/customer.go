package handlers

import (
	"net/http"
	"strconv"

	"chintai/internal/repo"
	"chintai/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CustomerHandler handles customer CRUD requests
type CustomerHandler struct {
	customerRepo *repo.CustomerRepository
	activityRepo *repo.ActivityRepository
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerRepo *repo.CustomerRepository, activityRepo *repo.ActivityRepository) *CustomerHandler {
	return &CustomerHandler{customerRepo: customerRepo, activityRepo: activityRepo}
}

// GetCustomers lists customers for the tenant
// @Summary List customers
// @Tags customers
// @Produce json
// @Param limit query int false "Items per page" default(20)
// @Param offset query int false "Offset" default(0)
// @Param search query string false "Search by name, email or phone"
// @Success 200 {object} models.PaginationResult[models.Customer]
// @Router /customers [get]
func (h *CustomerHandler) GetCustomers(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	limit, offset := paginationParams(c)
	search := c.QueryParam("search")

	var result *models.PaginationResult[models.Customer]
	var err error
	if search != "" {
		result, err = h.customerRepo.ListWithSearch(tenantID, limit, offset, search)
	} else {
		result, err = h.customerRepo.List(tenantID, limit, offset)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch customers"})
	}

	return c.JSON(http.StatusOK, result)
}

// GetCustomer fetches a single customer
// @Summary Get customer by ID
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 404 {object} map[string]string
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid customer ID"})
	}

	customer, err := h.customerRepo.GetByID(tenantID, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "customer not found"})
	}

	return c.JSON(http.StatusOK, customer)
}

// CreateCustomer registers a customer manually
// @Summary Create customer
// @Tags customers
// @Accept json
// @Produce json
// @Param request body models.Customer true "Customer data"
// @Success 201 {object} models.Customer
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	var customer models.Customer
	if err := c.Bind(&customer); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if customer.Email == "" && customer.Phone == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "email or phone is required"})
	}

	customer.TenantID = tenantID
	customer.IsActive = true
	if err := h.customerRepo.Create(&customer); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create customer"})
	}

	return c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer updates customer fields
// @Summary Update customer
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body models.Customer true "Customer data"
// @Success 200 {object} models.Customer
// @Router /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid customer ID"})
	}

	customer, err := h.customerRepo.GetByID(tenantID, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "customer not found"})
	}

	var req models.Customer
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if req.Name != "" {
		customer.Name = req.Name
	}
	if req.Email != "" {
		customer.Email = req.Email
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.LineUserID != "" {
		customer.LineUserID = req.LineUserID
	}
	if req.Notes != "" {
		customer.Notes = req.Notes
	}

	if err := h.customerRepo.Update(customer); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update customer"})
	}

	return c.JSON(http.StatusOK, customer)
}

// GetCustomerActivities lists a customer's activity history
// @Summary List customer activities
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {array} models.CustomerActivity
// @Router /customers/{id}/activities [get]
func (h *CustomerHandler) GetCustomerActivities(c echo.Context) error {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return unauthorizedTenant(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid customer ID"})
	}

	if _, err := h.customerRepo.GetByID(tenantID, id); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "customer not found"})
	}

	limit, offset := paginationParams(c)
	activities, err := h.activityRepo.ListByCustomer(tenantID, id, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch activities"})
	}

	return c.JSON(http.StatusOK, activities)
}

// paginationParams reads limit and offset query params with sane defaults
func paginationParams(c echo.Context) (int, int) {
	limit := 20
	offset := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
