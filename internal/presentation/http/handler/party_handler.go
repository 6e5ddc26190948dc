package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/application/service"
	"github.com/matconsys/matcon-api/internal/presentation/http/dto/request"
	"github.com/matconsys/matcon-api/internal/presentation/http/dto/response"
	"github.com/matconsys/matcon-api/pkg/pagination"
)

// PartyHandler handles customer and supplier HTTP requests
type PartyHandler struct {
	customerService *service.CustomerService
}

// NewPartyHandler creates a new party handler
func NewPartyHandler(customerService *service.CustomerService) *PartyHandler {
	return &PartyHandler{customerService: customerService}
}

func partyInput(req *request.PartyRequest) *service.PartyInput {
	return &service.PartyInput{
		Name:        req.Name,
		Document:    req.Document,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		City:        req.City,
		ContactName: req.ContactName,
		Notes:       req.Notes,
	}
}

func updatePartyInput(req *request.UpdatePartyRequest) *service.PartyInput {
	return &service.PartyInput{
		Name:        req.Name,
		Document:    req.Document,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		City:        req.City,
		ContactName: req.ContactName,
		Notes:       req.Notes,
	}
}

func listParams(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}

// CreateCustomer handles creating a customer
func (h *PartyHandler) CreateCustomer(c *gin.Context) {
	var req request.PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), partyInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// GetCustomer handles fetching a customer by ID
func (h *PartyHandler) GetCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// UpdateCustomer handles updating a customer
func (h *PartyHandler) UpdateCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	var req request.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, updatePartyInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// DeleteCustomer handles deleting a customer
func (h *PartyHandler) DeleteCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListCustomers handles listing customers
func (h *PartyHandler) ListCustomers(c *gin.Context) {
	result, err := h.customerService.ListCustomers(c.Request.Context(), listParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// CreateSupplier handles creating a supplier
func (h *PartyHandler) CreateSupplier(c *gin.Context) {
	var req request.PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	supplier, err := h.customerService.CreateSupplier(c.Request.Context(), partyInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Supplier created successfully", supplier)
}

// GetSupplier handles fetching a supplier by ID
func (h *PartyHandler) GetSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	supplier, err := h.customerService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier retrieved successfully", supplier)
}

// UpdateSupplier handles updating a supplier
func (h *PartyHandler) UpdateSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	var req request.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	supplier, err := h.customerService.UpdateSupplier(c.Request.Context(), id, updatePartyInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier updated successfully", supplier)
}

// DeleteSupplier handles deleting a supplier
func (h *PartyHandler) DeleteSupplier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	if err := h.customerService.DeleteSupplier(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListSuppliers handles listing suppliers
func (h *PartyHandler) ListSuppliers(c *gin.Context) {
	result, err := h.customerService.ListSuppliers(c.Request.Context(), listParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Suppliers retrieved successfully", result)
}
