package handler

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/application/service"
	"github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/internal/presentation/http/dto/request"
	"github.com/matconsys/matcon-api/internal/presentation/http/dto/response"
	"github.com/matconsys/matcon-api/pkg/money"
	"github.com/matconsys/matcon-api/pkg/pagination"
)

// ReceivableHandler handles receivable HTTP requests
type ReceivableHandler struct {
	receivableService *service.ReceivableService
	importService     *service.ImportService
}

// NewReceivableHandler creates a new receivable handler
func NewReceivableHandler(receivableService *service.ReceivableService, importService *service.ImportService) *ReceivableHandler {
	return &ReceivableHandler{
		receivableService: receivableService,
		importService:     importService,
	}
}

const dateLayout = "2006-01-02"

// Create handles creating a receivable
func (h *ReceivableHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateReceivableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		response.BadRequest(c, "Invalid due date")
		return
	}

	receivable, err := h.receivableService.CreateReceivable(c.Request.Context(), &service.CreateReceivableInput{
		UserID:      *userID,
		Description: req.Description,
		Customer:    req.Customer,
		Value:       money.ToCents(req.Value),
		DueDate:     dueDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receivable created successfully", receivable)
}

// Get handles fetching a receivable by ID
func (h *ReceivableHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receivable ID")
		return
	}

	receivable, err := h.receivableService.GetReceivable(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receivable retrieved successfully", receivable)
}

// Update handles updating a pending receivable
func (h *ReceivableHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receivable ID")
		return
	}

	var req request.UpdateReceivableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdateReceivableInput{
		Description: req.Description,
		Customer:    req.Customer,
	}
	if req.Value != nil {
		cents := money.ToCents(*req.Value)
		input.Value = &cents
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			response.BadRequest(c, "Invalid due date")
			return
		}
		input.DueDate = &dueDate
	}

	receivable, err := h.receivableService.UpdateReceivable(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receivable updated successfully", receivable)
}

// Delete handles deleting a pending receivable
func (h *ReceivableHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid receivable ID")
		return
	}

	if err := h.receivableService.DeleteReceivable(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// List handles listing receivables with filters
func (h *ReceivableHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	filter := buildReceivableFilter(c)
	result, err := h.receivableService.ListReceivables(c.Request.Context(), params, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Receivables retrieved successfully", result)
}

// Settle handles settling one or more receivables
func (h *ReceivableHandler) Settle(c *gin.Context) {
	var req request.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.SettleInput{
		PaymentMethod:       req.PaymentMethod,
		AggregateDiscount:   money.ToCents(req.AggregateDiscount),
		DistributeAggregate: req.DistributeAggregate,
	}
	if req.PaymentDate != nil {
		paymentDate, err := time.Parse(dateLayout, *req.PaymentDate)
		if err != nil {
			response.BadRequest(c, "Invalid payment date")
			return
		}
		input.PaymentDate = &paymentDate
	}
	for _, item := range req.Items {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			response.BadRequest(c, "Invalid receivable ID: "+item.ID)
			return
		}
		input.Items = append(input.Items, service.SettleItemInput{
			ID:       id,
			Discount: money.ToCents(item.Discount),
			Addition: money.ToCents(item.Addition),
		})
	}

	result, err := h.receivableService.Settle(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Partial success still returns 200; per-item outcomes carry the detail.
	response.OK(c, "Settlement processed", result)
}

// Import handles importing receivables from an uploaded CSV or XLSX file.
// The format is picked from the uploaded file's extension.
func (h *ReceivableHandler) Import(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "A CSV or XLSX file upload named 'file' is required")
		return
	}
	defer file.Close()

	var result *service.ImportResult
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx", ".xlsm":
		result, err = h.importService.ImportReceivablesXLSX(c.Request.Context(), *userID, file)
	default:
		result, err = h.importService.ImportReceivablesCSV(c.Request.Context(), *userID, file)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Import processed", result)
}

// ExportCSV handles exporting receivables as CSV
func (h *ReceivableHandler) ExportCSV(c *gin.Context) {
	filter := buildReceivableFilter(c)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="recebimentos.csv"`)
	if err := h.importService.ExportReceivablesCSV(c.Request.Context(), filter, c.Writer); err != nil {
		response.Error(c, err)
		return
	}
}

// ExportXLSX handles exporting receivables as an XLSX workbook
func (h *ReceivableHandler) ExportXLSX(c *gin.Context) {
	filter := buildReceivableFilter(c)

	data, err := h.importService.ExportReceivablesXLSX(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="recebimentos.xlsx"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func buildReceivableFilter(c *gin.Context) *repository.ReceivableFilter {
	filter := &repository.ReceivableFilter{
		Status:   c.Query("status"),
		Customer: c.Query("customer"),
		Overdue:  c.Query("overdue") == "true",
		Today:    time.Now(),
	}
	if s := c.Query("from"); s != "" {
		if t, err := time.Parse(dateLayout, s); err == nil {
			filter.From = &t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse(dateLayout, s); err == nil {
			filter.To = &t
		}
	}
	return filter
}
