package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/application/service"
	"github.com/matconsys/matcon-api/internal/domain/enum"
	"github.com/matconsys/matcon-api/internal/presentation/http/dto/request"
	"github.com/matconsys/matcon-api/internal/presentation/http/dto/response"
	"github.com/matconsys/matcon-api/pkg/money"
	"github.com/matconsys/matcon-api/pkg/pagination"
)

// CashHandler handles cash session HTTP requests
type CashHandler struct {
	cashService *service.CashService
}

// NewCashHandler creates a new cash handler
func NewCashHandler(cashService *service.CashService) *CashHandler {
	return &CashHandler{cashService: cashService}
}

// Open handles opening the cash register
func (h *CashHandler) Open(c *gin.Context) {
	var req request.OpenRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.cashService.OpenRegister(c.Request.Context(), &service.OpenRegisterInput{
		OpeningAmount: money.ToCents(req.OpeningAmount),
		Operator:      req.Operator,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Cash session opened successfully", session)
}

// RecordMovement handles recording a movement on a session
func (h *CashHandler) RecordMovement(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	var req request.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.cashService.RecordMovement(c.Request.Context(), sessionID, &service.RecordMovementInput{
		Kind:          enum.EntryKind(req.Kind),
		Amount:        money.ToCents(req.Amount),
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Movement recorded successfully", entry)
}

// Close handles closing the cash register
func (h *CashHandler) Close(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	var req request.CloseRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.cashService.CloseRegister(c.Request.Context(), sessionID, &service.CloseRegisterInput{
		CountedAmount: money.ToCents(req.CountedAmount),
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash session closed successfully", session)
}

// GetCurrent handles fetching the open session with its derived balance
func (h *CashHandler) GetCurrent(c *gin.Context) {
	session, err := h.cashService.GetOpenSession(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	balance := service.ComputeExpectedBalance(session.Entries)
	response.OK(c, "Open cash session retrieved successfully", gin.H{
		"session":          session,
		"expected_balance": money.FromCents(balance),
	})
}

// Get handles fetching a session by ID
func (h *CashHandler) Get(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.cashService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cash session retrieved successfully", session)
}

// ListEntries handles listing a session's ledger entries
func (h *CashHandler) ListEntries(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	entries, err := h.cashService.ListEntries(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger entries retrieved successfully", entries)
}

// List handles listing sessions with optional date bounds
func (h *CashHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			from = &t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			to = &t
		}
	}

	result, err := h.cashService.ListSessions(c.Request.Context(), params, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Cash sessions retrieved successfully", result)
}
