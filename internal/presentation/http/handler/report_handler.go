package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matconsys/matcon-api/internal/application/service"
	"github.com/matconsys/matcon-api/internal/presentation/http/dto/response"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Daily handles the daily report. Defaults to today when no date is given.
func (h *ReportHandler) Daily(c *gin.Context) {
	day := time.Now()
	if s := c.Query("date"); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			response.BadRequest(c, "Invalid date")
			return
		}
		day = parsed
	}

	report, err := h.reportService.DailyReport(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily report generated successfully", report)
}

// Period handles reports over an arbitrary period
func (h *ReportHandler) Period(c *gin.Context) {
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		response.BadRequest(c, "Query parameter 'from' must be a 2006-01-02 date")
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		response.BadRequest(c, "Query parameter 'to' must be a 2006-01-02 date")
		return
	}

	// The 'to' day is inclusive.
	report, err := h.reportService.PeriodReport(c.Request.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Period report generated successfully", report)
}
