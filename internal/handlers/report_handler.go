package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"backoffice-service/internal/services"
	"backoffice-service/pkg/common"
)

type ReportHandler struct {
	Reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

// GetFeeDeductions reports handling fees for a date window. Defaults to
// the current month when from/to are omitted.
func (h *ReportHandler) GetFeeDeductions(c *gin.Context) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid from date", nil, http.StatusBadRequest))
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid to date", nil, http.StatusBadRequest))
			return
		}
		to = t
	}

	rows, err := h.Reports.FeeDeductions(from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rows, "Fee deductions fetched"))
}

func (h *ReportHandler) GetAgentMonthly(c *gin.Context) {
	agentId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid agent id", nil, http.StatusBadRequest))
		return
	}

	now := time.Now().UTC()
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid month", nil, http.StatusBadRequest))
		return
	}

	summary, err := h.Reports.AgentMonthly(agentId, year, time.Month(month))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error(), nil, http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(summary, "Agent summary fetched"))
}
