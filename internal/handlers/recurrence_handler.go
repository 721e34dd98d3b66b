package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/everton-web/BPay/internal/billing"
	"github.com/everton-web/BPay/models"
)

type RecurrenceHandler struct {
	Billing *billing.Service
}

func NewRecurrenceHandler(svc *billing.Service) *RecurrenceHandler {
	return &RecurrenceHandler{Billing: svc}
}

type generateRequest struct {
	TargetMonth string `json:"targetMonth" binding:"required"`
}

// Generate runs the manual trigger for one target month. Format is validated
// here; the generator itself never sees malformed input.
func (h *RecurrenceHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}
	if !billing.ValidTargetMonth(req.TargetMonth) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetMonth format must be YYYY-MM"})
		return
	}

	result, err := h.Billing.Generate(c.Request.Context(), req.TargetMonth, models.TriggerManual, "admin")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate recurring charges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("%d charges generated for %s", result.ChargesCreated, result.TargetMonth),
		"data":    result,
	})
}

// Logs returns the generation audit history, most recent first.
func (h *RecurrenceHandler) Logs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit > 200 {
		limit = 200
	}

	logs, err := h.Billing.ListLogs(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch generation logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}
