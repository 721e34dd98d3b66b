package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/everton-web/BPay/internal/billing"
	"github.com/everton-web/BPay/models"
)

type ChargeHandler struct {
	DB      *gorm.DB
	Billing *billing.Service
}

func NewChargeHandler(db *gorm.DB, svc *billing.Service) *ChargeHandler {
	return &ChargeHandler{DB: db, Billing: svc}
}

// chargeFilters applies the shared list/export query filters to q. A
// malformed date filter is an error: silently dropping it would return the
// full result set under the guise of a filtered one.
func chargeFilters(c *gin.Context, q *gorm.DB) (*gorm.DB, error) {
	if status := c.Query("status"); status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	if name := strings.TrimSpace(c.Query("studentName")); name != "" {
		q = q.Where("LOWER(student_name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if campus := strings.TrimSpace(c.Query("campusName")); campus != "" {
		q = q.Where("LOWER(campus_name) LIKE ?", "%"+strings.ToLower(campus)+"%")
	}
	if start := c.Query("startDate"); start != "" {
		t, err := time.ParseInLocation("2006-01-02", start, time.Local)
		if err != nil {
			return nil, fmt.Errorf("startDate must be YYYY-MM-DD")
		}
		q = q.Where("due_date >= ?", t)
	}
	if end := c.Query("endDate"); end != "" {
		t, err := time.ParseInLocation("2006-01-02", end, time.Local)
		if err != nil {
			return nil, fmt.Errorf("endDate must be YYYY-MM-DD")
		}
		q = q.Where("due_date <= ?", t.Add(24*time.Hour-time.Second))
	}
	return q, nil
}

func (h *ChargeHandler) List(c *gin.Context) {
	charges := []models.Charge{}
	q, err := chargeFilters(c, h.DB.Model(&models.Charge{}))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := q.Order("due_date").Find(&charges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch charges"})
		return
	}
	c.JSON(http.StatusOK, charges)
}

func (h *ChargeHandler) Get(c *gin.Context) {
	var charge models.Charge
	if err := h.DB.First(&charge, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "charge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch charge"})
		return
	}
	c.JSON(http.StatusOK, charge)
}

type createChargeRequest struct {
	StudentID   string `json:"studentId" binding:"required,uuid"`
	StudentName string `json:"studentName" binding:"required"`
	CampusName  string `json:"campusName" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	DueDate     string `json:"dueDate" binding:"required"`
	Status      string `json:"status" binding:"omitempty,oneof=pending paid overdue cancelled"`
}

// Create inserts a manual charge. The PIX triple is synthesized here, like
// the generator does, and the (student, month) unique index rejects a second
// charge for an already-covered month.
func (h *ChargeHandler) Create(c *gin.Context) {
	var req createChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}

	amount, err := parseMoney(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a decimal value like 450.00"})
		return
	}

	dueDate, err := time.ParseInLocation("2006-01-02", req.DueDate, time.Local)
	if err != nil {
		dueDate, err = time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dueDate must be YYYY-MM-DD or RFC 3339"})
			return
		}
	}

	pix := billing.NewPixPayload(billing.NewChargeToken(), amount)
	charge := models.Charge{
		StudentID:      req.StudentID,
		StudentName:    req.StudentName,
		CampusName:     req.CampusName,
		Amount:         amount,
		DueDate:        dueDate,
		Status:         models.ChargeStatus(req.Status),
		PixQrCode:      pix.QrCode,
		PixCopyPaste:   pix.CopyPaste,
		PixPaymentLink: pix.PaymentLink,
	}
	// A charge created directly as paid gets the same defaults a status
	// transition into paid applies; paid rows never carry a null paidAt.
	if charge.Status == models.ChargePaid {
		now := time.Now()
		charge.PaidAmount = &amount
		charge.PaidAt = &now
	}

	if err := h.DB.Create(&charge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "student already has a charge for this month"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create charge"})
		return
	}
	c.JSON(http.StatusCreated, charge)
}

type updateStatusRequest struct {
	Status     string  `json:"status" binding:"required,oneof=pending paid overdue cancelled"`
	PaidAmount *string `json:"paidAmount"`
	PaidAt     *string `json:"paidAt"`
}

// UpdateStatus drives the charge state machine.
func (h *ChargeHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error", "details": err.Error()})
		return
	}

	var paidAmount *decimal.Decimal
	if req.PaidAmount != nil {
		amount, err := parseMoney(*req.PaidAmount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "paidAmount must be a decimal value like 450.00"})
			return
		}
		paidAmount = &amount
	}

	var paidAt *time.Time
	if req.PaidAt != nil {
		t, err := time.Parse(time.RFC3339, *req.PaidAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "paidAt must be RFC 3339"})
			return
		}
		paidAt = &t
	}

	charge, err := h.Billing.TransitionCharge(c.Request.Context(), c.Param("id"), models.ChargeStatus(req.Status), paidAmount, paidAt)
	switch {
	case errors.Is(err, billing.ErrChargeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "charge not found"})
	case errors.Is(err, billing.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update charge status"})
	default:
		c.JSON(http.StatusOK, charge)
	}
}

type webhookRequest struct {
	ChargeID string `json:"chargeId" binding:"required"`
}

// PaymentWebhook simulates the PIX payment confirmation callback: it marks
// the charge paid with the default payment data.
func (h *ChargeHandler) PaymentWebhook(c *gin.Context) {
	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chargeId is required"})
		return
	}

	var charge models.Charge
	if err := h.DB.First(&charge, "id = ?", req.ChargeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "charge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch charge"})
		return
	}
	if charge.Status == models.ChargePaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "charge already paid"})
		return
	}

	updated, err := h.Billing.TransitionCharge(c.Request.Context(), charge.ID, models.ChargePaid, nil, nil)
	switch {
	case errors.Is(err, billing.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process payment"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "payment confirmed",
			"charge":  updated,
		})
	}
}
