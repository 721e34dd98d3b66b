package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ChargeStatus string

const (
	ChargePending   ChargeStatus = "pending"
	ChargePaid      ChargeStatus = "paid"
	ChargeOverdue   ChargeStatus = "overdue"
	ChargeCancelled ChargeStatus = "cancelled"
)

// ValidChargeStatus reports whether s is one of the four known states.
func ValidChargeStatus(s ChargeStatus) bool {
	switch s {
	case ChargePending, ChargePaid, ChargeOverdue, ChargeCancelled:
		return true
	}
	return false
}

// Charge is one billing obligation for one student and one due date.
//
// Amount is a snapshot of the student's monthly fee at generation time, not a
// live reference. The PIX triple is derived once at creation and never
// updated. DueMonth ("YYYY-MM") is derived from DueDate at creation; the
// composite unique index on (student_id, due_month) is what makes concurrent
// generation runs for the same month safe.
type Charge struct {
	ID             string           `json:"id" gorm:"type:uuid;primaryKey"`
	StudentID      string           `json:"studentId" gorm:"type:uuid;not null;uniqueIndex:idx_charges_student_month"`
	StudentName    string           `json:"studentName" gorm:"not null;index"`
	CampusName     string           `json:"campusName" gorm:"not null;index"`
	Amount         decimal.Decimal  `json:"amount" gorm:"type:numeric(10,2);not null"`
	DueDate        time.Time        `json:"dueDate" gorm:"not null;index"`
	DueMonth       string           `json:"dueMonth" gorm:"size:7;not null;uniqueIndex:idx_charges_student_month"`
	Status         ChargeStatus     `json:"status" gorm:"not null;default:pending;index"`
	PixQrCode      string           `json:"pixQrCode" gorm:"not null"`
	PixCopyPaste   string           `json:"pixCopyPaste" gorm:"not null"`
	PixPaymentLink string           `json:"pixPaymentLink" gorm:"not null"`
	PaidAt         *time.Time       `json:"paidAt"`
	PaidAmount     *decimal.Decimal `json:"paidAmount" gorm:"type:numeric(10,2)"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

func (c *Charge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = ChargePending
	}
	if c.DueMonth == "" {
		c.DueMonth = c.DueDate.Format("2006-01")
	}
	return nil
}
