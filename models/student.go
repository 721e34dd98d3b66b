package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StudentStatus string

const (
	StudentActive   StudentStatus = "active"
	StudentInactive StudentStatus = "inactive"
)

// Student represents an enrolled student. MonthlyFee and DueDay drive the
// recurring charge generation; DueDay is stored as entered (1-31) and only
// clamped to the length of the month it is applied to.
type Student struct {
	ID         string          `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string          `json:"name" gorm:"not null"`
	Email      string          `json:"email" gorm:"not null"`
	Phone      string          `json:"phone" gorm:"not null"`
	CampusID   string          `json:"campusId" gorm:"type:uuid;not null;index"`
	CampusName string          `json:"campusName" gorm:"not null"`
	MonthlyFee decimal.Decimal `json:"monthlyFee" gorm:"type:numeric(10,2);not null"`
	DueDay     int             `json:"dueDay" gorm:"not null"`
	Status     StudentStatus   `json:"status" gorm:"not null;default:active;index"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = StudentActive
	}
	return nil
}
