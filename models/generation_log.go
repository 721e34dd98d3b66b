package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TriggerType string

const (
	TriggerManual    TriggerType = "manual"
	TriggerAutomatic TriggerType = "automatic"
)

// GenerationDetails is the structured audit payload of one generator run.
// Stored as a JSON column instead of an opaque pre-serialized string so the
// read path never has to unmarshal by hand.
type GenerationDetails struct {
	StudentIDs          []string `json:"studentIds"`
	Errors              []string `json:"errors"`
	TotalActiveStudents int      `json:"totalActiveStudents"`
	AlreadyHadCharges   int      `json:"alreadyHadCharges"`
}

// ChargeGenerationLog records one invocation of the recurrence generator,
// including runs that created nothing. Rows are immutable once written.
type ChargeGenerationLog struct {
	ID             string            `json:"id" gorm:"type:uuid;primaryKey"`
	ExecutedAt     time.Time         `json:"executedAt" gorm:"not null;index"`
	TriggerType    TriggerType       `json:"triggerType" gorm:"not null"`
	ChargesCreated int               `json:"chargesCreated" gorm:"not null"`
	TargetMonth    string            `json:"targetMonth" gorm:"size:7;not null"`
	ExecutedBy     string            `json:"executedBy"`
	Details        GenerationDetails `json:"details" gorm:"serializer:json"`
}

func (l *ChargeGenerationLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.ExecutedAt.IsZero() {
		l.ExecutedAt = time.Now()
	}
	return nil
}
