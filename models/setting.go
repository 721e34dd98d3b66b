package models

import "time"

// SystemSetting is a key/value row for admin-tunable configuration.
type SystemSetting struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Value     string    `json:"value" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt"`
}
