package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table of the billing schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Campus{},
		&Student{},
		&Guardian{},
		&StudentGuardian{},
		&Charge{},
		&ChargeGenerationLog{},
		&SystemSetting{},
	)
}
