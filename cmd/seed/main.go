package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/everton-web/BPay/config"
	"github.com/everton-web/BPay/models"
)

// Seeds the database with the demo dataset: two campuses, a handful of
// students with guardians, and the default system settings. Existing rows
// are wiped first, so never point this at a production database.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using process environment")
	}

	db := config.ConnectDB()
	if err := models.AutoMigrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	if err := db.Transaction(seed); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seed completed")
}

func seed(tx *gorm.DB) error {
	// Wipe in FK order.
	for _, model := range []any{
		&models.Charge{},
		&models.ChargeGenerationLog{},
		&models.StudentGuardian{},
		&models.Student{},
		&models.Guardian{},
		&models.Campus{},
		&models.SystemSetting{},
	} {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}

	bonfim := models.Campus{Name: "Bonfim", City: "Salvador", Neighborhood: "Bonfim"}
	villas := models.Campus{Name: "Villas do Atlântico", City: "Lauro de Freitas", Neighborhood: "Vilas do Atlântico"}
	if err := tx.Create(&bonfim).Error; err != nil {
		return err
	}
	if err := tx.Create(&villas).Error; err != nil {
		return err
	}

	fee := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	students := []models.Student{
		{Name: "Ana Clara Souza", Email: "ana.souza@example.com", Phone: "(71) 99876-1001", CampusID: bonfim.ID, CampusName: bonfim.Name, MonthlyFee: fee("899.00"), DueDay: 5},
		{Name: "Pedro Henrique Lima", Email: "pedro.lima@example.com", Phone: "(71) 99876-1002", CampusID: bonfim.ID, CampusName: bonfim.Name, MonthlyFee: fee("899.00"), DueDay: 10},
		{Name: "Maria Eduarda Santos", Email: "duda.santos@example.com", Phone: "(71) 99876-1003", CampusID: bonfim.ID, CampusName: bonfim.Name, MonthlyFee: fee("1099.00"), DueDay: 15},
		{Name: "João Gabriel Ferreira", Email: "joao.ferreira@example.com", Phone: "(71) 99876-1004", CampusID: villas.ID, CampusName: villas.Name, MonthlyFee: fee("1099.00"), DueDay: 20},
		{Name: "Beatriz Oliveira Costa", Email: "bia.costa@example.com", Phone: "(71) 99876-1005", CampusID: villas.ID, CampusName: villas.Name, MonthlyFee: fee("1250.00"), DueDay: 31},
		{Name: "Lucas Almeida Rocha", Email: "lucas.rocha@example.com", Phone: "(71) 99876-1006", CampusID: villas.ID, CampusName: villas.Name, MonthlyFee: fee("899.00"), DueDay: 5, Status: models.StudentInactive},
	}
	if err := tx.Create(&students).Error; err != nil {
		return err
	}

	guardians := []models.Guardian{
		{Name: "Fernanda Souza", CPF: "52998224725", Email: "fernanda.souza@example.com", Phone: "(71) 98765-2001"},
		{Name: "Carlos Lima", CPF: "11144477735", Email: "carlos.lima@example.com", Phone: "(71) 98765-2002"},
		{Name: "Patrícia Santos", CPF: "12345678909", Email: "patricia.santos@example.com", Phone: "(71) 98765-2003"},
		{Name: "Roberto Ferreira", CPF: "93541134780", Email: "roberto.ferreira@example.com", Phone: "(71) 98765-2004"},
	}
	if err := tx.Create(&guardians).Error; err != nil {
		return err
	}

	links := []models.StudentGuardian{
		{StudentID: students[0].ID, GuardianID: guardians[0].ID, Relationship: "mãe"},
		{StudentID: students[1].ID, GuardianID: guardians[1].ID, Relationship: "pai"},
		{StudentID: students[2].ID, GuardianID: guardians[2].ID, Relationship: "mãe"},
		{StudentID: students[3].ID, GuardianID: guardians[3].ID, Relationship: "pai"},
		{StudentID: students[4].ID, GuardianID: guardians[3].ID, Relationship: "pai"},
	}
	if err := tx.Create(&links).Error; err != nil {
		return err
	}

	settings := []models.SystemSetting{
		{Key: "company_name", Value: "BPay Pagamentos"},
		{Key: "pix_key_type", Value: "random"},
		{Key: "notification_days_before", Value: "3"},
	}
	return tx.Create(&settings).Error
}
