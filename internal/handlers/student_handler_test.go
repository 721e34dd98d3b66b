package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/everton-web/BPay/models"
)

func seedCampus(t *testing.T, db *gorm.DB, name string) models.Campus {
	t.Helper()
	campus := models.Campus{Name: name, City: "Salvador", Neighborhood: name}
	if err := db.Create(&campus).Error; err != nil {
		t.Fatalf("seeding campus: %v", err)
	}
	return campus
}

func TestCreateStudent(t *testing.T) {
	t.Run("with inline guardian", func(t *testing.T) {
		db, app := newTestApp(t)
		campus := seedCampus(t, db, "Bonfim")

		w := doJSON(t, app, http.MethodPost, "/api/students", map[string]any{
			"name":       "Ana Clara Souza",
			"email":      "ana@example.com",
			"phone":      "(71) 99876-1001",
			"campusId":   campus.ID,
			"campusName": campus.Name,
			"monthlyFee": "899.00",
			"dueDay":     5,
			"guardian": map[string]string{
				"name":         "Fernanda Souza",
				"relationship": "mãe",
				"cpf":          "529.982.247-25",
				"phone":        "(71) 98765-2001",
				"email":        "fernanda@example.com",
			},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		student := decodeBody[models.Student](t, w)
		if student.Status != models.StudentActive {
			t.Errorf("status = %s, want active default", student.Status)
		}
		if !student.MonthlyFee.Equal(decimal.RequireFromString("899.00")) {
			t.Errorf("monthlyFee = %s, want 899.00", student.MonthlyFee)
		}

		var guardian models.Guardian
		if err := db.First(&guardian, "cpf = ?", "52998224725").Error; err != nil {
			t.Fatalf("guardian not created with normalized CPF: %v", err)
		}
		var link models.StudentGuardian
		if err := db.First(&link, "student_id = ? AND guardian_id = ?", student.ID, guardian.ID).Error; err != nil {
			t.Fatalf("guardian link missing: %v", err)
		}
		if link.Relationship != "mãe" {
			t.Errorf("relationship = %q", link.Relationship)
		}
	})

	t.Run("reuses guardian with known CPF", func(t *testing.T) {
		db, app := newTestApp(t)
		campus := seedCampus(t, db, "Bonfim")
		existing := models.Guardian{Name: "Fernanda Souza", CPF: "52998224725", Email: "f@example.com", Phone: "(71) 98765-2001"}
		if err := db.Create(&existing).Error; err != nil {
			t.Fatalf("seeding guardian: %v", err)
		}

		w := doJSON(t, app, http.MethodPost, "/api/students", map[string]any{
			"name":       "Pedro Henrique Lima",
			"email":      "pedro@example.com",
			"phone":      "(71) 99876-1002",
			"campusId":   campus.ID,
			"campusName": campus.Name,
			"monthlyFee": "450.00",
			"dueDay":     10,
			"guardian": map[string]string{
				"name":         "Fernanda Souza",
				"relationship": "mãe",
				"cpf":          "52998224725",
				"phone":        "(71) 98765-2001",
				"email":        "f@example.com",
			},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var count int64
		if err := db.Model(&models.Guardian{}).Count(&count).Error; err != nil {
			t.Fatalf("counting guardians: %v", err)
		}
		if count != 1 {
			t.Errorf("guardian count = %d, want 1 (existing row reused)", count)
		}
	})

	t.Run("rejects out-of-range due day", func(t *testing.T) {
		db, app := newTestApp(t)
		campus := seedCampus(t, db, "Bonfim")
		w := doJSON(t, app, http.MethodPost, "/api/students", map[string]any{
			"name":       "Ana",
			"email":      "ana@example.com",
			"phone":      "(71) 99876-1001",
			"campusId":   campus.ID,
			"campusName": campus.Name,
			"monthlyFee": "899.00",
			"dueDay":     32,
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestUpdateStudent(t *testing.T) {
	db, app := newTestApp(t)
	campus := seedCampus(t, db, "Bonfim")
	student := models.Student{
		Name: "Ana", Email: "ana@example.com", Phone: "(71) 99876-1001",
		CampusID: campus.ID, CampusName: campus.Name,
		MonthlyFee: decimal.RequireFromString("899.00"), DueDay: 5,
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("seeding student: %v", err)
	}

	t.Run("campus fields must change together", func(t *testing.T) {
		w := doJSON(t, app, http.MethodPatch, "/api/students/"+student.ID, map[string]any{
			"campusId": campus.ID,
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("partial update", func(t *testing.T) {
		w := doJSON(t, app, http.MethodPatch, "/api/students/"+student.ID, map[string]any{
			"monthlyFee": "1099.00",
			"status":     "inactive",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		got := decodeBody[models.Student](t, w)
		if !got.MonthlyFee.Equal(decimal.RequireFromString("1099.00")) {
			t.Errorf("monthlyFee = %s, want 1099.00", got.MonthlyFee)
		}
		if got.Status != models.StudentInactive {
			t.Errorf("status = %s, want inactive", got.Status)
		}
		if got.Name != "Ana" {
			t.Errorf("untouched field changed: name = %q", got.Name)
		}
	})
}

func TestBulkDeleteCascades(t *testing.T) {
	db, app := newTestApp(t)
	campus := seedCampus(t, db, "Bonfim")
	student := models.Student{
		Name: "Ana", Email: "ana@example.com", Phone: "(71) 99876-1001",
		CampusID: campus.ID, CampusName: campus.Name,
		MonthlyFee: decimal.RequireFromString("899.00"), DueDay: 5,
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("seeding student: %v", err)
	}
	charge := models.Charge{
		StudentID: student.ID, StudentName: student.Name, CampusName: campus.Name,
		Amount:  decimal.RequireFromString("899.00"),
		DueDate: time.Date(2025, 3, 5, 0, 0, 0, 0, time.Local),
		Status:  models.ChargePending, PixQrCode: "qr", PixCopyPaste: "qr", PixPaymentLink: "link",
	}
	if err := db.Create(&charge).Error; err != nil {
		t.Fatalf("seeding charge: %v", err)
	}
	guardian := models.Guardian{Name: "Fernanda", CPF: "52998224725", Email: "f@example.com", Phone: "(71) 98765-2001"}
	if err := db.Create(&guardian).Error; err != nil {
		t.Fatalf("seeding guardian: %v", err)
	}
	link := models.StudentGuardian{StudentID: student.ID, GuardianID: guardian.ID, Relationship: "mãe"}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("seeding link: %v", err)
	}

	w := doJSON(t, app, http.MethodPost, "/api/students/bulk-delete", map[string]any{"ids": []string{student.ID}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	for _, probe := range []struct {
		name  string
		model any
	}{
		{"student", &models.Student{}},
		{"charge", &models.Charge{}},
		{"link", &models.StudentGuardian{}},
	} {
		var n int64
		if err := db.Model(probe.model).Count(&n).Error; err != nil {
			t.Fatalf("counting %s: %v", probe.name, err)
		}
		if n != 0 {
			t.Errorf("%s rows remaining = %d, want 0", probe.name, n)
		}
	}

	// The guardian itself survives the cascade.
	var guardians int64
	if err := db.Model(&models.Guardian{}).Count(&guardians).Error; err != nil {
		t.Fatalf("counting guardians: %v", err)
	}
	if guardians != 1 {
		t.Errorf("guardian count = %d, want 1", guardians)
	}
}

func TestListStudentsPagination(t *testing.T) {
	db, app := newTestApp(t)
	campus := seedCampus(t, db, "Bonfim")
	for _, name := range []string{"Ana", "Beatriz", "Carlos"} {
		s := models.Student{
			Name: name, Email: name + "@example.com", Phone: "(71) 99876-1001",
			CampusID: campus.ID, CampusName: campus.Name,
			MonthlyFee: decimal.RequireFromString("899.00"), DueDay: 5,
		}
		if err := db.Create(&s).Error; err != nil {
			t.Fatalf("seeding student %s: %v", name, err)
		}
	}

	w := doJSON(t, app, http.MethodGet, "/api/students?page=1&pageSize=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody[map[string]any](t, w)
	if body["totalRows"].(float64) != 3 {
		t.Errorf("totalRows = %v, want 3", body["totalRows"])
	}
	if body["totalPages"].(float64) != 2 {
		t.Errorf("totalPages = %v, want 2", body["totalPages"])
	}
	if n := len(body["data"].([]any)); n != 2 {
		t.Errorf("page size = %d, want 2", n)
	}
}
