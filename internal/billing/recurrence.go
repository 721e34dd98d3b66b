package billing

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/everton-web/BPay/models"
)

// Service owns the recurring charge generation engine and the charge status
// state machine. The store handle is injected so tests can run against an
// in-memory database.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GenerationResult is what one generator invocation reports back to callers.
type GenerationResult struct {
	ChargesCreated int                     `json:"chargesCreated"`
	TargetMonth    string                  `json:"targetMonth"`
	Details        GenerationResultDetails `json:"details"`
}

type GenerationResultDetails struct {
	StudentIDs []string `json:"studentIds"`
	Errors     []string `json:"errors"`
}

var targetMonthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ValidTargetMonth reports whether s is a parseable "YYYY-MM" month. Callers
// must reject bad input before invoking Generate.
func ValidTargetMonth(s string) bool {
	if !targetMonthRe.MatchString(s) {
		return false
	}
	_, err := time.ParseInLocation("2006-01", s, time.Local)
	return err == nil
}

// Generate creates one pending charge for every active student that does not
// yet have a charge due inside the target month, then writes exactly one
// generation log row summarizing the run.
//
// A student counts as covered by ANY charge with a due date in the month,
// whatever its status - a cancelled charge still blocks regeneration.
// Per-student computation failures are collected into the log's error list
// and never abort the batch; only store failures fail the whole invocation.
// The bulk insert runs with ON CONFLICT DO NOTHING on (student_id,
// due_month), so two concurrent runs for the same month cannot double-charge
// and ChargesCreated always reflects rows actually inserted.
func (s *Service) Generate(ctx context.Context, targetMonth string, trigger models.TriggerType, executedBy string) (*GenerationResult, error) {
	now := time.Now()
	year, month := now.Year(), now.Month()
	if targetMonth != "" {
		t, err := time.ParseInLocation("2006-01", targetMonth, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid target month %q: %w", targetMonth, err)
		}
		year, month = t.Year(), t.Month()
	}
	monthStr := fmt.Sprintf("%04d-%02d", year, int(month))

	startDate := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	endDate := time.Date(year, month+1, 0, 23, 59, 59, 0, time.Local)

	var activeStudents []models.Student
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.StudentActive).
		Find(&activeStudents).Error; err != nil {
		return nil, fmt.Errorf("loading active students: %w", err)
	}

	var coveredIDs []string
	if err := s.db.WithContext(ctx).Model(&models.Charge{}).
		Where("due_date BETWEEN ? AND ?", startDate, endDate).
		Distinct().
		Pluck("student_id", &coveredIDs).Error; err != nil {
		return nil, fmt.Errorf("loading existing charges: %w", err)
	}
	covered := make(map[string]bool, len(coveredIDs))
	for _, id := range coveredIDs {
		covered[id] = true
	}

	newCharges := make([]models.Charge, 0, len(activeStudents))
	studentIDs := []string{}
	errs := []string{}

	for _, student := range activeStudents {
		if covered[student.ID] {
			continue
		}

		if student.DueDay < 1 || student.DueDay > 31 {
			errs = append(errs, fmt.Sprintf("error processing student %s (%s): due day %d out of range", student.Name, student.ID, student.DueDay))
			continue
		}

		dueDate := calcDueDate(student.DueDay, year, month)
		pix := NewPixPayload(NewChargeToken(), student.MonthlyFee)

		newCharges = append(newCharges, models.Charge{
			StudentID:      student.ID,
			StudentName:    student.Name,
			CampusName:     student.CampusName,
			Amount:         student.MonthlyFee,
			DueDate:        dueDate,
			DueMonth:       monthStr,
			Status:         models.ChargePending,
			PixQrCode:      pix.QrCode,
			PixCopyPaste:   pix.CopyPaste,
			PixPaymentLink: pix.PaymentLink,
		})
		studentIDs = append(studentIDs, student.ID)
	}

	created := 0
	if len(newCharges) > 0 {
		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "due_month"}},
			DoNothing: true,
		}).Create(&newCharges)
		if res.Error != nil {
			return nil, fmt.Errorf("inserting charges: %w", res.Error)
		}
		created = int(res.RowsAffected)
	}

	logEntry := models.ChargeGenerationLog{
		TriggerType:    trigger,
		ChargesCreated: created,
		TargetMonth:    monthStr,
		ExecutedBy:     executedBy,
		Details: models.GenerationDetails{
			StudentIDs:          studentIDs,
			Errors:              errs,
			TotalActiveStudents: len(activeStudents),
			AlreadyHadCharges:   len(covered),
		},
	}
	if err := s.db.WithContext(ctx).Create(&logEntry).Error; err != nil {
		return nil, fmt.Errorf("writing generation log: %w", err)
	}

	slog.Info("recurring charge generation finished",
		"target_month", monthStr,
		"trigger", trigger,
		"created", created,
		"errors", len(errs))

	return &GenerationResult{
		ChargesCreated: created,
		TargetMonth:    monthStr,
		Details: GenerationResultDetails{
			StudentIDs: studentIDs,
			Errors:     errs,
		},
	}, nil
}

// calcDueDate clamps dueDay to the last calendar day of the month and
// returns that date at local midnight. Day 0 of the next month is the last
// day that exists in this one.
func calcDueDate(dueDay, year int, month time.Month) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
	day := dueDay
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// ListLogs returns generation log rows, most recent first.
func (s *Service) ListLogs(ctx context.Context, limit int) ([]models.ChargeGenerationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	logs := []models.ChargeGenerationLog{}
	if err := s.db.WithContext(ctx).
		Order("executed_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("loading generation logs: %w", err)
	}
	return logs, nil
}
