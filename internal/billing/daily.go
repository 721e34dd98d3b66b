package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/everton-web/BPay/models"
)

// CheckAndGenerateToday runs the automatic trigger: if at least one active
// student has a due day equal to today's day of month, it delegates to
// Generate for the current month. When nobody is due it returns nil without
// invoking the generator, so no log row is written - unlike the manual path,
// which always logs.
func (s *Service) CheckAndGenerateToday(ctx context.Context) (*GenerationResult, error) {
	today := time.Now().Day()

	var dueCount int64
	if err := s.db.WithContext(ctx).Model(&models.Student{}).
		Where("status = ? AND due_day = ?", models.StudentActive, today).
		Count(&dueCount).Error; err != nil {
		return nil, fmt.Errorf("counting students due today: %w", err)
	}
	if dueCount == 0 {
		return nil, nil
	}

	return s.Generate(ctx, "", models.TriggerAutomatic, "system")
}
