package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/everton-web/BPay/models"
)

var (
	ErrChargeNotFound    = errors.New("charge not found")
	ErrInvalidTransition = errors.New("invalid charge status transition")
)

// allowedTransitions encodes the charge lifecycle. Cancelled is terminal;
// paid can be corrected back to any non-paid state, which clears the payment
// fields.
var allowedTransitions = map[models.ChargeStatus][]models.ChargeStatus{
	models.ChargePending:   {models.ChargePaid, models.ChargeOverdue, models.ChargeCancelled},
	models.ChargeOverdue:   {models.ChargePaid, models.ChargeCancelled},
	models.ChargePaid:      {models.ChargePending, models.ChargeOverdue, models.ChargeCancelled},
	models.ChargeCancelled: {},
}

func transitionAllowed(from, to models.ChargeStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionCharge moves a charge to a new status.
//
// Transitions into paid require payment data: paidAmount defaults to the
// charge's original amount and paidAt to now when not supplied. Transitions
// to any non-paid status clear both fields unconditionally so stale payment
// data never survives a reversal.
func (s *Service) TransitionCharge(ctx context.Context, id string, target models.ChargeStatus, paidAmount *decimal.Decimal, paidAt *time.Time) (*models.Charge, error) {
	var charge models.Charge
	if err := s.db.WithContext(ctx).First(&charge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChargeNotFound
		}
		return nil, fmt.Errorf("loading charge %s: %w", id, err)
	}

	if !transitionAllowed(charge.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, charge.Status, target)
	}

	charge.Status = target
	if target == models.ChargePaid {
		amount := charge.Amount
		if paidAmount != nil {
			amount = *paidAmount
		}
		when := time.Now()
		if paidAt != nil {
			when = *paidAt
		}
		charge.PaidAmount = &amount
		charge.PaidAt = &when
	} else {
		charge.PaidAmount = nil
		charge.PaidAt = nil
	}

	updates := map[string]interface{}{
		"status":      charge.Status,
		"paid_amount": charge.PaidAmount,
		"paid_at":     charge.PaidAt,
	}
	if err := s.db.WithContext(ctx).Model(&models.Charge{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("updating charge %s: %w", id, err)
	}

	return &charge, nil
}
