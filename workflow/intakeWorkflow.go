package workflow

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/models"
)

const (
	StandardHoldDays = 14
	ExtendedHoldDays = 30
)

// HoldExpiry computes the hold expiration from the operator's choice. The
// result is stored once at completion time and never recomputed.
func HoldExpiry(choice models.HoldChoice, customDate *time.Time, now time.Time) (time.Time, error) {
	switch choice {
	case models.HoldChoiceStandard:
		return now.AddDate(0, 0, StandardHoldDays), nil
	case models.HoldChoiceExtended:
		return now.AddDate(0, 0, ExtendedHoldDays), nil
	case models.HoldChoiceImmediate:
		return now, nil
	case models.HoldChoiceCustom:
		if customDate == nil {
			return time.Time{}, errors.New("custom hold requires a date")
		}
		return *customDate, nil
	default:
		return time.Time{}, errors.New("invalid hold choice")
	}
}

// CompleteIntake moves a draft intake to completed as a two-phase saga:
// phase 1 places every intake_started item on hold with the given expiration,
// phase 2 flips the intake status. Item writes are gated on the intake still
// being draft, so phase 1 must run first. Phase 1 only touches rows still in
// intake_started, which makes a retry after a phase-2 failure safe.
func CompleteIntake(ctx context.Context, intakeId int, holdExpiresAt time.Time) (*models.Intake, error) {
	logger := config.GetLogger()
	db := config.GetDB()

	intake, err := models.GetIntake(ctx, intakeId)
	if err != nil {
		return nil, err
	}
	if intake.Status != models.IntakeStatusDraft {
		return nil, models.ErrIntakeNotDraft
	}

	// phase 1: items -> on_hold
	err = db.WithContext(ctx).Model(&models.Item{}).
		Where("intake_id = ? AND status = ?", intakeId, models.ItemStatusIntakeStarted).
		Updates(map[string]interface{}{
			"Status":        models.ItemStatusOnHold,
			"HoldExpiresAt": holdExpiresAt,
		}).Error
	if err != nil {
		config.LogError(logger, "intakeWorkflow.go", "CompleteIntake", "phase 1: hold placement", intakeId, err)
		return nil, err
	}

	// phase 2: intake -> completed. A failure here leaves items on hold with
	// the intake still draft; the operator retries and phase 1 is a no-op.
	now := time.Now()
	err = db.WithContext(ctx).Model(&models.Intake{}).
		Where("id = ?", intakeId).
		Updates(map[string]interface{}{
			"Status":      models.IntakeStatusCompleted,
			"CompletedAt": &now,
		}).Error
	if err != nil {
		config.LogError(logger, "intakeWorkflow.go", "CompleteIntake", "phase 2: status update", intakeId, err)
		return nil, err
	}

	models.InvalidateItemCaches()
	models.WriteAuditLog(ctx, "intakes", intakeId, "completed", map[string]interface{}{
		"hold_expires_at": holdExpiresAt,
	})

	return models.GetIntake(ctx, intakeId)
}
