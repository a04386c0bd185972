package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/utils"
)

var (
	ErrIntakeNotDraft = errors.New("intake is not in draft status")
	ErrIntakeNotReady = errors.New("intake is not completed")
)

type Intake struct {
	ID                 int          `gorm:"primary_key" json:"id"`
	CustomerId         int          `gorm:"not null;index" json:"customer_id" binding:"required"`
	Customer           *Customer    `json:"customer"`
	ProcessorId        string       `gorm:"size:36;not null;index" json:"processor_id"`
	Status             IntakeStatus `gorm:"type:enum('draft','completed','canceled');not null;default:'draft'" json:"status"`
	Items              []*Item      `json:"items"`
	ReportTicketNumber string       `gorm:"size:50" json:"report_ticket_number"`
	ReportedAt         *time.Time   `json:"reported_at"`
	CompletedAt        *time.Time   `json:"completed_at"`
	CreatedAt          time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// CreateIntake starts a draft intake for the customer. The insert and the
// confirming read are two separate calls so an access failure is attributable
// to one or the other.
func CreateIntake(ctx context.Context, customerId int) (*Intake, error) {
	profile, err := EnsureProfile(ctx)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateResourceId[Customer](ctx, customerId); err != nil {
		return nil, errors.New("customer not found")
	}

	db := config.GetDB()
	intake := Intake{
		CustomerId:  customerId,
		ProcessorId: profile.ID,
		Status:      IntakeStatusDraft,
	}
	if err := db.WithContext(ctx).Create(&intake).Error; err != nil {
		return nil, err
	}

	var confirmed Intake
	err = db.WithContext(ctx).
		Where("customer_id = ? AND processor_id = ? AND status = ?", customerId, profile.ID, IntakeStatusDraft).
		Order("created_at DESC").
		First(&confirmed).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &confirmed, nil
}

// GetIntake is the canonical aggregate read: intake with customer and all
// items, each with its images.
func GetIntake(ctx context.Context, id int) (*Intake, error) {
	return utils.FetchModel[Intake](ctx, id, "Customer", "Items", "Items.Images")
}

// requireDraftIntake loads the parent intake and rejects item mutation when it
// has left draft.
func requireDraftIntake(ctx context.Context, intakeId int) (*Intake, error) {
	intake, err := utils.FetchModel[Intake](ctx, intakeId)
	if err != nil {
		return nil, err
	}
	if intake.Status != IntakeStatusDraft {
		return nil, ErrIntakeNotDraft
	}
	return intake, nil
}

// MarkIntakeReported stores the reporting confirmation so the UI can suppress
// re-submission.
func MarkIntakeReported(ctx context.Context, intakeId int, ticketNumber string) error {
	db := config.GetDB()
	now := time.Now()
	err := db.WithContext(ctx).Model(&Intake{}).
		Where("id = ?", intakeId).
		Updates(map[string]interface{}{
			"ReportTicketNumber": ticketNumber,
			"ReportedAt":         &now,
		}).Error
	if err != nil {
		return err
	}

	WriteAuditLog(ctx, "intakes", intakeId, "reported", map[string]interface{}{
		"ticket_number": ticketNumber,
	})
	return nil
}

// ListDraftIntakes returns draft intakes that actually contain items, newest
// first. Empty drafts are noise left behind by abandoned sessions.
func ListDraftIntakes(ctx context.Context) ([]*Intake, error) {
	db := config.GetDB()
	var results []*Intake
	err := db.WithContext(ctx).
		Preload("Customer").Preload("Items").
		Where("status = ?", IntakeStatusDraft).
		Where("id IN (SELECT intake_id FROM items)").
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func ListCompletedIntakes(ctx context.Context) ([]*Intake, error) {
	db := config.GetDB()
	var results []*Intake
	err := db.WithContext(ctx).
		Preload("Customer").Preload("Items").
		Where("status = ?", IntakeStatusCompleted).
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
