package workflow

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/models"
	"bitbucket.org/mmdatafocus/pawnshop_backend/utils"
)

// ReleaseItem moves an expired on_hold item to cleared_for_resale. This is the
// only path out of on_hold. The status check doubles as the concurrency guard:
// a racing second call sees cleared_for_resale and gets ErrItemNotOnHold. The
// Redis lock narrows the read-then-write window but the operation stays
// correct without it.
func ReleaseItem(ctx context.Context, itemId int) (*models.Item, error) {
	db := config.GetDB()

	lock, err := utils.ObtainLock(ctx, fmt.Sprintf("ReleaseItem:%d", itemId), "holdWorkflow.go", "ReleaseItem")
	if err != nil {
		return nil, err
	}
	if lock != nil {
		defer func() { _ = lock.Release(ctx) }()
	}

	item, err := utils.FetchModel[models.Item](ctx, itemId)
	if err != nil {
		return nil, err
	}
	if item.Status != models.ItemStatusOnHold {
		return nil, models.ErrItemNotOnHold
	}
	if item.HoldExpiresAt == nil || time.Now().Before(*item.HoldExpiresAt) {
		return nil, models.ErrHoldNotExpired
	}

	err = db.WithContext(ctx).Model(&item).
		Update("Status", models.ItemStatusClearedForResale).Error
	if err != nil {
		return nil, err
	}

	models.InvalidateItemCaches()
	models.WriteAuditLog(ctx, "items", itemId, "released", map[string]interface{}{
		"hold_expires_at": item.HoldExpiresAt,
	})

	item.Status = models.ItemStatusClearedForResale
	return item, nil
}
