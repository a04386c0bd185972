package models

import (
	"context"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/utils"
	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	MonthlySpend       decimal.Decimal `json:"monthly_spend"`
	MonthlyIntakeCount int64           `json:"monthly_intake_count"`
	OnHoldCount        int64           `json:"on_hold_count"`
	DraftCount         int64           `json:"draft_count"`
	CustomerCount      int64           `json:"customer_count"`
}

type RecentIntake struct {
	IntakeId     int    `json:"intake_id"`
	CustomerName string `json:"customer_name"`
	Status       string `json:"status"`
	ItemCount    int64  `json:"item_count"`
	CreatedAt    string `json:"created_at"`
}

func GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := config.GetDB()
	stats := DashboardStats{MonthlySpend: decimal.Zero}

	monthStart, monthEnd := utils.GetThisMonthRange()

	var spend *decimal.Decimal
	err := db.WithContext(ctx).Model(&Item{}).
		Select("SUM(purchase_price)").
		Where("created_at BETWEEN ? AND ?", monthStart, monthEnd).
		Scan(&spend).Error
	if err != nil {
		return nil, err
	}
	if spend != nil {
		stats.MonthlySpend = *spend
	}

	// intakes this month, skipping drafts nobody put an item into
	err = db.WithContext(ctx).Model(&Intake{}).
		Where("created_at BETWEEN ? AND ?", monthStart, monthEnd).
		Where("id IN (SELECT intake_id FROM items)").
		Count(&stats.MonthlyIntakeCount).Error
	if err != nil {
		return nil, err
	}

	stats.OnHoldCount, err = utils.ResourceCountWhere[Item](ctx, "status = ?", ItemStatusOnHold)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(&Intake{}).
		Where("status = ?", IntakeStatusDraft).
		Where("id IN (SELECT intake_id FROM items)").
		Count(&stats.DraftCount).Error
	if err != nil {
		return nil, err
	}

	stats.CustomerCount, err = CountCustomers(ctx)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// GetRecentActivity lists the latest non-empty intakes for the dashboard feed.
func GetRecentActivity(ctx context.Context) ([]*RecentIntake, error) {
	db := config.GetDB()

	sql := `
SELECT
    intakes.id AS intake_id,
    CONCAT(customers.first_name, ' ', customers.last_name) AS customer_name,
    intakes.status,
    COUNT(items.id) AS item_count,
    intakes.created_at
FROM intakes
    JOIN customers ON customers.id = intakes.customer_id
    JOIN items ON items.intake_id = intakes.id
GROUP BY intakes.id, customers.first_name, customers.last_name, intakes.status, intakes.created_at
ORDER BY intakes.created_at DESC
LIMIT 5
`

	var results []*RecentIntake
	if err := db.WithContext(ctx).Raw(sql).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
