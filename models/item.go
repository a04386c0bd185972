package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/utils"
	"github.com/shopspring/decimal"
)

var (
	ErrItemNotOnHold   = errors.New("item is not on hold")
	ErrHoldNotExpired  = errors.New("hold period has not expired")
	ErrItemNotCleared  = errors.New("item is not cleared for resale")
	ErrorInvalidPrice  = errors.New("purchase price must be positive")
	ErrorMissingFields = errors.New("category, brand and model are required")
)

type Item struct {
	ID               int             `gorm:"primary_key" json:"id"`
	IntakeId         int             `gorm:"not null;index" json:"intake_id"`
	Category         string          `gorm:"size:100;not null" json:"category" binding:"required"`
	Brand            string          `gorm:"size:100;not null" json:"brand" binding:"required"`
	Model            string          `gorm:"size:100;not null" json:"model" binding:"required"`
	SerialNumber     string          `gorm:"size:100" json:"serial_number"`
	Condition        string          `gorm:"size:50" json:"condition"`
	Description      string          `gorm:"type:text" json:"description"`
	PurchasePrice    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"purchase_price"`
	Status           ItemStatus      `gorm:"type:enum('intake_started','on_hold','cleared_for_resale','published','sold','flagged');not null;default:'intake_started'" json:"status"`
	HoldExpiresAt    *time.Time      `json:"hold_expires_at"`
	ShopifyProductId int64           `gorm:"default:0" json:"shopify_product_id"`
	Images           []*ItemImage    `json:"images"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewItem struct {
	Category      string          `json:"category" binding:"required"`
	Brand         string          `json:"brand" binding:"required"`
	Model         string          `json:"model" binding:"required"`
	SerialNumber  string          `json:"serial_number"`
	Condition     string          `json:"condition"`
	Description   string          `json:"description"`
	PurchasePrice decimal.Decimal `json:"purchase_price" binding:"required"`
}

func (input *NewItem) validate() error {
	if input.Category == "" || input.Brand == "" || input.Model == "" {
		return ErrorMissingFields
	}
	if !input.PurchasePrice.IsPositive() {
		return ErrorInvalidPrice
	}
	return nil
}

// AddItem attaches a new item to a draft intake.
func AddItem(ctx context.Context, intakeId int, input *NewItem) (*Item, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if _, err := requireDraftIntake(ctx, intakeId); err != nil {
		return nil, err
	}

	item := Item{
		IntakeId:      intakeId,
		Category:      input.Category,
		Brand:         input.Brand,
		Model:         input.Model,
		SerialNumber:  input.SerialNumber,
		Condition:     input.Condition,
		Description:   input.Description,
		PurchasePrice: input.PurchasePrice,
		Status:        ItemStatusIntakeStarted,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func UpdateItem(ctx context.Context, itemId int, input *NewItem) (*Item, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	item, err := utils.FetchModel[Item](ctx, itemId)
	if err != nil {
		return nil, err
	}
	if _, err := requireDraftIntake(ctx, item.IntakeId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	data := map[string]interface{}{
		"Category":      input.Category,
		"Brand":         input.Brand,
		"Model":         input.Model,
		"SerialNumber":  input.SerialNumber,
		"Condition":     input.Condition,
		"Description":   input.Description,
		"PurchasePrice": input.PurchasePrice,
	}
	if err := db.WithContext(ctx).Model(&item).Updates(data).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func DeleteItem(ctx context.Context, itemId int) error {
	item, err := utils.FetchModel[Item](ctx, itemId)
	if err != nil {
		return err
	}
	if _, err := requireDraftIntake(ctx, item.IntakeId); err != nil {
		return err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("item_id = ?", itemId).Delete(&ItemImage{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.WithContext(ctx).Delete(&item).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func GetItem(ctx context.Context, itemId int) (*Item, error) {
	return utils.FetchModel[Item](ctx, itemId, "Images")
}

type InventoryPage struct {
	Items []*Item `json:"items"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

// PaginateInventory lists items for the inventory screens. on_hold items are
// excluded unless explicitly requested, they live in the hold queue.
func PaginateInventory(ctx context.Context, search string, status ItemStatus, page int, limit int) (*InventoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Item{})

	if status != "" {
		if !status.Valid() {
			return nil, errors.New("invalid item status")
		}
		dbCtx = dbCtx.Where("status = ?", status)
	} else {
		dbCtx = dbCtx.Where("status <> ?", ItemStatusOnHold)
	}
	if search != "" {
		like := "%" + search + "%"
		dbCtx = dbCtx.Where("brand LIKE ? OR model LIKE ? OR serial_number LIKE ?", like, like, like)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*Item
	err := dbCtx.Preload("Images").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return &InventoryPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

/*
caches:
	ItemList:HoldQueue
*/

const holdQueueCacheSuffix = "HoldQueue"

// GetHoldQueue lists on_hold items ordered by soonest expiry, served from the
// Redis list cache when warm.
func GetHoldQueue(ctx context.Context) ([]*Item, error) {
	cached, err := utils.RetrieveRedisList[Item](holdQueueCacheSuffix)
	if err != nil {
		// cache is advisory; a bad read falls through to the DB
		logger := config.GetLogger()
		config.LogError(logger, "item", "GetHoldQueue", "cache read failed", nil, err)
	} else if cached != nil {
		return cached, nil
	}

	db := config.GetDB()
	var items []*Item
	err = db.WithContext(ctx).
		Preload("Images").
		Where("status = ?", ItemStatusOnHold).
		Order("hold_expires_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	if err := utils.StoreRedisList[Item](items, holdQueueCacheSuffix); err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "item", "GetHoldQueue", "cache store failed", nil, err)
	}
	return items, nil
}

// InvalidateItemCaches drops every item list cache (hold queue included)
// after a lifecycle transition. Best effort.
func InvalidateItemCaches() {
	if err := config.RemoveRedisKeysByPattern(utils.GetTypeName[Item]() + "List*"); err != nil {
		logger := config.GetLogger()
		config.LogError(logger, "item", "InvalidateItemCaches", "cache invalidation failed", nil, err)
	}
}

// static pick lists shown on the intake form
var (
	ItemCategories = []string{
		"Jewelry", "Electronics", "Phones", "Computers", "Tools",
		"Musical Instruments", "Sporting Goods", "Firearms", "Other",
	}
	ItemConditions = []string{"New", "Like New", "Good", "Fair", "Poor"}
)

// DistinctBrands returns brands already present in inventory, for typeahead.
func DistinctBrands(ctx context.Context) ([]string, error) {
	db := config.GetDB()
	var brands []string
	err := db.WithContext(ctx).Model(&Item{}).
		Distinct("brand").
		Order("brand ASC").
		Pluck("brand", &brands).Error
	if err != nil {
		return nil, err
	}
	return brands, nil
}

func DistinctModelsForBrand(ctx context.Context, brand string) ([]string, error) {
	db := config.GetDB()
	var modelNames []string
	err := db.WithContext(ctx).Model(&Item{}).
		Where("brand = ?", brand).
		Distinct("model").
		Order("model ASC").
		Pluck("model", &modelNames).Error
	if err != nil {
		return nil, err
	}
	return modelNames, nil
}
