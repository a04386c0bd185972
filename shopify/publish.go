package shopify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/models"
	"bitbucket.org/mmdatafocus/pawnshop_backend/utils"
	"github.com/shopspring/decimal"
)

// PricingStrategy maps the purchase price to the listed price. The default
// lists at cost; markup rules plug in here when the business decides on them.
type PricingStrategy func(purchasePrice decimal.Decimal) decimal.Decimal

func PassThroughPricing(purchasePrice decimal.Decimal) decimal.Decimal {
	return purchasePrice
}

type PublishResult struct {
	ProductId int64  `json:"product_id"`
	Handle    string `json:"handle"`
}

// PublishItem lists a cleared item on the storefront. On transport failure
// the item status is untouched so the operator can retry.
func PublishItem(ctx context.Context, itemId int, pricing PricingStrategy) (*PublishResult, error) {
	logger := config.GetLogger()

	item, err := models.GetItem(ctx, itemId)
	if err != nil {
		return nil, err
	}
	if item.Status != models.ItemStatusClearedForResale {
		return nil, models.ErrItemNotCleared
	}

	client, err := newShopifyClient()
	if err != nil {
		return nil, err
	}

	if pricing == nil {
		pricing = PassThroughPricing
	}
	payload := BuildProductPayload(item, pricing)

	product, err := client.createProduct(ctx, payload)
	if err != nil {
		config.LogError(logger, "publish.go", "PublishItem", "create product", itemId, err)
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", itemId).
		Updates(map[string]interface{}{
			"Status":           models.ItemStatusPublished,
			"ShopifyProductId": product.Id,
		}).Error
	if err != nil {
		// the listing exists; surface the partial state instead of hiding it
		config.LogError(logger, "publish.go", "PublishItem", "status update after publish", itemId, err)
		return nil, err
	}

	models.InvalidateItemCaches()
	models.WriteAuditLog(ctx, "items", itemId, "published", map[string]interface{}{
		"shopify_product_id": product.Id,
		"handle":             product.Handle,
	})

	return &PublishResult{ProductId: product.Id, Handle: product.Handle}, nil
}

// BuildProductPayload maps an item to the product-creation payload.
func BuildProductPayload(item *models.Item, pricing PricingStrategy) *ProductRequest {
	title := strings.TrimSpace(item.Brand + " " + item.Model)
	if item.Condition != "" {
		title = fmt.Sprintf("%s (%s)", title, item.Condition)
	}

	var body strings.Builder
	if item.Description != "" {
		body.WriteString("<p>" + html.EscapeString(item.Description) + "</p>")
	}
	if item.SerialNumber != "" {
		body.WriteString("<p>Serial: " + html.EscapeString(item.SerialNumber) + "</p>")
	}

	var images []NewImage
	for _, img := range item.Images {
		src := img.StoragePath
		if !strings.HasPrefix(src, "http") {
			src = utils.BuildObjectAccessURL(src)
		}
		images = append(images, NewImage{Src: src})
	}

	return &ProductRequest{
		Product: NewProduct{
			Title:       title,
			BodyHTML:    body.String(),
			Vendor:      item.Brand,
			ProductType: item.Category,
			Status:      "active",
			Variants: []NewVariant{
				{Price: pricing(item.PurchasePrice).StringFixed(2), SKU: item.SerialNumber},
			},
			Images: images,
		},
	}
}
