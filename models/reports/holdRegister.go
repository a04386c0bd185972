package reports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type HoldRegisterRow struct {
	ItemId        int             `json:"item_id"`
	IntakeId      int             `json:"intake_id"`
	CustomerName  string          `json:"customer_name"`
	Category      string          `json:"category"`
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	SerialNumber  string          `json:"serial_number"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	HoldExpiresAt *time.Time      `json:"hold_expires_at"`
}

func getHoldRegister(ctx context.Context) ([]*HoldRegisterRow, error) {

	sql := `
SELECT
    items.id AS item_id,
    items.intake_id,
    CONCAT(customers.first_name, ' ', customers.last_name) AS customer_name,
    items.category,
    items.brand,
    items.model,
    items.serial_number,
    items.purchase_price,
    items.hold_expires_at
FROM items
    JOIN intakes ON intakes.id = items.intake_id
    JOIN customers ON customers.id = intakes.customer_id
WHERE items.status = ?
ORDER BY items.hold_expires_at ASC
`

	var records []*HoldRegisterRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, models.ItemStatusOnHold).Scan(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// ExportHoldRegister writes the current hold register as an XLSX download.
func ExportHoldRegister(ctx context.Context, w http.ResponseWriter) error {

	data, err := getHoldRegister(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	// Add headers
	f.SetCellValue(sheetName, "A1", "ItemId")
	f.SetCellValue(sheetName, "B1", "IntakeId")
	f.SetCellValue(sheetName, "C1", "Customer")
	f.SetCellValue(sheetName, "D1", "Category")
	f.SetCellValue(sheetName, "E1", "Brand")
	f.SetCellValue(sheetName, "F1", "Model")
	f.SetCellValue(sheetName, "G1", "SerialNumber")
	f.SetCellValue(sheetName, "H1", "PurchasePrice")
	f.SetCellValue(sheetName, "I1", "HoldExpiresAt")

	// Add data
	for i, d := range data {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheetName, "A"+row, d.ItemId)
		f.SetCellValue(sheetName, "B"+row, d.IntakeId)
		f.SetCellValue(sheetName, "C"+row, d.CustomerName)
		f.SetCellValue(sheetName, "D"+row, d.Category)
		f.SetCellValue(sheetName, "E"+row, d.Brand)
		f.SetCellValue(sheetName, "F"+row, d.Model)
		f.SetCellValue(sheetName, "G"+row, d.SerialNumber)
		f.SetCellValue(sheetName, "H"+row, d.PurchasePrice.StringFixed(2))
		if d.HoldExpiresAt != nil {
			f.SetCellValue(sheetName, "I"+row, d.HoldExpiresAt.Format("2006-01-02"))
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=hold-register.xlsx")
	if err := f.Write(w); err != nil {
		return err
	}
	return nil
}
