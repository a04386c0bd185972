package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewCustomerValidate(t *testing.T) {
	valid := NewCustomer{
		FirstName: "Jane",
		LastName:  "Doe",
		IdType:    IdTypeDriverLicense,
		IdNumber:  "D1234567",
	}
	if err := valid.validate(); err != nil {
		t.Fatalf("expected valid input; got %v", err)
	}

	missingName := valid
	missingName.FirstName = ""
	if err := missingName.validate(); err == nil {
		t.Fatalf("expected error for missing first name")
	}

	badIdType := valid
	badIdType.IdType = IdType("library_card")
	if err := badIdType.validate(); err == nil {
		t.Fatalf("expected error for invalid id type")
	}

	missingIdNumber := valid
	missingIdNumber.IdNumber = ""
	if err := missingIdNumber.validate(); err == nil {
		t.Fatalf("expected error for missing id number")
	}

	badEmail := valid
	badEmail.Email = "not-an-email"
	if err := badEmail.validate(); err == nil {
		t.Fatalf("expected error for invalid email")
	}
}

func TestNewItemValidate(t *testing.T) {
	valid := NewItem{
		Category:      "Electronics",
		Brand:         "Acme",
		Model:         "X100",
		PurchasePrice: decimal.NewFromInt(250),
	}
	if err := valid.validate(); err != nil {
		t.Fatalf("expected valid input; got %v", err)
	}

	missingBrand := valid
	missingBrand.Brand = ""
	if err := missingBrand.validate(); err != ErrorMissingFields {
		t.Fatalf("expected ErrorMissingFields; got %v", err)
	}

	zeroPrice := valid
	zeroPrice.PurchasePrice = decimal.Zero
	if err := zeroPrice.validate(); err != ErrorInvalidPrice {
		t.Fatalf("expected ErrorInvalidPrice; got %v", err)
	}

	negativePrice := valid
	negativePrice.PurchasePrice = decimal.NewFromInt(-5)
	if err := negativePrice.validate(); err != ErrorInvalidPrice {
		t.Fatalf("expected ErrorInvalidPrice; got %v", err)
	}
}

func TestHasComplianceFields(t *testing.T) {
	dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)
	complete := Customer{
		FirstName:    "Jane",
		LastName:     "Doe",
		IdType:       IdTypeDriverLicense,
		IdNumber:     "D1234567",
		AddressLine1: "123 Main St",
		City:         "Springfield",
		State:        "IL",
		PostalCode:   "62701",
		Dob:          &dob,
	}
	if !complete.HasComplianceFields() {
		t.Fatalf("expected compliance fields to be complete")
	}

	noDob := complete
	noDob.Dob = nil
	if noDob.HasComplianceFields() {
		t.Fatalf("expected missing dob to fail the compliance check")
	}

	noAddress := complete
	noAddress.AddressLine1 = ""
	if noAddress.HasComplianceFields() {
		t.Fatalf("expected missing address to fail the compliance check")
	}

	noPostal := complete
	noPostal.PostalCode = ""
	if noPostal.HasComplianceFields() {
		t.Fatalf("expected missing postal code to fail the compliance check")
	}
}

func TestEnumValidity(t *testing.T) {
	if !ItemStatus("on_hold").Valid() {
		t.Fatalf("on_hold should be a valid item status")
	}
	if ItemStatus("melted").Valid() {
		t.Fatalf("melted should not be a valid item status")
	}
	if !IntakeStatus("draft").Valid() {
		t.Fatalf("draft should be a valid intake status")
	}
	if IntakeStatus("pending").Valid() {
		t.Fatalf("pending should not be a valid intake status")
	}
	if !HoldChoice("standard").Valid() {
		t.Fatalf("standard should be a valid hold choice")
	}
	if HoldChoice("forever").Valid() {
		t.Fatalf("forever should not be a valid hold choice")
	}
	if !StaffRole("manager").Valid() {
		t.Fatalf("manager should be a valid staff role")
	}
	if StaffRole("owner").Valid() {
		t.Fatalf("owner should not be a valid staff role")
	}
}
