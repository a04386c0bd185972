package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/utils"
)

type Customer struct {
	ID           int        `gorm:"primary_key" json:"id"`
	FirstName    string     `gorm:"size:100;not null" json:"first_name" binding:"required"`
	LastName     string     `gorm:"size:100;not null" json:"last_name" binding:"required"`
	Email        string     `gorm:"size:100" json:"email"`
	Phone        string     `gorm:"size:20" json:"phone"`
	IdType       IdType     `gorm:"type:enum('driver_license','passport','state_id','matricula_consular','other');not null" json:"id_type" binding:"required"`
	IdNumber     string     `gorm:"size:100;not null" json:"id_number" binding:"required"`
	AddressLine1 string     `gorm:"size:255" json:"address_line_1"`
	AddressLine2 string     `gorm:"size:255" json:"address_line_2"`
	City         string     `gorm:"size:100" json:"city"`
	State        string     `gorm:"size:100" json:"state"`
	PostalCode   string     `gorm:"size:20" json:"postal_code"`
	Dob          *time.Time `json:"dob"`
	HeightIn     int        `gorm:"default:0" json:"height_in"`
	WeightLb     int        `gorm:"default:0" json:"weight_lb"`
	EyeColor     string     `gorm:"size:30" json:"eye_color"`
	HairColor    string     `gorm:"size:30" json:"hair_color"`
	Race         string     `gorm:"size:30" json:"race"`
	Gender       string     `gorm:"size:20" json:"gender"`
	Banned       *bool      `gorm:"not null;default:false" json:"banned"`
	CreatedBy    string     `gorm:"size:36;index" json:"created_by"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	FirstName    string     `json:"first_name" binding:"required"`
	LastName     string     `json:"last_name" binding:"required"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	IdType       IdType     `json:"id_type" binding:"required"`
	IdNumber     string     `json:"id_number" binding:"required"`
	AddressLine1 string     `json:"address_line_1"`
	AddressLine2 string     `json:"address_line_2"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	PostalCode   string     `json:"postal_code"`
	Dob          *time.Time `json:"dob"`
	HeightIn     int        `json:"height_in"`
	WeightLb     int        `json:"weight_lb"`
	EyeColor     string     `json:"eye_color"`
	HairColor    string     `json:"hair_color"`
	Race         string     `json:"race"`
	Gender       string     `json:"gender"`
}

func (input *NewCustomer) validate() error {
	if input.FirstName == "" || input.LastName == "" {
		return errors.New("first name and last name are required")
	}
	if !input.IdType.Valid() {
		return errors.New("invalid id type")
	}
	if input.IdNumber == "" {
		return errors.New("id number is required")
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	return nil
}

// HasComplianceFields reports whether the customer carries everything the
// regulatory reporting service requires.
func (c *Customer) HasComplianceFields() bool {
	return c.AddressLine1 != "" &&
		c.City != "" &&
		c.State != "" &&
		c.PostalCode != "" &&
		c.Dob != nil &&
		c.IdNumber != "" &&
		c.IdType != ""
}

// SearchCustomers matches the query against name, email and phone,
// case-insensitive, newest first, capped at config.SearchLimit. Search is
// advisory: storage errors are logged and an empty list is returned.
func SearchCustomers(ctx context.Context, query string) []*Customer {
	logger := config.GetLogger()
	db := config.GetDB()

	var results []*Customer
	dbCtx := db.WithContext(ctx).Model(&Customer{})
	if query != "" {
		like := "%" + query + "%"
		dbCtx = dbCtx.Where(
			"first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR phone LIKE ?",
			like, like, like, like,
		)
	}
	if err := dbCtx.Order("created_at DESC").Limit(config.SearchLimit).Find(&results).Error; err != nil {
		config.LogError(logger, "customer", "SearchCustomers", "query failed", query, err)
		return []*Customer{}
	}
	return results
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	profile, err := EnsureProfile(ctx)
	if err != nil {
		return nil, err
	}

	customer := Customer{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		IdType:       input.IdType,
		IdNumber:     input.IdNumber,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.PostalCode,
		Dob:          input.Dob,
		HeightIn:     input.HeightIn,
		WeightLb:     input.WeightLb,
		EyeColor:     input.EyeColor,
		HairColor:    input.HairColor,
		Race:         input.Race,
		Gender:       input.Gender,
		Banned:       utils.NewFalse(),
		CreatedBy:    profile.ID,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func UpdateCustomer(ctx context.Context, id int, input *NewCustomer) (*Customer, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	customer, err := utils.FetchModel[Customer](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	data := map[string]interface{}{
		"FirstName":    input.FirstName,
		"LastName":     input.LastName,
		"Email":        input.Email,
		"Phone":        input.Phone,
		"IdType":       input.IdType,
		"IdNumber":     input.IdNumber,
		"AddressLine1": input.AddressLine1,
		"AddressLine2": input.AddressLine2,
		"City":         input.City,
		"State":        input.State,
		"PostalCode":   input.PostalCode,
		"Dob":          input.Dob,
		"HeightIn":     input.HeightIn,
		"WeightLb":     input.WeightLb,
		"EyeColor":     input.EyeColor,
		"HairColor":    input.HairColor,
		"Race":         input.Race,
		"Gender":       input.Gender,
	}
	if err := db.WithContext(ctx).Model(&customer).Updates(data).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func GetCustomer(ctx context.Context, id int) (*Customer, error) {
	return utils.FetchModel[Customer](ctx, id)
}

func SetCustomerBanned(ctx context.Context, id int, banned bool) (*Customer, error) {
	customer, err := utils.FetchModel[Customer](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&customer).Update("Banned", banned).Error; err != nil {
		return nil, err
	}

	WriteAuditLog(ctx, "customers", customer.ID, "set_banned", map[string]interface{}{
		"banned": banned,
	})
	return customer, nil
}

func CountCustomers(ctx context.Context) (int64, error) {
	return utils.ResourceCountWhere[Customer](ctx, "1 = 1")
}
