package models

type IntakeStatus string

const (
	IntakeStatusDraft     IntakeStatus = "draft"
	IntakeStatusCompleted IntakeStatus = "completed"
	IntakeStatusCanceled  IntakeStatus = "canceled"
)

func (s IntakeStatus) Valid() bool {
	switch s {
	case IntakeStatusDraft, IntakeStatusCompleted, IntakeStatusCanceled:
		return true
	}
	return false
}

type ItemStatus string

const (
	ItemStatusIntakeStarted    ItemStatus = "intake_started"
	ItemStatusOnHold           ItemStatus = "on_hold"
	ItemStatusClearedForResale ItemStatus = "cleared_for_resale"
	ItemStatusPublished        ItemStatus = "published"
	ItemStatusSold             ItemStatus = "sold"
	ItemStatusFlagged          ItemStatus = "flagged"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusIntakeStarted, ItemStatusOnHold, ItemStatusClearedForResale,
		ItemStatusPublished, ItemStatusSold, ItemStatusFlagged:
		return true
	}
	return false
}

type IdType string

const (
	IdTypeDriverLicense     IdType = "driver_license"
	IdTypePassport          IdType = "passport"
	IdTypeStateId           IdType = "state_id"
	IdTypeMatriculaConsular IdType = "matricula_consular"
	IdTypeOther             IdType = "other"
)

func (t IdType) Valid() bool {
	switch t {
	case IdTypeDriverLicense, IdTypePassport, IdTypeStateId, IdTypeMatriculaConsular, IdTypeOther:
		return true
	}
	return false
}

type StaffRole string

const (
	StaffRoleClerk   StaffRole = "clerk"
	StaffRoleManager StaffRole = "manager"
	StaffRoleAdmin   StaffRole = "admin"
)

func (r StaffRole) Valid() bool {
	switch r {
	case StaffRoleClerk, StaffRoleManager, StaffRoleAdmin:
		return true
	}
	return false
}

// HoldChoice selects how the hold expiration is computed at intake completion.
type HoldChoice string

const (
	HoldChoiceStandard  HoldChoice = "standard" // 14 days
	HoldChoiceExtended  HoldChoice = "extended" // 30 days
	HoldChoiceImmediate HoldChoice = "immediate"
	HoldChoiceCustom    HoldChoice = "custom"
)

func (c HoldChoice) Valid() bool {
	switch c {
	case HoldChoiceStandard, HoldChoiceExtended, HoldChoiceImmediate, HoldChoiceCustom:
		return true
	}
	return false
}
