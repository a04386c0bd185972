package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/utils"
	"github.com/google/uuid"
)

type Profile struct {
	ID        string    `gorm:"primary_key;size:36" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	FullName  string    `gorm:"size:100;not null" json:"full_name" binding:"required"`
	Password  string    `gorm:"size:255;not null" json:"password"`
	Role      StaffRole `gorm:"type:enum('clerk','manager','admin');default:'clerk'" json:"role"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type LoginInfo struct {
	Token    string    `json:"token"`
	Name     string    `json:"name"`
	FullName string    `json:"full_name"`
	Role     StaffRole `json:"role"`
}

// session payload stored under Token:<uuid>
type SessionInfo struct {
	ProfileId string    `json:"profile_id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      StaffRole `json:"role"`
}

func (result *Profile) PrepareGive() {
	result.Password = ""
}

func tokenLifespan() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil || hours <= 0 {
		hours = 12
	}
	return time.Duration(hours) * time.Hour
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var result LoginInfo

	profile := Profile{}

	// get Profile info
	exists, err := config.GetRedisObject("Profile:"+username, &profile)
	if err != nil {
		return &result, err
	}
	if !exists {
		err = db.WithContext(ctx).Model(&Profile{}).Where("username = ?", username).Take(&profile).Error
		if err != nil {
			return &result, errors.New("invalid username or password")
		}
	}

	// check login credentials; any comparison failure rejects, including the
	// empty hash on rows provisioned by EnsureProfile before a password is set
	if err := utils.ComparePassword(profile.Password, password); err != nil {
		return &result, errors.New("invalid username or password")
	}

	if profile.IsActive != nil && !*profile.IsActive {
		return &result, errors.New("profile is disabled")
	}

	// generate token & response
	token := uuid.New()
	result.Token = token.String()
	result.Name = profile.Username
	result.FullName = profile.FullName
	result.Role = profile.Role

	session := SessionInfo{
		ProfileId: profile.ID,
		Username:  profile.Username,
		FullName:  profile.FullName,
		Role:      profile.Role,
	}
	if err := config.SetRedisObject("Token:"+result.Token, &session, tokenLifespan()); err != nil {
		return &result, err
	}
	if err := config.SetRedisObject("Profile:"+username, &profile, utils.GetCacheLifespan()); err != nil {
		return &result, err
	}

	return &result, nil
}

// destroy current session
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	err := config.RemoveRedisKey("Token:" + fmt.Sprint(token))
	if err != nil {
		return false, nil
	}
	return true, nil
}

// EnsureProfile makes sure a profile row exists for the authenticated staff
// identity. Invoked at workflow entry points so that a session issued before
// the profiles table was backfilled still works (idempotent upsert).
func EnsureProfile(ctx context.Context) (*Profile, error) {
	profileId, ok := utils.GetProfileIdFromContext(ctx)
	if !ok || profileId == "" {
		return nil, errors.New("authentication required")
	}

	db := config.GetDB()
	var profile Profile
	err := db.WithContext(ctx).Where("id = ?", profileId).Take(&profile).Error
	if err == nil {
		return &profile, nil
	}

	username, _ := utils.GetUsernameFromContext(ctx)
	fullName, _ := utils.GetFullNameFromContext(ctx)
	role, _ := utils.GetRoleFromContext(ctx)
	if !StaffRole(role).Valid() {
		role = string(StaffRoleClerk)
	}

	profile = Profile{
		ID:       profileId,
		Username: username,
		FullName: fullName,
		Role:     StaffRole(role),
		IsActive: utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&profile).Error; err != nil {
		// concurrent provisioning of the same identity, re-read
		var existing Profile
		if rerr := db.WithContext(ctx).Where("id = ?", profileId).Take(&existing).Error; rerr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &profile, nil
}

// SeedAdminProfile creates (or keeps) an admin profile with the given
// credentials. Used by cmd/seed-admin.
func SeedAdminProfile(ctx context.Context, username string, fullName string, password string) (*Profile, error) {
	db := config.GetDB()

	var existing Profile
	if err := db.WithContext(ctx).Where("username = ?", username).Take(&existing).Error; err == nil {
		return &existing, nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	profile := Profile{
		ID:       uuid.New().String(),
		Username: username,
		FullName: fullName,
		Password: string(hashed),
		Role:     StaffRoleAdmin,
		IsActive: utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
