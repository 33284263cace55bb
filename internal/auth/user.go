package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrOpenIDRequired = errors.New("openId is required")

// Role is the user's access level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is keyed by the identity provider's openId; rows are created or
// refreshed on every successful external login.
type User struct {
	ID          uint64  `gorm:"primaryKey"`
	OpenID      string  `gorm:"uniqueIndex;not null"`
	Name        *string `gorm:"type:text"`
	Email       *string `gorm:"type:text"`
	LoginMethod *string `gorm:"type:text"`
	Role        Role    `gorm:"type:text;not null;default:'user'"`

	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
	LastSignedIn time.Time `gorm:"not null"`
}

// UpsertInput carries the identity fields returned by the provider.
// Only non-nil fields make it into the on-conflict update set, so a
// provider omitting e.g. the email never blanks a stored one.
type UpsertInput struct {
	OpenID      string
	Name        *string
	Email       *string
	LoginMethod *string
	Role        *Role
}

// Users owns user persistence. OwnerOpenID is the single identity that is
// auto-promoted to admin on sign-in when no explicit role is supplied.
type Users struct {
	DB          *gorm.DB
	OwnerOpenID string
}

// Upsert inserts or refreshes a user keyed on open_id. last_signed_in is
// stamped on every call; an already-assigned role is never overwritten
// unless the caller passes one explicitly.
func (u *Users) Upsert(ctx context.Context, in UpsertInput) error {
	if in.OpenID == "" {
		return ErrOpenIDRequired
	}
	if u.DB == nil {
		log.Println("auth: database not available, skipping user upsert")
		return nil
	}

	now := time.Now()
	row := User{
		OpenID:       in.OpenID,
		Name:         in.Name,
		Email:        in.Email,
		LoginMethod:  in.LoginMethod,
		Role:         RoleUser,
		LastSignedIn: now,
	}
	updates := map[string]any{
		"last_signed_in": now,
	}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.LoginMethod != nil {
		updates["login_method"] = *in.LoginMethod
	}
	if in.Role != nil {
		row.Role = *in.Role
		updates["role"] = *in.Role
	} else if u.OwnerOpenID != "" && in.OpenID == u.OwnerOpenID {
		row.Role = RoleAdmin
		updates["role"] = RoleAdmin
	}

	return u.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "open_id"}},
		DoUpdates: clause.Assignments(updates),
	}).Create(&row).Error
}

// ByOpenID returns (nil, nil) when the user does not exist or no database
// is configured, keeping the session check usable in a degraded setup.
func (u *Users) ByOpenID(ctx context.Context, openID string) (*User, error) {
	if u.DB == nil {
		log.Println("auth: database not available, cannot load user")
		return nil, nil
	}
	var user User
	err := u.DB.WithContext(ctx).Where("open_id = ?", openID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *Users) ByID(ctx context.Context, id uint64) (*User, error) {
	if u.DB == nil {
		return nil, nil
	}
	var user User
	err := u.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
