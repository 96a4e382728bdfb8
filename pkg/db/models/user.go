package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/enums"
)

// User is a storefront account (customer or back-office admin).
type User struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string         `gorm:"column:name;not null"`
	Email         string         `gorm:"column:email;uniqueIndex;not null"`
	Phone         string         `gorm:"column:phone;index;not null"`
	PasswordHash  string         `gorm:"column:password_hash;not null"`
	Role          enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'"`
	PhoneVerified bool           `gorm:"column:phone_verified;not null;default:false"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
