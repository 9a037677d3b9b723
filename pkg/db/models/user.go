package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
)

// User represents an installer (or admin) profile with its Drops balances.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Name         string         `gorm:"column:name;not null"`
	CompanyName  *string        `gorm:"column:company_name"`
	Phone        *string        `gorm:"column:phone"`
	Role         enums.UserRole `gorm:"column:role;type:user_role_enum;not null;default:'user'"`

	// PointsTotal is lifetime earned Drops; Saldo is what is currently spendable.
	PointsTotal   int `gorm:"column:points_total;not null;default:0"`
	Saldo         int `gorm:"column:saldo;not null;default:0"`
	PointsPending int `gorm:"column:points_pending;not null;default:0"`

	CompendaID  *string    `gorm:"column:compenda_id"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
