package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
)

// Order is a shop redemption paid for in Drops from a user's saldo.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	ProductID   uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	ProductName string            `gorm:"column:product_name;not null"`
	Quantity    int               `gorm:"column:quantity;not null;default:1"`
	PointsSpent int               `gorm:"column:points_spent;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:order_status_enum;not null;default:'placed'"`
	ShippedAt   *time.Time        `gorm:"column:shipped_at"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
