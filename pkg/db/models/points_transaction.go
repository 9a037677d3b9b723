package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
)

// PointsTransaction records an immutable Drops ledger entry for a user.
type PointsTransaction struct {
	ID             uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID                   `gorm:"column:user_id;type:uuid;not null"`
	Type           enums.PointsTransactionType `gorm:"column:type;type:points_transaction_type_enum;not null"`
	Amount         int                         `gorm:"column:amount;not null"`
	Description    string                      `gorm:"column:description;not null"`
	RegistrationID *uuid.UUID                  `gorm:"column:registration_id;type:uuid"`
	OrderID        *uuid.UUID                  `gorm:"column:order_id;type:uuid"`
	ActorUID       *uuid.UUID                  `gorm:"column:actor_uid;type:uuid"`
	CreatedAt      time.Time                   `gorm:"column:created_at;autoCreateTime"`
}
