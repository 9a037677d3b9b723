package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
)

// AdminAction is an append-only record of a state-changing administrator operation.
type AdminAction struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Type           enums.AdminActionType `gorm:"column:type;type:admin_action_type_enum;not null"`
	Description    string                `gorm:"column:description;not null"`
	CollectionName string                `gorm:"column:collection_name;not null"`
	AdminUID       uuid.UUID             `gorm:"column:admin_uid;type:uuid;not null"`
	AdminEmail     string                `gorm:"column:admin_email;not null"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
}
