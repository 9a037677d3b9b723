package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
)

// RegistrationCreatedEvent signals a freshly submitted installation registration.
type RegistrationCreatedEvent struct {
	RegistrationID uuid.UUID  `json:"registration_id"`
	InstallerUID   *uuid.UUID `json:"installer_uid,omitempty"`
	SerialNumber   string     `json:"serial_number"`
	Source         string     `json:"source"`
}

// RegistrationApprovedEvent is emitted once the CRM confirms the approval.
type RegistrationApprovedEvent struct {
	RegistrationID      uuid.UUID  `json:"registration_id"`
	InstallerUID        *uuid.UUID `json:"installer_uid,omitempty"`
	CompendaID          string     `json:"compenda_id,omitempty"`
	PointsAwarded       int        `json:"points_awarded"`
	IsFirstRegistration bool       `json:"is_first_registration"`
	ApprovedAt          time.Time  `json:"approved_at"`
}

// RegistrationStatusChangedEvent covers manual status edits by admins.
type RegistrationStatusChangedEvent struct {
	RegistrationID uuid.UUID                `json:"registration_id"`
	From           enums.RegistrationStatus `json:"from"`
	To             enums.RegistrationStatus `json:"to"`
}

// RegistrationDeletedEvent is emitted when an admin removes a registration.
type RegistrationDeletedEvent struct {
	RegistrationID uuid.UUID `json:"registration_id"`
	DeletedAt      time.Time `json:"deleted_at"`
}

// RegistrationLinkedEvent reports an orphaned registration claimed by an installer.
type RegistrationLinkedEvent struct {
	RegistrationID uuid.UUID `json:"registration_id"`
	InstallerUID   uuid.UUID `json:"installer_uid"`
}

// RegistrationImportedEvent signals a registration ingested through bulk import.
type RegistrationImportedEvent struct {
	RegistrationID uuid.UUID `json:"registration_id"`
	SerialNumber   string    `json:"serial_number"`
	BatchID        string    `json:"batch_id,omitempty"`
}

// PointsCreditedEvent is emitted when an installer earns loyalty points.
type PointsCreditedEvent struct {
	UserID         uuid.UUID  `json:"user_id"`
	Amount         int        `json:"amount"`
	RegistrationID *uuid.UUID `json:"registration_id,omitempty"`
}

// PointsDebitedEvent is emitted when points are spent or revoked.
type PointsDebitedEvent struct {
	UserID  uuid.UUID  `json:"user_id"`
	Amount  int        `json:"amount"`
	OrderID *uuid.UUID `json:"order_id,omitempty"`
}

// OrderPlacedEvent signals a shop redemption.
type OrderPlacedEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	UserID      uuid.UUID `json:"user_id"`
	ProductID   uuid.UUID `json:"product_id"`
	PointsSpent int       `json:"points_spent"`
	PlacedAt    time.Time `json:"placed_at"`
}
