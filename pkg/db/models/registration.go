package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
)

// Registration is a single submitted appliance-installation event.
type Registration struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`

	// Installer linkage is nullable: bulk-imported rows stay unlinked until an
	// admin attaches them to a profile.
	InstallerUID     *uuid.UUID `gorm:"column:installer_uid;type:uuid"`
	InstallerEmail   string     `gorm:"column:installer_email;not null"`
	InstallerName    string     `gorm:"column:installer_name;not null"`
	InstallerCompany *string    `gorm:"column:installer_company"`

	CustomerName    string  `gorm:"column:customer_name;not null"`
	CustomerAddress string  `gorm:"column:customer_address;not null"`
	CustomerCity    *string `gorm:"column:customer_city"`
	CustomerZipcode *string `gorm:"column:customer_zipcode"`
	CustomerEmail   *string `gorm:"column:customer_email"`
	CustomerPhone   *string `gorm:"column:customer_phone"`

	ProductBrand            string     `gorm:"column:product_brand;not null"`
	ProductModel            string     `gorm:"column:product_model;not null"`
	ProductSerialNumber     string     `gorm:"column:product_serial_number;not null"`
	ProductInstallationDate *time.Time `gorm:"column:product_installation_date"`

	ConsentWarranty  bool       `gorm:"column:consent_warranty;not null;default:false"`
	ConsentMarketing bool       `gorm:"column:consent_marketing;not null;default:false"`
	ConsentedAt      *time.Time `gorm:"column:consented_at"`

	Status           enums.RegistrationStatus `gorm:"column:status;type:registration_status_enum;not null;default:'pending'"`
	ApprovedAt       *time.Time               `gorm:"column:approved_at"`
	PointsAwarded    int                      `gorm:"column:points_awarded;not null;default:0"`
	IsSafeToAutomate bool                     `gorm:"column:is_safe_to_automate;not null;default:false"`
	WarningReasons   pq.StringArray           `gorm:"column:warning_reasons;type:text[];not null;default:ARRAY[]::text[]"`
	Source           enums.RegistrationSource `gorm:"column:source;default:''"`
	SyncedToCompenda *string                  `gorm:"column:synced_to_compenda"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
