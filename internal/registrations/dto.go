package registrations

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mijnfegon/mijnfegon-backend/internal/analysis"
	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
)

// CreateRegistrationDTO holds an installer's submitted installation.
type CreateRegistrationDTO struct {
	InstallerUID     *uuid.UUID
	InstallerEmail   string
	InstallerName    string
	InstallerCompany *string

	CustomerName    string
	CustomerAddress string
	CustomerCity    *string
	CustomerZipcode *string
	CustomerEmail   *string
	CustomerPhone   *string

	ProductBrand            string
	ProductModel            string
	ProductSerialNumber     string
	ProductInstallationDate *time.Time

	ConsentWarranty  bool
	ConsentMarketing bool

	Source enums.RegistrationSource
}

func (c CreateRegistrationDTO) ToModel() *models.Registration {
	reg := &models.Registration{
		InstallerUID:     c.InstallerUID,
		InstallerEmail:   c.InstallerEmail,
		InstallerName:    c.InstallerName,
		InstallerCompany: c.InstallerCompany,

		CustomerName:    c.CustomerName,
		CustomerAddress: c.CustomerAddress,
		CustomerCity:    c.CustomerCity,
		CustomerZipcode: c.CustomerZipcode,
		CustomerEmail:   c.CustomerEmail,
		CustomerPhone:   c.CustomerPhone,

		ProductBrand:            c.ProductBrand,
		ProductModel:            c.ProductModel,
		ProductSerialNumber:     c.ProductSerialNumber,
		ProductInstallationDate: c.ProductInstallationDate,

		ConsentWarranty:  c.ConsentWarranty,
		ConsentMarketing: c.ConsentMarketing,

		Status: enums.RegistrationStatusPending,
		Source: c.Source,
	}
	if c.ConsentWarranty || c.ConsentMarketing {
		now := time.Now()
		reg.ConsentedAt = &now
	}

	verdict := analysis.Analyze(analysis.Input{
		Brand:            c.ProductBrand,
		Model:            c.ProductModel,
		SerialNumber:     c.ProductSerialNumber,
		InstallationDate: c.ProductInstallationDate,
	})
	if verdict.IsWarning() {
		reg.WarningReasons = pq.StringArray{verdict.Message}
	} else {
		reg.IsSafeToAutomate = true
	}
	return reg
}

// RegistrationDTO is the transport shape, including the derived analysis.
type RegistrationDTO struct {
	ID               uuid.UUID  `json:"id"`
	InstallerUID     *uuid.UUID `json:"installer_uid,omitempty"`
	InstallerEmail   string     `json:"installer_email"`
	InstallerName    string     `json:"installer_name"`
	InstallerCompany *string    `json:"installer_company,omitempty"`

	CustomerName    string  `json:"customer_name"`
	CustomerAddress string  `json:"customer_address"`
	CustomerCity    *string `json:"customer_city,omitempty"`
	CustomerZipcode *string `json:"customer_zipcode,omitempty"`
	CustomerEmail   *string `json:"customer_email,omitempty"`
	CustomerPhone   *string `json:"customer_phone,omitempty"`

	ProductBrand            string     `json:"product_brand"`
	ProductModel            string     `json:"product_model"`
	ProductSerialNumber     string     `json:"product_serial_number"`
	ProductInstallationDate *time.Time `json:"product_installation_date,omitempty"`

	ConsentWarranty  bool       `json:"consent_warranty"`
	ConsentMarketing bool       `json:"consent_marketing"`
	ConsentedAt      *time.Time `json:"consented_at,omitempty"`

	Status           enums.RegistrationStatus `json:"status"`
	ApprovedAt       *time.Time               `json:"approved_at,omitempty"`
	PointsAwarded    int                      `json:"points_awarded"`
	IsSafeToAutomate bool                     `json:"is_safe_to_automate"`
	WarningReasons   []string                 `json:"warning_reasons"`
	Source           enums.RegistrationSource `json:"source,omitempty"`
	SyncedToCompenda *string                  `json:"synced_to_compenda,omitempty"`

	AnalysisStatus  analysis.Status `json:"analysis_status"`
	AnalysisMessage string          `json:"analysis_message"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel builds the DTO and recomputes the plausibility analysis. The
// analysis is never read from storage.
func FromModel(r *models.Registration) *RegistrationDTO {
	if r == nil {
		return nil
	}

	result := analysis.Analyze(analysis.Input{
		Brand:            r.ProductBrand,
		Model:            r.ProductModel,
		SerialNumber:     r.ProductSerialNumber,
		InstallationDate: r.ProductInstallationDate,
	})

	return &RegistrationDTO{
		ID:               r.ID,
		InstallerUID:     r.InstallerUID,
		InstallerEmail:   r.InstallerEmail,
		InstallerName:    r.InstallerName,
		InstallerCompany: r.InstallerCompany,

		CustomerName:    r.CustomerName,
		CustomerAddress: r.CustomerAddress,
		CustomerCity:    r.CustomerCity,
		CustomerZipcode: r.CustomerZipcode,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,

		ProductBrand:            r.ProductBrand,
		ProductModel:            r.ProductModel,
		ProductSerialNumber:     r.ProductSerialNumber,
		ProductInstallationDate: r.ProductInstallationDate,

		ConsentWarranty:  r.ConsentWarranty,
		ConsentMarketing: r.ConsentMarketing,
		ConsentedAt:      r.ConsentedAt,

		Status:           r.Status,
		ApprovedAt:       r.ApprovedAt,
		PointsAwarded:    r.PointsAwarded,
		IsSafeToAutomate: r.IsSafeToAutomate,
		WarningReasons:   append([]string(nil), r.WarningReasons...),
		Source:           r.Source,
		SyncedToCompenda: r.SyncedToCompenda,

		AnalysisStatus:  result.Status,
		AnalysisMessage: result.Message,

		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
