package registrations

import (
	"time"

	"github.com/mijnfegon/mijnfegon-backend/internal/analysis"
	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
)

// DashboardMetrics are the admin dashboard counters. They are a pure fold
// over a registration snapshot plus the admin's last-login timestamp and
// are recomputed on every snapshot or login change.
type DashboardMetrics struct {
	Total             int `json:"total"`
	Pending           int `json:"pending"`
	Approved          int `json:"approved"`
	Rejected          int `json:"rejected"`
	Warnings          int `json:"warnings"`
	NewSinceLogin     int `json:"new_since_login"`
	ApprovedThisMonth int `json:"approved_this_month"`
}

// ComputeDashboardMetrics folds the snapshot into dashboard counters. The
// warning count re-runs the plausibility analysis per row so it can never
// disagree with the list view.
func ComputeDashboardMetrics(snapshot []models.Registration, adminLastLogin *time.Time, now time.Time) DashboardMetrics {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var m DashboardMetrics
	m.Total = len(snapshot)

	for i := range snapshot {
		reg := &snapshot[i]

		switch reg.Status {
		case enums.RegistrationStatusPending:
			m.Pending++
		case enums.RegistrationStatusApproved:
			m.Approved++
			if reg.ApprovedAt != nil && !reg.ApprovedAt.Before(monthStart) {
				m.ApprovedThisMonth++
			}
		case enums.RegistrationStatusRejected:
			m.Rejected++
		}

		result := analysis.Analyze(analysis.Input{
			Brand:            reg.ProductBrand,
			Model:            reg.ProductModel,
			SerialNumber:     reg.ProductSerialNumber,
			InstallationDate: reg.ProductInstallationDate,
		})
		if result.IsWarning() {
			m.Warnings++
		}

		if adminLastLogin != nil && reg.CreatedAt.After(*adminLastLogin) {
			m.NewSinceLogin++
		}
	}

	return m
}
