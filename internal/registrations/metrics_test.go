package registrations

import (
	"testing"
	"time"

	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
)

func TestComputeDashboardMetrics(t *testing.T) {
	now := time.Date(2025, time.June, 20, 12, 0, 0, 0, time.UTC)
	lastLogin := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)
	install := time.Date(2021, time.February, 15, 0, 0, 0, 0, time.UTC)

	good := func(status enums.RegistrationStatus, createdAt time.Time, approvedAt *time.Time) models.Registration {
		return models.Registration{
			ProductBrand:            "Fegon",
			ProductSerialNumber:     "TK123456",
			ProductInstallationDate: &install,
			Status:                  status,
			ApprovedAt:              approvedAt,
			CreatedAt:               createdAt,
			UpdatedAt:               createdAt,
		}
	}
	approvedJune := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	approvedMay := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)

	snapshot := []models.Registration{
		// Pending, created after last login, good analysis.
		good(enums.RegistrationStatusPending, now.Add(-24*time.Hour), nil),
		// Approved this month.
		good(enums.RegistrationStatusApproved, now.Add(-30*24*time.Hour), &approvedJune),
		// Approved in May: counts as approved, not as approved-this-month.
		good(enums.RegistrationStatusApproved, now.Add(-60*24*time.Hour), &approvedMay),
		// Rejected with a warning-grade serial, created before last login.
		{
			ProductBrand:        "Fegon",
			ProductSerialNumber: "XX123",
			Status:              enums.RegistrationStatusRejected,
			CreatedAt:           now.Add(-90 * 24 * time.Hour),
			UpdatedAt:           now.Add(-90 * 24 * time.Hour),
		},
		// Pending without installation date: warning, new since login.
		{
			ProductBrand:        "Fegon",
			ProductSerialNumber: "TK123456",
			Status:              enums.RegistrationStatusPending,
			CreatedAt:           now.Add(-time.Hour),
			UpdatedAt:           now.Add(-time.Hour),
		},
	}

	m := ComputeDashboardMetrics(snapshot, &lastLogin, now)

	if m.Total != 5 {
		t.Errorf("total = %d, want 5", m.Total)
	}
	if m.Pending != 2 {
		t.Errorf("pending = %d, want 2", m.Pending)
	}
	if m.Approved != 2 {
		t.Errorf("approved = %d, want 2", m.Approved)
	}
	if m.Rejected != 1 {
		t.Errorf("rejected = %d, want 1", m.Rejected)
	}
	if m.Warnings != 2 {
		t.Errorf("warnings = %d, want 2", m.Warnings)
	}
	if m.NewSinceLogin != 2 {
		t.Errorf("new since login = %d, want 2", m.NewSinceLogin)
	}
	if m.ApprovedThisMonth != 1 {
		t.Errorf("approved this month = %d, want 1", m.ApprovedThisMonth)
	}
}

func TestComputeDashboardMetricsIgnoresLaterEditsToOldApprovals(t *testing.T) {
	now := time.Date(2025, time.June, 20, 12, 0, 0, 0, time.UTC)
	approvedLastYear := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	install := time.Date(2021, time.February, 15, 0, 0, 0, 0, time.UTC)

	// Linking an installer this month touches updated_at, but the approval
	// itself is over a year old and must not resurface in the counter.
	snapshot := []models.Registration{
		{
			ProductBrand:            "Fegon",
			ProductSerialNumber:     "TK123456",
			ProductInstallationDate: &install,
			Status:                  enums.RegistrationStatusApproved,
			ApprovedAt:              &approvedLastYear,
			CreatedAt:               approvedLastYear.Add(-24 * time.Hour),
			UpdatedAt:               now.Add(-time.Hour),
		},
	}

	m := ComputeDashboardMetrics(snapshot, nil, now)
	if m.Approved != 1 {
		t.Errorf("approved = %d, want 1", m.Approved)
	}
	if m.ApprovedThisMonth != 0 {
		t.Errorf("approved this month = %d, want 0", m.ApprovedThisMonth)
	}
}

func TestComputeDashboardMetricsWithoutLastLogin(t *testing.T) {
	now := time.Now()
	snapshot := []models.Registration{
		{ProductSerialNumber: "bad", Status: enums.RegistrationStatusPending, CreatedAt: now},
	}

	m := ComputeDashboardMetrics(snapshot, nil, now)
	if m.NewSinceLogin != 0 {
		t.Errorf("new since login = %d, want 0 without a last login", m.NewSinceLogin)
	}
	if m.Warnings != 1 {
		t.Errorf("warnings = %d, want 1", m.Warnings)
	}
}

func TestComputeDashboardMetricsEmptySnapshot(t *testing.T) {
	m := ComputeDashboardMetrics(nil, nil, time.Now())
	if m != (DashboardMetrics{}) {
		t.Errorf("empty snapshot must produce zero metrics, got %+v", m)
	}
}
