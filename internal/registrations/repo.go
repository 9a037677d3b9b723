package registrations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	"github.com/mijnfegon/mijnfegon-backend/pkg/pagination"
)

// ListFilter narrows the admin registration list.
type ListFilter struct {
	Status       *enums.RegistrationStatus
	InstallerUID *uuid.UUID
}

// Repository manages persistence for registrations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, reg *models.Registration) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	ListPage(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Registration, string, error)
	Snapshot(ctx context.Context) ([]models.Registration, error)
	ListByInstaller(ctx context.Context, installerUID uuid.UUID) ([]models.Registration, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RegistrationStatus) error
	MarkApproved(ctx context.Context, id uuid.UUID, compendaID string, points int, approvedAt time.Time) error
	LinkInstaller(ctx context.Context, id uuid.UUID, installerUID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a registrations repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, reg *models.Registration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	var reg models.Registration
	if err := r.db.WithContext(ctx).First(&reg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListPage returns one page plus the cursor for the next one, newest first.
func (r *repository) ListPage(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Registration, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Registration{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.InstallerUID != nil {
		query = query.Where("installer_uid = ?", *filter.InstallerUID)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Registration
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

// Snapshot loads the full registration set, newest first. The watcher and
// the dashboard metrics fold both operate on this snapshot.
func (r *repository) Snapshot(ctx context.Context) ([]models.Registration, error) {
	var rows []models.Registration
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByInstaller(ctx context.Context, installerUID uuid.UUID) ([]models.Registration, error) {
	var rows []models.Registration
	if err := r.db.WithContext(ctx).
		Where("installer_uid = ?", installerUID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus writes the new status and keeps approved_at meaning "when this
// row last became approved": stamped on a flip to approved, cleared otherwise.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RegistrationStatus) error {
	updates := map[string]any{"status": status}
	if status == enums.RegistrationStatusApproved {
		updates["approved_at"] = time.Now()
	} else {
		updates["approved_at"] = nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// MarkApproved applies the confirmed CRM outcome: status, approval time,
// relation number and the awarded points in one write.
func (r *repository) MarkApproved(ctx context.Context, id uuid.UUID, compendaID string, points int, approvedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":             enums.RegistrationStatusApproved,
			"approved_at":        approvedAt,
			"synced_to_compenda": compendaID,
			"points_awarded":     points,
		}).Error
}

func (r *repository) LinkInstaller(ctx context.Context, id uuid.UUID, installerUID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", id).
		Update("installer_uid", installerUID).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.Registration{}, "id = ?", id).Error
}
