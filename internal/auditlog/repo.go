package auditlog

import (
	"context"

	"gorm.io/gorm"

	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
)

// Repository manages persistence for admin action records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, action *models.AdminAction) error
	ListRecent(ctx context.Context, limit int) ([]models.AdminAction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an audit log repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, action *models.AdminAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]models.AdminAction, error) {
	var actions []models.AdminAction
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}
