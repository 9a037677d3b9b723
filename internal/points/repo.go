package points

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
)

// Repository manages persistence for the Drops ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateTransaction(ctx context.Context, txn *models.PointsTransaction) error
	HasCreditForRegistration(ctx context.Context, registrationID uuid.UUID) (bool, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]models.PointsTransaction, error)
	CreditBalance(ctx context.Context, userID uuid.UUID, amount int) error
	DebitSaldo(ctx context.Context, userID uuid.UUID, amount int) (bool, error)
	AdjustBalance(ctx context.Context, userID uuid.UUID, delta int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a points repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.PointsTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) HasCreditForRegistration(ctx context.Context, registrationID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PointsTransaction{}).
		Where("registration_id = ?", registrationID).
		Where("type = ?", enums.PointsTransactionCredit).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]models.PointsTransaction, error) {
	var txns []models.PointsTransaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repository) CreditBalance(ctx context.Context, userID uuid.UUID, amount int) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"points_total": gorm.Expr("points_total + ?", amount),
			"saldo":        gorm.Expr("saldo + ?", amount),
		}).Error
}

// DebitSaldo decrements the spendable balance. The WHERE guard makes the
// debit atomic: it reports false when the saldo no longer covers the amount.
func (r *repository) DebitSaldo(ctx context.Context, userID uuid.UUID, amount int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Where("saldo >= ?", amount).
		Update("saldo", gorm.Expr("saldo - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) AdjustBalance(ctx context.Context, userID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"points_total": gorm.Expr("GREATEST(points_total + ?, 0)", delta),
			"saldo":        gorm.Expr("GREATEST(saldo + ?, 0)", delta),
		}).Error
}
