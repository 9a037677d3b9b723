package points

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
)

// Service maintains the Drops ledger and the balance counters on the user
// profile. Ledger rows are append-only; balances are only ever changed in
// the same transaction as the ledger row that explains the change.
type Service interface {
	Credit(ctx context.Context, tx *gorm.DB, input CreditInput) (*models.PointsTransaction, error)
	Debit(ctx context.Context, tx *gorm.DB, input DebitInput) (*models.PointsTransaction, error)
	Adjust(ctx context.Context, tx *gorm.DB, input AdjustInput) (*models.PointsTransaction, error)
	HasCreditForRegistration(ctx context.Context, registrationID uuid.UUID) (bool, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]models.PointsTransaction, error)
}

// CreditInput awards Drops for an approved registration.
type CreditInput struct {
	UserID         uuid.UUID
	Amount         int
	Description    string
	RegistrationID *uuid.UUID
	ActorUID       *uuid.UUID
}

// DebitInput spends Drops on a shop redemption.
type DebitInput struct {
	UserID      uuid.UUID
	Amount      int
	Description string
	OrderID     *uuid.UUID
}

// AdjustInput is a manual admin correction, positive or negative.
type AdjustInput struct {
	UserID      uuid.UUID
	Delta       int
	Description string
	ActorUID    uuid.UUID
}

type service struct {
	repo Repository
}

// NewService wires a points service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("points repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Credit(ctx context.Context, tx *gorm.DB, input CreditInput) (*models.PointsTransaction, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credit amount must be positive")
	}

	repo := s.repo.WithTx(tx)

	if input.RegistrationID != nil {
		exists, err := repo.HasCreditForRegistration(ctx, *input.RegistrationID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "registration already credited")
		}
	}

	txn := &models.PointsTransaction{
		UserID:         input.UserID,
		Type:           enums.PointsTransactionCredit,
		Amount:         input.Amount,
		Description:    input.Description,
		RegistrationID: input.RegistrationID,
		ActorUID:       input.ActorUID,
	}
	if err := repo.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	if err := repo.CreditBalance(ctx, input.UserID, input.Amount); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *service) Debit(ctx context.Context, tx *gorm.DB, input DebitInput) (*models.PointsTransaction, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "debit amount must be positive")
	}

	repo := s.repo.WithTx(tx)

	covered, err := repo.DebitSaldo(ctx, input.UserID, input.Amount)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "saldo does not cover this redemption")
	}

	txn := &models.PointsTransaction{
		UserID:      input.UserID,
		Type:        enums.PointsTransactionDebit,
		Amount:      -input.Amount,
		Description: input.Description,
		OrderID:     input.OrderID,
	}
	if err := repo.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *service) Adjust(ctx context.Context, tx *gorm.DB, input AdjustInput) (*models.PointsTransaction, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.Delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment delta must be non-zero")
	}
	if input.ActorUID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor uid is required")
	}

	repo := s.repo.WithTx(tx)

	txn := &models.PointsTransaction{
		UserID:      input.UserID,
		Type:        enums.PointsTransactionAdjust,
		Amount:      input.Delta,
		Description: input.Description,
		ActorUID:    &input.ActorUID,
	}
	if err := repo.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	if err := repo.AdjustBalance(ctx, input.UserID, input.Delta); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *service) HasCreditForRegistration(ctx context.Context, registrationID uuid.UUID) (bool, error) {
	if registrationID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "registration id is required")
	}
	return s.repo.HasCreditForRegistration(ctx, registrationID)
}

func (s *service) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.PointsTransaction, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListByUserID(ctx, userID, limit)
}
