package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mijnfegon/mijnfegon-backend/internal/points"
	dbpkg "github.com/mijnfegon/mijnfegon-backend/pkg/db"
	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
	"github.com/mijnfegon/mijnfegon-backend/pkg/outbox"
	"github.com/mijnfegon/mijnfegon-backend/pkg/outbox/payloads"
)

// Transactor runs a function inside a database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OutboxEmitter queues domain events inside the caller's transaction.
type OutboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// RedeemInput places a shop order paid in Drops.
type RedeemInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// Service exposes the Drops shop: catalog browsing and redemptions. A
// redemption reserves stock, debits the saldo and records the order in one
// transaction, so a failure anywhere rolls everything back.
type Service interface {
	Catalog(ctx context.Context, includeInactive bool) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Redeem(ctx context.Context, input RedeemInput) (*models.Order, error)
	OrdersFor(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	MarkShipped(ctx context.Context, orderID uuid.UUID) error
}

type service struct {
	tx     Transactor
	repo   Repository
	points points.Service
	outbox OutboxEmitter
}

// NewService wires the shop service.
func NewService(tx Transactor, repo Repository, pointsSvc points.Service, emitter OutboxEmitter) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transactor required")
	}
	if repo == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	if pointsSvc == nil {
		return nil, fmt.Errorf("points service required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{tx: tx, repo: repo, points: pointsSvc, outbox: emitter}, nil
}

func (s *service) Catalog(ctx context.Context, includeInactive bool) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, !includeInactive)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return product, nil
}

func (s *service) Redeem(ctx context.Context, input RedeemInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	product, err := s.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is no longer available")
	}

	cost := product.PointsCost * input.Quantity
	var order *models.Order

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		reserved, err := repo.DecrementStock(ctx, product.ID, input.Quantity)
		if err != nil {
			return err
		}
		if !reserved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "product is out of stock")
		}

		order = &models.Order{
			UserID:      input.UserID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    input.Quantity,
			PointsSpent: cost,
			Status:      enums.OrderStatusPlaced,
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			return err
		}

		orderID := order.ID
		if _, err := s.points.Debit(ctx, tx, points.DebitInput{
			UserID:      input.UserID,
			Amount:      cost,
			Description: fmt.Sprintf("inwisseling %s x%d", product.Name, input.Quantity),
			OrderID:     &orderID,
		}); err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: payloads.OrderPlacedEvent{
				OrderID:     order.ID,
				UserID:      input.UserID,
				ProductID:   product.ID,
				PointsSpent: cost,
				PlacedAt:    time.Now(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) OrdersFor(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.repo.ListOrdersByUser(ctx, userID)
}

func (s *service) MarkShipped(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return err
	}
	if order.Status != enums.OrderStatusPlaced {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order is %s, only placed orders can ship", order.Status))
	}
	return s.repo.UpdateOrderStatus(ctx, orderID, enums.OrderStatusShipped)
}
