package shop

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mijnfegon/mijnfegon-backend/internal/points"
	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
	"github.com/mijnfegon/mijnfegon-backend/pkg/outbox"
)

type fakeTransactor struct{}

func (fakeTransactor) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeRepo struct {
	products map[uuid.UUID]*models.Product
	orders   map[uuid.UUID]*models.Order
	noStock  bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products: map[uuid.UUID]*models.Product{},
		orders:   map[uuid.UUID]*models.Order{},
	}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeRepo) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakeRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeRepo) UpdateProduct(ctx context.Context, product *models.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeRepo) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	if f.noStock {
		return false, nil
	}
	p, ok := f.products[productID]
	if !ok || p.Stock < quantity {
		return false, nil
	}
	p.Stock -= quantity
	return true, nil
}

func (f *fakeRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeRepo) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *o
	return &clone, nil
}

func (f *fakeRepo) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	if o, ok := f.orders[id]; ok {
		o.Status = status
	}
	return nil
}

type fakePoints struct {
	debits   []points.DebitInput
	debitErr error
}

func (f *fakePoints) Credit(ctx context.Context, tx *gorm.DB, input points.CreditInput) (*models.PointsTransaction, error) {
	return nil, nil
}

func (f *fakePoints) Debit(ctx context.Context, tx *gorm.DB, input points.DebitInput) (*models.PointsTransaction, error) {
	if f.debitErr != nil {
		return nil, f.debitErr
	}
	f.debits = append(f.debits, input)
	return &models.PointsTransaction{}, nil
}

func (f *fakePoints) Adjust(ctx context.Context, tx *gorm.DB, input points.AdjustInput) (*models.PointsTransaction, error) {
	return nil, nil
}

func (f *fakePoints) HasCreditForRegistration(ctx context.Context, registrationID uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakePoints) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.PointsTransaction, error) {
	return nil, nil
}

type fakeOutbox struct {
	events []outbox.DomainEvent
}

func (f *fakeOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

func fixture(t *testing.T) (Service, *fakeRepo, *fakePoints, *fakeOutbox) {
	t.Helper()
	repo := newFakeRepo()
	pts := &fakePoints{}
	emitter := &fakeOutbox{}
	svc, err := NewService(fakeTransactor{}, repo, pts, emitter)
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return svc, repo, pts, emitter
}

func seedProduct(repo *fakeRepo, cost, stock int) *models.Product {
	p := &models.Product{
		ID:         uuid.New(),
		Name:       "Werkjas",
		PointsCost: cost,
		Stock:      stock,
		IsActive:   true,
	}
	repo.products[p.ID] = p
	return p
}

func TestService_Redeem(t *testing.T) {
	svc, repo, pts, emitter := fixture(t)
	product := seedProduct(repo, 120, 3)
	userID := uuid.New()

	order, err := svc.Redeem(context.Background(), RedeemInput{
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("Redeem error: %v", err)
	}
	if order.PointsSpent != 240 {
		t.Errorf("points spent = %d, want 240", order.PointsSpent)
	}
	if product.Stock != 1 {
		t.Errorf("stock = %d, want 1", product.Stock)
	}
	if len(pts.debits) != 1 || pts.debits[0].Amount != 240 {
		t.Errorf("debits = %+v, want one debit of 240", pts.debits)
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != enums.EventOrderPlaced {
		t.Errorf("expected one order_placed event, got %+v", emitter.events)
	}
}

func TestService_RedeemOutOfStock(t *testing.T) {
	svc, repo, pts, _ := fixture(t)
	product := seedProduct(repo, 120, 1)

	_, err := svc.Redeem(context.Background(), RedeemInput{
		UserID:    uuid.New(),
		ProductID: product.ID,
		Quantity:  2,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("err = %v, want STATE_CONFLICT", err)
	}
	if len(pts.debits) != 0 {
		t.Error("no debit may happen when stock reservation fails")
	}
}

func TestService_RedeemInsufficientSaldo(t *testing.T) {
	svc, repo, pts, emitter := fixture(t)
	product := seedProduct(repo, 500, 5)
	pts.debitErr = pkgerrors.New(pkgerrors.CodeStateConflict, "saldo does not cover this redemption")

	_, err := svc.Redeem(context.Background(), RedeemInput{
		UserID:    uuid.New(),
		ProductID: product.ID,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("err = %v, want STATE_CONFLICT", err)
	}
	if len(emitter.events) != 0 {
		t.Error("no event may be emitted when the debit fails")
	}
}

func TestService_RedeemUnknownProduct(t *testing.T) {
	svc, _, _, _ := fixture(t)

	_, err := svc.Redeem(context.Background(), RedeemInput{
		UserID:    uuid.New(),
		ProductID: uuid.New(),
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestService_MarkShipped(t *testing.T) {
	svc, repo, _, _ := fixture(t)
	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: enums.OrderStatusPlaced}
	repo.orders[order.ID] = order

	if err := svc.MarkShipped(context.Background(), order.ID); err != nil {
		t.Fatalf("MarkShipped error: %v", err)
	}
	if order.Status != enums.OrderStatusShipped {
		t.Errorf("status = %q, want shipped", order.Status)
	}

	err := svc.MarkShipped(context.Background(), order.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("second ship err = %v, want STATE_CONFLICT", err)
	}
}
