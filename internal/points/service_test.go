package points

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	pkgerrors "github.com/mijnfegon/mijnfegon-backend/pkg/errors"
)

type fakeRepository struct {
	createFn    func(ctx context.Context, txn *models.PointsTransaction) error
	hasCredit   bool
	saldoCovers bool

	creditCalls []int
	adjustCalls []int
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) CreateTransaction(ctx context.Context, txn *models.PointsTransaction) error {
	if f.createFn != nil {
		return f.createFn(ctx, txn)
	}
	return nil
}

func (f *fakeRepository) HasCreditForRegistration(ctx context.Context, registrationID uuid.UUID) (bool, error) {
	return f.hasCredit, nil
}

func (f *fakeRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]models.PointsTransaction, error) {
	return nil, nil
}

func (f *fakeRepository) CreditBalance(ctx context.Context, userID uuid.UUID, amount int) error {
	f.creditCalls = append(f.creditCalls, amount)
	return nil
}

func (f *fakeRepository) DebitSaldo(ctx context.Context, userID uuid.UUID, amount int) (bool, error) {
	return f.saldoCovers, nil
}

func (f *fakeRepository) AdjustBalance(ctx context.Context, userID uuid.UUID, delta int) error {
	f.adjustCalls = append(f.adjustCalls, delta)
	return nil
}

func TestService_CreditWritesLedgerAndBalance(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	regID := uuid.New()
	var created *models.PointsTransaction
	repo.createFn = func(ctx context.Context, txn *models.PointsTransaction) error {
		created = txn
		return nil
	}

	got, err := svc.Credit(context.Background(), nil, CreditInput{
		UserID:         uuid.New(),
		Amount:         50,
		Description:    "registration approved",
		RegistrationID: &regID,
	})
	if err != nil {
		t.Fatalf("Credit error: %v", err)
	}
	if got != created {
		t.Fatal("returned transaction does not match created row")
	}
	if created.Type != enums.PointsTransactionCredit {
		t.Errorf("type = %q, want credit", created.Type)
	}
	if created.Amount != 50 {
		t.Errorf("amount = %d, want 50", created.Amount)
	}
	if len(repo.creditCalls) != 1 || repo.creditCalls[0] != 50 {
		t.Errorf("balance credit calls = %v, want [50]", repo.creditCalls)
	}
}

func TestService_CreditIsExactlyOncePerRegistration(t *testing.T) {
	repo := &fakeRepository{hasCredit: true}
	svc, _ := NewService(repo)

	regID := uuid.New()
	_, err := svc.Credit(context.Background(), nil, CreditInput{
		UserID:         uuid.New(),
		Amount:         50,
		RegistrationID: &regID,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
	if len(repo.creditCalls) != 0 {
		t.Errorf("balance must not change on duplicate credit")
	}
}

func TestService_DebitRequiresCoveringSaldo(t *testing.T) {
	repo := &fakeRepository{saldoCovers: false}
	svc, _ := NewService(repo)

	_, err := svc.Debit(context.Background(), nil, DebitInput{
		UserID: uuid.New(),
		Amount: 100,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("err = %v, want STATE_CONFLICT", err)
	}
}

func TestService_DebitRecordsNegativeAmount(t *testing.T) {
	repo := &fakeRepository{saldoCovers: true}
	svc, _ := NewService(repo)

	var created *models.PointsTransaction
	repo.createFn = func(ctx context.Context, txn *models.PointsTransaction) error {
		created = txn
		return nil
	}

	orderID := uuid.New()
	_, err := svc.Debit(context.Background(), nil, DebitInput{
		UserID:      uuid.New(),
		Amount:      120,
		Description: "shop redemption",
		OrderID:     &orderID,
	})
	if err != nil {
		t.Fatalf("Debit error: %v", err)
	}
	if created.Amount != -120 {
		t.Errorf("amount = %d, want -120", created.Amount)
	}
	if created.Type != enums.PointsTransactionDebit {
		t.Errorf("type = %q, want debit", created.Type)
	}
}

func TestService_AdjustValidatesInput(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	if _, err := svc.Adjust(context.Background(), nil, AdjustInput{
		UserID:   uuid.New(),
		Delta:    0,
		ActorUID: uuid.New(),
	}); pkgerrors.As(err) == nil {
		t.Error("zero delta must be rejected")
	}

	if _, err := svc.Adjust(context.Background(), nil, AdjustInput{
		UserID: uuid.New(),
		Delta:  -25,
	}); pkgerrors.As(err) == nil {
		t.Error("missing actor must be rejected")
	}

	if _, err := svc.Adjust(context.Background(), nil, AdjustInput{
		UserID:      uuid.New(),
		Delta:       -25,
		Description: "correction",
		ActorUID:    uuid.New(),
	}); err != nil {
		t.Errorf("valid adjustment failed: %v", err)
	}
	if len(repo.adjustCalls) != 1 || repo.adjustCalls[0] != -25 {
		t.Errorf("adjust calls = %v, want [-25]", repo.adjustCalls)
	}
}
