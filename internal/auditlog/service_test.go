package auditlog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mijnfegon/mijnfegon-backend/pkg/db/models"
	"github.com/mijnfegon/mijnfegon-backend/pkg/enums"
	"github.com/mijnfegon/mijnfegon-backend/pkg/logger"
)

type fakeRepository struct {
	createFn func(ctx context.Context, action *models.AdminAction) error
	recent   []models.AdminAction
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, action *models.AdminAction) error {
	if f.createFn != nil {
		return f.createFn(ctx, action)
	}
	return nil
}

func (f *fakeRepository) ListRecent(ctx context.Context, limit int) ([]models.AdminAction, error) {
	return f.recent, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestService_Record(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo, testLogger())
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created *models.AdminAction
	repo.createFn = func(ctx context.Context, action *models.AdminAction) error {
		created = action
		return nil
	}

	adminUID := uuid.New()
	svc.Record(context.Background(), RecordInput{
		Type:           enums.AdminActionRegistrationApprove,
		Description:    "approved registration abc",
		CollectionName: "registrations",
		AdminUID:       adminUID,
		AdminEmail:     "admin@mijnfegon.nl",
	})

	if created == nil {
		t.Fatal("expected a record to be created")
	}
	if created.Type != enums.AdminActionRegistrationApprove {
		t.Errorf("type = %q, want %q", created.Type, enums.AdminActionRegistrationApprove)
	}
	if created.AdminUID != adminUID {
		t.Errorf("admin uid = %s, want %s", created.AdminUID, adminUID)
	}
}

func TestService_RecordSwallowsRepositoryErrors(t *testing.T) {
	repo := &fakeRepository{
		createFn: func(ctx context.Context, action *models.AdminAction) error {
			return errors.New("db down")
		},
	}
	svc, err := NewService(repo, testLogger())
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	// Must not panic or surface the error.
	svc.Record(context.Background(), RecordInput{
		Type:        enums.AdminActionRegistrationDelete,
		Description: "deleted registration",
		AdminUID:    uuid.New(),
	})
}

func TestService_RecordSkipsInvalidInput(t *testing.T) {
	called := false
	repo := &fakeRepository{
		createFn: func(ctx context.Context, action *models.AdminAction) error {
			called = true
			return nil
		},
	}
	svc, _ := NewService(repo, testLogger())

	svc.Record(context.Background(), RecordInput{
		Type:     enums.AdminActionType("bogus"),
		AdminUID: uuid.New(),
	})
	svc.Record(context.Background(), RecordInput{
		Type: enums.AdminActionRegistrationApprove,
	})

	if called {
		t.Fatal("expected no repository write for invalid input")
	}
}
